package service

import (
	"context"
	"fmt"
	"time"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/config"
	"golang-paper-trader/internal/trading/repository"
	"golang-paper-trader/internal/trading/strategy"
	"golang-paper-trader/pkg/common"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/telegram"
	"golang-paper-trader/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// SettlementService runs the post-market phase: settle pending orders against
// the day's bar, apply the exit rules to surviving positions, then write the
// end-of-day valuation snapshot.
type SettlementService interface {
	RunPostMarket(ctx context.Context, tradeDate time.Time) error
}

type settlementService struct {
	cfg          *config.Config
	priceBarRepo repository.PriceBarRepository
	resolver     StrategyResolver
	orderRepo    repository.OrderRepository
	positionRepo repository.PositionRepository
	accountRepo  repository.AccountRepository
	txRepo       repository.TransactionRepository
	snapshotRepo repository.SnapshotRepository
	redisClient  *redis.Client
	notifier     telegram.Notifier
	logger       *logger.Logger
}

func NewSettlementService(
	cfg *config.Config,
	priceBarRepo repository.PriceBarRepository,
	resolver StrategyResolver,
	orderRepo repository.OrderRepository,
	positionRepo repository.PositionRepository,
	accountRepo repository.AccountRepository,
	txRepo repository.TransactionRepository,
	snapshotRepo repository.SnapshotRepository,
	redisClient *redis.Client,
	notifier telegram.Notifier,
	log *logger.Logger,
) SettlementService {
	return &settlementService{
		cfg:          cfg,
		priceBarRepo: priceBarRepo,
		resolver:     resolver,
		orderRepo:    orderRepo,
		positionRepo: positionRepo,
		accountRepo:  accountRepo,
		txRepo:       txRepo,
		snapshotRepo: snapshotRepo,
		redisClient:  redisClient,
		notifier:     notifier,
		logger:       log,
	}
}

func (s *settlementService) RunPostMarket(ctx context.Context, tradeDate time.Time) error {
	s.logger.Info("Post-market cycle started", logger.Field("trade_date", tradeDate.Format(utils.DateLayout)))

	account, err := s.accountRepo.Get(ctx, s.cfg.Market.InitialCapital)
	if err != nil {
		return err
	}

	if err := s.settlePending(ctx, tradeDate, account); err != nil {
		return err
	}
	if err := s.applyExitRules(ctx, tradeDate); err != nil {
		return err
	}
	if err := s.writeSnapshot(ctx, tradeDate, account); err != nil {
		return err
	}

	s.logger.Info("Post-market cycle finished")
	return nil
}

// settlePending walks the pending orders in creation order and settles each
// exactly once. An order whose symbol has no bar for the trade date stays
// pending if it was created today, and is swept to cancelled otherwise.
func (s *settlementService) settlePending(ctx context.Context, tradeDate time.Time, account *entity.Account) error {
	orders, err := s.orderRepo.GetPending(ctx)
	if err != nil {
		return err
	}

	for i := range orders {
		order := &orders[i]
		bar, err := s.priceBarRepo.GetBar(ctx, order.Symbol, tradeDate)
		if err != nil {
			return err
		}
		if bar == nil {
			if order.Date.Before(utils.TradeDate(tradeDate)) {
				if err := s.cancelOrder(ctx, order, account); err != nil {
					return err
				}
			} else {
				s.logger.Info("No bar for trade date, order stays pending",
					logger.Field("symbol", order.Symbol),
					logger.Field("order_id", order.ID))
			}
			continue
		}

		var filled bool
		switch order.Side {
		case entity.OrderSideBuy:
			filled = bar.Low <= order.LimitPrice
		case entity.OrderSideSell:
			filled = bar.High >= order.LimitPrice
		}

		if !filled {
			if err := s.cancelOrder(ctx, order, account); err != nil {
				return err
			}
			continue
		}
		if err := s.fillOrder(ctx, tradeDate, order, account); err != nil {
			return err
		}
	}
	return nil
}

// cancelOrder moves the order to its terminal CANCELLED state. A cancelled
// BUY releases the cash reserved at proposal time; a cancelled SELL leaves
// the position untouched.
func (s *settlementService) cancelOrder(ctx context.Context, order *entity.Order, account *entity.Account) error {
	order.Status = entity.OrderStatusCancelled
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}
	if order.Side == entity.OrderSideBuy {
		account.CashBalance += order.TotalAmount + order.Fee
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return err
		}
	}
	s.logger.Info("Order cancelled",
		logger.Field("symbol", order.Symbol),
		logger.Field("order_id", order.ID),
		logger.Field("side", string(order.Side)))
	if err := s.notifier.SendMessage(telegram.FormatOrderCancelled(order.Symbol, string(order.Side), order.LimitPrice, order.Shares)); err != nil {
		s.logger.Error("Failed to send cancellation notification", logger.ErrorField(err))
	}
	return nil
}

func (s *settlementService) fillOrder(ctx context.Context, tradeDate time.Time, order *entity.Order, account *entity.Account) error {
	switch order.Side {
	case entity.OrderSideBuy:
		return s.fillBuy(ctx, tradeDate, order)
	case entity.OrderSideSell:
		return s.fillSell(ctx, tradeDate, order, account)
	default:
		return fmt.Errorf("unknown order side: %s", order.Side)
	}
}

// fillBuy settles a BUY at its limit price. Cash moved already at proposal
// time, so only the order, the position and the transaction log change here.
func (s *settlementService) fillBuy(ctx context.Context, tradeDate time.Time, order *entity.Order) error {
	costs := buyCosts(s.cfg.Market, order.LimitPrice, order.Shares)

	order.Status = entity.OrderStatusFilled
	order.Fee = costs.Fee
	order.TotalAmount = costs.Amount
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	position, err := s.positionRepo.GetBySymbol(ctx, order.Symbol)
	if err != nil {
		return err
	}
	if position == nil {
		position = &entity.Position{Symbol: order.Symbol}
	}
	// Weighted average over share cost only. Fees reduce cash, not the basis.
	totalShares := position.Shares + order.Shares
	position.AvgCost = (float64(position.Shares)*position.AvgCost + costs.Amount) / float64(totalShares)
	position.Shares = totalShares
	if err := s.positionRepo.Save(ctx, position); err != nil {
		return err
	}

	if err := s.recordTransaction(ctx, tradeDate, order, costs); err != nil {
		return err
	}

	s.logger.Info("BUY filled",
		logger.Field("symbol", order.Symbol),
		logger.Field("order_id", order.ID),
		logger.Float64Field("price", order.LimitPrice),
		logger.Field("shares", order.Shares))
	if err := s.notifier.SendMessage(telegram.FormatOrderFilled(order.Symbol, string(order.Side), order.LimitPrice, order.Shares, costs.Fee, costs.Tax, costs.Amount)); err != nil {
		s.logger.Error("Failed to send fill notification", logger.ErrorField(err))
	}
	return nil
}

// fillSell settles a SELL at its limit price, credits the net proceeds and
// shrinks or removes the position. Average cost never changes on a sell.
func (s *settlementService) fillSell(ctx context.Context, tradeDate time.Time, order *entity.Order, account *entity.Account) error {
	position, err := s.positionRepo.GetBySymbol(ctx, order.Symbol)
	if err != nil {
		return err
	}
	if position == nil || position.Shares < order.Shares {
		// The position vanished between proposal and settlement. Cancel
		// rather than fabricate shares.
		s.logger.Warn("SELL order without matching position, cancelling",
			logger.Field("symbol", order.Symbol),
			logger.Field("order_id", order.ID))
		return s.cancelOrder(ctx, order, account)
	}

	costs := sellCosts(s.cfg.Market, order.LimitPrice, order.Shares)
	proceeds := costs.Amount - costs.Fee - costs.Tax

	order.Status = entity.OrderStatusFilled
	order.Fee = costs.Fee
	order.Tax = costs.Tax
	order.TotalAmount = costs.Amount
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	position.Shares -= order.Shares
	if position.Shares == 0 {
		if err := s.positionRepo.Delete(ctx, order.Symbol); err != nil {
			return err
		}
	} else {
		if err := s.positionRepo.Save(ctx, position); err != nil {
			return err
		}
	}

	account.CashBalance += proceeds
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	if err := s.recordTransaction(ctx, tradeDate, order, costs); err != nil {
		return err
	}

	s.logger.Info("SELL filled",
		logger.Field("symbol", order.Symbol),
		logger.Field("order_id", order.ID),
		logger.Float64Field("price", order.LimitPrice),
		logger.Field("shares", order.Shares),
		logger.Float64Field("proceeds", proceeds))
	if err := s.notifier.SendMessage(telegram.FormatOrderFilled(order.Symbol, string(order.Side), order.LimitPrice, order.Shares, costs.Fee, costs.Tax, costs.Amount)); err != nil {
		s.logger.Error("Failed to send fill notification", logger.ErrorField(err))
	}
	return nil
}

func (s *settlementService) recordTransaction(ctx context.Context, tradeDate time.Time, order *entity.Order, costs Costs) error {
	return s.txRepo.Create(ctx, &entity.Transaction{
		OrderID:     order.ID,
		Symbol:      order.Symbol,
		Side:        order.Side,
		Price:       order.LimitPrice,
		Shares:      order.Shares,
		Fee:         costs.Fee,
		Tax:         costs.Tax,
		TotalAmount: costs.Amount,
		TradeDate:   tradeDate,
	})
}

// applyExitRules checks every surviving position once, in priority order:
// stop-loss first, then fixed take-profit, then the technical exit when
// take-profit is disabled. At most one forced SELL is queued per symbol and
// it settles on the next cycle.
func (s *settlementService) applyExitRules(ctx context.Context, tradeDate time.Time) error {
	positions, err := s.positionRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}

	stratCfg := s.resolver.Resolve(ctx)
	for i := range positions {
		position := &positions[i]
		bar, err := s.priceBarRepo.GetBar(ctx, position.Symbol, tradeDate)
		if err != nil {
			return err
		}
		if bar == nil {
			continue
		}

		open, err := s.orderRepo.HasOpen(ctx, position.Symbol, entity.OrderSideSell)
		if err != nil {
			return err
		}
		if open {
			continue
		}

		reason, triggered, err := s.exitReason(ctx, tradeDate, stratCfg, position, bar)
		if err != nil {
			return err
		}
		if !triggered {
			continue
		}
		if err := s.queueForcedSell(ctx, tradeDate, position, bar, reason); err != nil {
			return err
		}
	}
	return nil
}

// exitReason returns the highest-priority exit that fires for the position.
// The fixed take-profit and the technical exit are mutually exclusive,
// selected by TakeProfitPct.
func (s *settlementService) exitReason(ctx context.Context, tradeDate time.Time, stratCfg *entity.StrategyConfig, position *entity.Position, bar *entity.PriceBar) (entity.OrderReason, bool, error) {
	roi := position.ROI(bar.Close)

	if roi <= -stratCfg.StopLossPct {
		return entity.OrderReasonStopLoss, true, nil
	}
	if stratCfg.TakeProfitPct > 0 {
		if roi >= stratCfg.TakeProfitPct {
			return entity.OrderReasonTakeProfit, true, nil
		}
		return "", false, nil
	}
	if roi <= 0 {
		return "", false, nil
	}

	checker, err := strategy.NewExitChecker(stratCfg.ActiveStrategy)
	if err != nil {
		return "", false, err
	}
	bars, err := s.priceBarRepo.GetHistory(ctx, position.Symbol, tradeDate, s.cfg.Trading.HistoryBars)
	if err != nil {
		return "", false, err
	}
	fires, err := checker.ExitFires(bars, stratCfg)
	if err != nil {
		return "", false, err
	}
	if fires {
		return entity.OrderReasonTechnicalExit, true, nil
	}
	return "", false, nil
}

// queueForcedSell creates the PENDING SELL at the day's close. No cash or
// position mutation happens until it settles.
func (s *settlementService) queueForcedSell(ctx context.Context, tradeDate time.Time, position *entity.Position, bar *entity.PriceBar, reason entity.OrderReason) error {
	order := &entity.Order{
		Symbol:     position.Symbol,
		Side:       entity.OrderSideSell,
		LimitPrice: bar.Close,
		Shares:     position.Shares,
		Status:     entity.OrderStatusPending,
		Reason:     reason,
		Date:       tradeDate,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return err
	}

	roi := position.ROI(bar.Close)
	s.logger.Info("Forced exit queued",
		logger.Field("symbol", position.Symbol),
		logger.Field("reason", string(reason)),
		logger.Float64Field("roi", roi))
	if err := s.notifier.SendMessage(telegram.FormatForcedExit(position.Symbol, telegram.ExitReason(reason), position.AvgCost, bar.Close, roi)); err != nil {
		s.logger.Error("Failed to send forced exit notification", logger.ErrorField(err))
	}
	return nil
}

// writeSnapshot marks the book to market and upserts the day's snapshot so a
// rerun of the phase refreshes rather than duplicates it. The latest close
// per held symbol is also cached in Redis for the portfolio API.
func (s *settlementService) writeSnapshot(ctx context.Context, tradeDate time.Time, account *entity.Account) error {
	positions, err := s.positionRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	var stockValue float64
	for _, position := range positions {
		price, err := s.latestClose(ctx, position.Symbol, tradeDate)
		if err != nil {
			return err
		}
		if price == 0 {
			// No price history at all; value at cost rather than zero.
			price = position.AvgCost
		}
		stockValue += float64(position.Shares) * price

		key := fmt.Sprintf(common.RedisKeyLastPrice, position.Symbol)
		if err := s.redisClient.Set(ctx, key, price, 48*time.Hour).Err(); err != nil {
			s.logger.Error("Failed to cache last price", logger.ErrorField(err), logger.Field("symbol", position.Symbol))
		}
	}

	account.TotalAsset = account.CashBalance + stockValue
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	snapshot := &entity.DailySnapshot{
		Date:        utils.TradeDate(tradeDate),
		CashBalance: account.CashBalance,
		StockValue:  stockValue,
		TotalAssets: account.TotalAsset,
	}
	if err := s.snapshotRepo.Upsert(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("Daily snapshot written",
		logger.Float64Field("cash_balance", account.CashBalance),
		logger.Float64Field("stock_value", stockValue),
		logger.Float64Field("total_assets", account.TotalAsset))
	if err := s.notifier.SendMessage(telegram.FormatDailySnapshot(tradeDate, account.CashBalance, stockValue, account.TotalAsset, s.cfg.Market.InitialCapital)); err != nil {
		s.logger.Error("Failed to send snapshot notification", logger.ErrorField(err))
	}
	return nil
}

// latestClose returns the most recent close at or before the trade date, or
// zero when the symbol has no history.
func (s *settlementService) latestClose(ctx context.Context, symbol string, tradeDate time.Time) (float64, error) {
	bar, err := s.priceBarRepo.GetBar(ctx, symbol, tradeDate)
	if err != nil {
		return 0, err
	}
	if bar != nil {
		return bar.Close, nil
	}
	bars, err := s.priceBarRepo.GetHistory(ctx, symbol, tradeDate, 1)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, nil
	}
	return bars[len(bars)-1].Close, nil
}
