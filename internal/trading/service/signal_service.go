package service

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/config"
	"golang-paper-trader/internal/trading/repository"
	"golang-paper-trader/internal/trading/strategy"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/telegram"
	"golang-paper-trader/pkg/utils"

	"gorm.io/datatypes"
)

// SignalService runs the pre-market phase: evaluate the watchlist with the
// active strategy, then admit entries serially against available cash.
type SignalService interface {
	RunPreMarket(ctx context.Context, tradeDate time.Time) error
}

type signalService struct {
	cfg          *config.Config
	priceBarRepo repository.PriceBarRepository
	resolver     StrategyResolver
	orderRepo    repository.OrderRepository
	positionRepo repository.PositionRepository
	accountRepo  repository.AccountRepository
	signalRepo   repository.SignalRepository
	notifier     telegram.Notifier
	logger       *logger.Logger
}

func NewSignalService(
	cfg *config.Config,
	priceBarRepo repository.PriceBarRepository,
	resolver StrategyResolver,
	orderRepo repository.OrderRepository,
	positionRepo repository.PositionRepository,
	accountRepo repository.AccountRepository,
	signalRepo repository.SignalRepository,
	notifier telegram.Notifier,
	log *logger.Logger,
) SignalService {
	return &signalService{
		cfg:          cfg,
		priceBarRepo: priceBarRepo,
		resolver:     resolver,
		orderRepo:    orderRepo,
		positionRepo: positionRepo,
		accountRepo:  accountRepo,
		signalRepo:   signalRepo,
		notifier:     notifier,
		logger:       log,
	}
}

func (s *signalService) RunPreMarket(ctx context.Context, tradeDate time.Time) error {
	stratCfg := s.resolver.Resolve(ctx)
	s.logger.Info("Pre-market cycle started",
		logger.Field("trade_date", tradeDate.Format(utils.DateLayout)),
		logger.Field("strategy", string(stratCfg.ActiveStrategy)))

	histories := s.loadHistories(ctx, tradeDate)

	var candidates []strategy.Candidate
	if ranker, ok := strategy.NewRanker(stratCfg.ActiveStrategy); ok {
		candidates = ranker.Rank(s.cfg.Trading.Watchlist, histories, stratCfg, s.cfg.Trading.HedgeSymbol)
	} else {
		var err error
		candidates, err = s.evaluateWatchlist(ctx, histories, stratCfg)
		if err != nil {
			return err
		}
	}

	if err := s.admit(ctx, tradeDate, stratCfg, candidates); err != nil {
		return err
	}

	s.logger.Info("Pre-market cycle finished", logger.IntField("candidates", len(candidates)))
	return nil
}

// loadHistories fetches daily bars for every watchlist symbol plus the hedge
// instrument, bounded by the configured worker count. A symbol whose load
// fails is skipped for this cycle.
func (s *signalService) loadHistories(ctx context.Context, tradeDate time.Time) map[string][]entity.PriceBar {
	symbols := make([]string, 0, len(s.cfg.Trading.Watchlist)+1)
	symbols = append(symbols, s.cfg.Trading.Watchlist...)
	if h := s.cfg.Trading.HedgeSymbol; h != "" && h != "CASH" {
		symbols = append(symbols, h)
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		histories = make(map[string][]entity.PriceBar, len(symbols))
		sem       = make(chan struct{}, s.cfg.Trading.MaxConcurrentEvaluations)
	)
	for _, symbol := range symbols {
		symbol := symbol
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()
			bars, err := s.priceBarRepo.GetHistory(ctx, symbol, tradeDate, s.cfg.Trading.HistoryBars)
			if err != nil {
				s.logger.Error("Failed to load price history", logger.ErrorField(err), logger.Field("symbol", symbol))
				return
			}
			mu.Lock()
			histories[symbol] = bars
			mu.Unlock()
		})
	}
	wg.Wait()
	return histories
}

// evaluateWatchlist runs a per-symbol evaluator concurrently and returns the
// fired candidates in watchlist order so cash admission is deterministic.
func (s *signalService) evaluateWatchlist(ctx context.Context, histories map[string][]entity.PriceBar, stratCfg *entity.StrategyConfig) ([]strategy.Candidate, error) {
	evaluator, err := strategy.NewEvaluator(stratCfg.ActiveStrategy)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]strategy.Evaluation, len(s.cfg.Trading.Watchlist))
		sem     = make(chan struct{}, s.cfg.Trading.MaxConcurrentEvaluations)
	)
	for _, symbol := range s.cfg.Trading.Watchlist {
		symbol := symbol
		bars := histories[symbol]
		if len(bars) < evaluator.MinBars(stratCfg) {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()
			ev, err := evaluator.Evaluate(bars, stratCfg)
			if err != nil {
				s.logger.Error("Strategy evaluation failed", logger.ErrorField(err), logger.Field("symbol", symbol))
				return
			}
			mu.Lock()
			results[symbol] = ev
			mu.Unlock()
		})
	}
	wg.Wait()

	candidates := make([]strategy.Candidate, 0, len(results))
	for _, symbol := range s.cfg.Trading.Watchlist {
		ev, ok := results[symbol]
		if !ok || !ev.Fires {
			continue
		}
		candidates = append(candidates, strategy.Candidate{
			Symbol:     symbol,
			Confidence: ev.Confidence,
			LimitPrice: ev.LimitPrice,
			Indicators: ev.Indicators,
		})
	}
	return candidates, nil
}

// admit walks the candidates in order, reserving cash for each accepted one.
// Reservations happen here, not at fill time: a filled BUY costs nothing
// further and a cancelled BUY refunds the reservation.
func (s *signalService) admit(ctx context.Context, tradeDate time.Time, stratCfg *entity.StrategyConfig, candidates []strategy.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	account, err := s.accountRepo.Get(ctx, s.cfg.Market.InitialCapital)
	if err != nil {
		return err
	}

	budget := stratCfg.MaxPositionSize * stratCfg.RiskPreference.BudgetMultiplier()
	var proposed []telegram.OrderLine

	for _, cand := range candidates {
		admitted, order, err := s.admitOne(ctx, tradeDate, stratCfg, cand, account, budget)
		if err != nil {
			return err
		}
		if err := s.recordSignal(ctx, tradeDate, stratCfg, cand, admitted); err != nil {
			s.logger.Error("Failed to record signal", logger.ErrorField(err), logger.Field("symbol", cand.Symbol))
		}
		if admitted {
			proposed = append(proposed, telegram.OrderLine{
				Symbol:     order.Symbol,
				Side:       string(order.Side),
				LimitPrice: order.LimitPrice,
				Shares:     order.Shares,
				Reason:     string(order.Reason),
			})
		}
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	if len(proposed) > 0 {
		if err := s.notifier.SendMessage(telegram.FormatOrdersProposed(tradeDate, proposed)); err != nil {
			s.logger.Error("Failed to send proposal notification", logger.ErrorField(err))
		}
	}
	return nil
}

func (s *signalService) admitOne(ctx context.Context, tradeDate time.Time, stratCfg *entity.StrategyConfig, cand strategy.Candidate, account *entity.Account, budget float64) (bool, *entity.Order, error) {
	if !cand.Hedge && cand.Confidence < stratCfg.ConfidenceThreshold {
		return false, nil, nil
	}

	position, err := s.positionRepo.GetBySymbol(ctx, cand.Symbol)
	if err != nil {
		return false, nil, err
	}
	if position != nil {
		s.logger.Debug("Skipping candidate, position already held", logger.Field("symbol", cand.Symbol))
		return false, nil, nil
	}

	open, err := s.orderRepo.HasOpen(ctx, cand.Symbol, entity.OrderSideBuy)
	if err != nil {
		return false, nil, err
	}
	if open {
		s.logger.Debug("Skipping candidate, pending order exists", logger.Field("symbol", cand.Symbol))
		return false, nil, nil
	}

	shares := lotShares(budget, cand.LimitPrice, s.cfg.Market.LotSize)
	if shares == 0 {
		s.logger.Debug("Skipping candidate, budget below one lot",
			logger.Field("symbol", cand.Symbol),
			logger.Float64Field("limit_price", cand.LimitPrice))
		return false, nil, nil
	}

	costs := buyCosts(s.cfg.Market, cand.LimitPrice, shares)
	estCost := costs.Amount + costs.Fee
	if estCost > account.CashBalance {
		s.logger.Info("Skipping candidate, insufficient cash",
			logger.Field("symbol", cand.Symbol),
			logger.Float64Field("est_cost", estCost),
			logger.Float64Field("cash_balance", account.CashBalance))
		return false, nil, nil
	}

	reason := entity.OrderReasonEntry
	if cand.Hedge {
		reason = entity.OrderReasonHedge
	}
	order := &entity.Order{
		Symbol:      cand.Symbol,
		Side:        entity.OrderSideBuy,
		LimitPrice:  cand.LimitPrice,
		Shares:      shares,
		Status:      entity.OrderStatusPending,
		Reason:      reason,
		Confidence:  cand.Confidence,
		Fee:         costs.Fee,
		TotalAmount: costs.Amount,
		Date:        tradeDate,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return false, nil, err
	}

	account.CashBalance -= estCost
	s.logger.Info("Order proposed",
		logger.Field("symbol", cand.Symbol),
		logger.Float64Field("limit_price", cand.LimitPrice),
		logger.Field("shares", shares),
		logger.Float64Field("confidence", cand.Confidence))
	return true, order, nil
}

func (s *signalService) recordSignal(ctx context.Context, tradeDate time.Time, stratCfg *entity.StrategyConfig, cand strategy.Candidate, admitted bool) error {
	data, err := json.Marshal(cand.Indicators)
	if err != nil {
		return err
	}
	return s.signalRepo.Create(ctx, &entity.Signal{
		Symbol:     cand.Symbol,
		Strategy:   stratCfg.ActiveStrategy,
		Side:       entity.OrderSideBuy,
		Confidence: cand.Confidence,
		LimitPrice: cand.LimitPrice,
		Admitted:   admitted,
		Data:       datatypes.JSON(data),
		Date:       tradeDate,
	})
}

// lotShares sizes an order: whole shares the budget can buy, rounded down to
// a board-lot multiple. Odd lots are not traded.
func lotShares(budget, limitPrice float64, lotSize int64) int64 {
	if limitPrice <= 0 {
		return 0
	}
	shares := int64(math.Floor(budget / limitPrice))
	return shares - shares%lotSize
}
