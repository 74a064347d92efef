package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang-paper-trader/internal/scheduler/config"
	"golang-paper-trader/internal/scheduler/dto"
	"golang-paper-trader/internal/trading/repository"
	"golang-paper-trader/pkg/common"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// PortfolioService serves read-only views over the simulated book.
type PortfolioService interface {
	GetSummary(ctx context.Context) (*dto.SummaryResponse, error)
	GetPositions(ctx context.Context) ([]dto.PositionResponse, error)
	GetOrders(ctx context.Context, limit, offset int) ([]dto.OrderResponse, error)
	GetTransactions(ctx context.Context, limit, offset int) ([]dto.TransactionResponse, error)
	GetAssets(ctx context.Context, from, to time.Time) ([]dto.SnapshotResponse, error)
}

type portfolioService struct {
	cfg          *config.Config
	accountRepo  repository.AccountRepository
	positionRepo repository.PositionRepository
	orderRepo    repository.OrderRepository
	txRepo       repository.TransactionRepository
	snapshotRepo repository.SnapshotRepository
	redisClient  *redis.Client
	logger       *logger.Logger
}

func NewPortfolioService(
	cfg *config.Config,
	accountRepo repository.AccountRepository,
	positionRepo repository.PositionRepository,
	orderRepo repository.OrderRepository,
	txRepo repository.TransactionRepository,
	snapshotRepo repository.SnapshotRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) PortfolioService {
	return &portfolioService{
		cfg:          cfg,
		accountRepo:  accountRepo,
		positionRepo: positionRepo,
		orderRepo:    orderRepo,
		txRepo:       txRepo,
		snapshotRepo: snapshotRepo,
		redisClient:  redisClient,
		logger:       log,
	}
}

func (s *portfolioService) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	account, err := s.accountRepo.Get(ctx, s.cfg.Market.InitialCapital)
	if err != nil {
		return nil, err
	}
	positions, err := s.GetPositions(ctx)
	if err != nil {
		return nil, err
	}

	var stockValue float64
	for _, p := range positions {
		stockValue += p.MarketValue
	}
	totalAssets := account.CashBalance + stockValue

	roi := 0.0
	if s.cfg.Market.InitialCapital > 0 {
		roi = (totalAssets - s.cfg.Market.InitialCapital) / s.cfg.Market.InitialCapital
	}
	return &dto.SummaryResponse{
		CashBalance:    account.CashBalance,
		StockValue:     stockValue,
		TotalAssets:    totalAssets,
		InitialCapital: s.cfg.Market.InitialCapital,
		ROI:            roi,
		Positions:      positions,
	}, nil
}

func (s *portfolioService) GetPositions(ctx context.Context) ([]dto.PositionResponse, error) {
	positions, err := s.positionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PositionResponse, 0, len(positions))
	for _, position := range positions {
		price := s.lastPrice(ctx, position.Symbol)
		if price == 0 {
			price = position.AvgCost
		}
		out = append(out, dto.PositionResponse{
			Symbol:      position.Symbol,
			Shares:      position.Shares,
			AvgCost:     position.AvgCost,
			LastPrice:   price,
			MarketValue: float64(position.Shares) * price,
			ROI:         position.ROI(price),
		})
	}
	return out, nil
}

// lastPrice reads the settlement-time price cache. A cache miss is not an
// error; the caller falls back to cost.
func (s *portfolioService) lastPrice(ctx context.Context, symbol string) float64 {
	val, err := s.redisClient.Get(ctx, fmt.Sprintf(common.RedisKeyLastPrice, symbol)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Error("Failed to read last price cache", logger.ErrorField(err), logger.Field("symbol", symbol))
		}
		return 0
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return price
}

func (s *portfolioService) GetOrders(ctx context.Context, limit, offset int) ([]dto.OrderResponse, error) {
	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.OrderResponse{
			ID:          o.ID,
			Symbol:      o.Symbol,
			Side:        string(o.Side),
			LimitPrice:  o.LimitPrice,
			Shares:      o.Shares,
			Status:      string(o.Status),
			Reason:      string(o.Reason),
			Confidence:  o.Confidence,
			Fee:         o.Fee,
			Tax:         o.Tax,
			TotalAmount: o.TotalAmount,
			Date:        o.Date.Format(utils.DateLayout),
			CreatedAt:   o.CreatedAt,
		})
	}
	return out, nil
}

func (s *portfolioService) GetTransactions(ctx context.Context, limit, offset int) ([]dto.TransactionResponse, error) {
	transactions, err := s.txRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, dto.TransactionResponse{
			ID:          t.ID,
			OrderID:     t.OrderID,
			Symbol:      t.Symbol,
			Side:        string(t.Side),
			Price:       t.Price,
			Shares:      t.Shares,
			Fee:         t.Fee,
			Tax:         t.Tax,
			TotalAmount: t.TotalAmount,
			TradeDate:   t.TradeDate.Format(utils.DateLayout),
		})
	}
	return out, nil
}

func (s *portfolioService) GetAssets(ctx context.Context, from, to time.Time) ([]dto.SnapshotResponse, error) {
	snapshots, err := s.snapshotRepo.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SnapshotResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, dto.SnapshotResponse{
			Date:        snap.Date.Format(utils.DateLayout),
			CashBalance: snap.CashBalance,
			StockValue:  snap.StockValue,
			TotalAssets: snap.TotalAssets,
		})
	}
	return out, nil
}
