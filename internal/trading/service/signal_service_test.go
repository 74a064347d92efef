package service

import (
	"context"
	"testing"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignalFixture(watchlist ...string) (*signalService, *fakePriceBarRepo, *fakeOrderRepo, *fakePositionRepo, *fakeAccountRepo, *fakeSignalRepo, *fakeStrategyConfigRepo, *fakeNotifier) {
	priceBars := newFakePriceBarRepo()
	orders := newFakeOrderRepo()
	positions := newFakePositionRepo()
	account := &fakeAccountRepo{}
	signals := &fakeSignalRepo{}
	configRepo := &fakeStrategyConfigRepo{}
	notifier := &fakeNotifier{}

	svc := &signalService{
		cfg:          testConfig(watchlist...),
		priceBarRepo: priceBars,
		resolver:     NewStrategyResolver(configRepo, newTestLogger()),
		orderRepo:    orders,
		positionRepo: positions,
		accountRepo:  account,
		signalRepo:   signals,
		notifier:     notifier,
		logger:       newTestLogger(),
	}
	return svc, priceBars, orders, positions, account, signals, configRepo, notifier
}

func TestAdmitReservesCashSerially(t *testing.T) {
	svc, _, orders, _, accountRepo, signals, _, notifier := newSignalFixture("2330.TW", "2317.TW")
	ctx := context.Background()
	tradeDate := date(2026, 8, 28)

	stratCfg := entity.DefaultStrategyConfig() // budget 100000, threshold 0.7

	// Account holds enough for one order only: each costs 100000 + 142 fee.
	accountRepo.account = entity.Account{ID: 1, CashBalance: 150_000, TotalAsset: 150_000}

	candidates := []strategy.Candidate{
		{Symbol: "2330.TW", Confidence: 0.9, LimitPrice: 50},
		{Symbol: "2317.TW", Confidence: 0.8, LimitPrice: 50},
	}
	require.NoError(t, svc.admit(ctx, tradeDate, stratCfg, candidates))

	pending, _ := orders.GetPending(ctx)
	require.Len(t, pending, 1, "second candidate must be starved of cash")
	assert.Equal(t, "2330.TW", pending[0].Symbol)
	assert.Equal(t, int64(2000), pending[0].Shares)
	assert.Equal(t, 100_000.0, pending[0].TotalAmount)
	assert.Equal(t, 142.0, pending[0].Fee)

	assert.InDelta(t, 49_858.0, accountRepo.account.CashBalance, 1e-9)

	require.Len(t, signals.signals, 2)
	assert.True(t, signals.signals[0].Admitted)
	assert.False(t, signals.signals[1].Admitted)
	assert.NotEmpty(t, notifier.messages)
}

func TestAdmitConfidenceGate(t *testing.T) {
	svc, _, orders, _, accountRepo, signals, _, _ := newSignalFixture("2330.TW")
	ctx := context.Background()

	stratCfg := entity.DefaultStrategyConfig()
	accountRepo.account = entity.Account{ID: 1, CashBalance: 1_000_000}

	candidates := []strategy.Candidate{
		{Symbol: "2330.TW", Confidence: 0.69, LimitPrice: 50},
	}
	require.NoError(t, svc.admit(ctx, date(2026, 8, 28), stratCfg, candidates))

	pending, _ := orders.GetPending(ctx)
	assert.Empty(t, pending)
	require.Len(t, signals.signals, 1)
	assert.False(t, signals.signals[0].Admitted, "below-threshold signals are recorded but not traded")
}

func TestAdmitHedgeBypassesGate(t *testing.T) {
	svc, _, orders, _, accountRepo, _, _, _ := newSignalFixture("2330.TW")
	ctx := context.Background()

	stratCfg := entity.DefaultStrategyConfig()
	accountRepo.account = entity.Account{ID: 1, CashBalance: 1_000_000}

	candidates := []strategy.Candidate{
		{Symbol: "00679B.TW", Hedge: true, Confidence: 0, LimitPrice: 30},
	}
	require.NoError(t, svc.admit(ctx, date(2026, 8, 28), stratCfg, candidates))

	pending, _ := orders.GetPending(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.OrderReasonHedge, pending[0].Reason)
}

func TestAdmitSkipsHeldAndPendingSymbols(t *testing.T) {
	svc, _, orders, positions, accountRepo, _, _, _ := newSignalFixture("2330.TW", "2317.TW")
	ctx := context.Background()

	stratCfg := entity.DefaultStrategyConfig()
	accountRepo.account = entity.Account{ID: 1, CashBalance: 1_000_000}

	require.NoError(t, positions.Save(ctx, &entity.Position{Symbol: "2330.TW", Shares: 1000, AvgCost: 50}))
	require.NoError(t, orders.Create(ctx, &entity.Order{
		Symbol: "2317.TW",
		Side:   entity.OrderSideBuy,
		Status: entity.OrderStatusPending,
	}))

	candidates := []strategy.Candidate{
		{Symbol: "2330.TW", Confidence: 0.9, LimitPrice: 50},
		{Symbol: "2317.TW", Confidence: 0.9, LimitPrice: 50},
	}
	require.NoError(t, svc.admit(ctx, date(2026, 8, 28), stratCfg, candidates))

	pending, _ := orders.GetPending(ctx)
	require.Len(t, pending, 1, "only the pre-existing order remains")
	assert.Equal(t, "2317.TW", pending[0].Symbol)
}

func TestAdmitSkipsSubLotSizing(t *testing.T) {
	svc, _, orders, _, accountRepo, signals, _, _ := newSignalFixture("2330.TW")
	ctx := context.Background()

	stratCfg := entity.DefaultStrategyConfig()
	accountRepo.account = entity.Account{ID: 1, CashBalance: 1_000_000}

	// 100000/580 = 172 shares, below one board lot.
	candidates := []strategy.Candidate{
		{Symbol: "2330.TW", Confidence: 0.9, LimitPrice: 580},
	}
	require.NoError(t, svc.admit(ctx, date(2026, 8, 28), stratCfg, candidates))

	pending, _ := orders.GetPending(ctx)
	assert.Empty(t, pending)
	require.Len(t, signals.signals, 1)
	assert.False(t, signals.signals[0].Admitted)
}

func TestRunPreMarketGoldenCross(t *testing.T) {
	svc, priceBars, orders, _, accountRepo, signals, configRepo, _ := newSignalFixture("2330.TW")
	ctx := context.Background()
	tradeDate := date(2026, 8, 28)

	configRepo.cfg = &entity.StrategyConfig{
		ID:                  1,
		ActiveStrategy:      entity.StrategyMACross,
		Param1:              2,
		Param2:              3,
		RiskPreference:      entity.RiskNeutral,
		MaxPositionSize:     100_000,
		ConfidenceThreshold: 0.7,
		StopLossPct:         0.05,
		TakeProfitPct:       0.10,
	}
	accountRepo.account = entity.Account{ID: 1, CashBalance: 1_000_000}

	closes := []float64{10, 9, 8, 7, 12}
	bars := make([]entity.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = entity.PriceBar{Symbol: "2330.TW", High: c + 1, Low: c - 1, Close: c}
	}
	priceBars.histories["2330.TW"] = bars

	require.NoError(t, svc.RunPreMarket(ctx, tradeDate))

	pending, _ := orders.GetPending(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.OrderSideBuy, pending[0].Side)
	assert.Equal(t, 12.0, pending[0].LimitPrice)
	assert.Equal(t, int64(8000), pending[0].Shares, "100000/12 = 8333 floors to eight lots")

	require.Len(t, signals.signals, 1)
	assert.Equal(t, entity.StrategyMACross, signals.signals[0].Strategy)
	assert.True(t, signals.signals[0].Admitted)
}

func TestRunPreMarketNoSignalNoOrders(t *testing.T) {
	svc, priceBars, orders, _, accountRepo, _, configRepo, _ := newSignalFixture("2330.TW")
	ctx := context.Background()

	configRepo.cfg = nil // default MA_CROSS 5/20
	accountRepo.account = entity.Account{ID: 1, CashBalance: 1_000_000}

	// Too short for the default long window: treated as no signal.
	priceBars.histories["2330.TW"] = []entity.PriceBar{{Close: 10}, {Close: 11}}

	require.NoError(t, svc.RunPreMarket(ctx, date(2026, 8, 28)))

	pending, _ := orders.GetPending(ctx)
	assert.Empty(t, pending)
}
