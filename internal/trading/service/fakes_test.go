package service

import (
	"context"
	"sort"
	"time"

	"golang-paper-trader/internal/entity"
	tradingconfig "golang-paper-trader/internal/trading/config"
	"golang-paper-trader/pkg/config"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/utils"

	"go.uber.org/zap"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func testConfig(watchlist ...string) *tradingconfig.Config {
	return &tradingconfig.Config{
		Market: config.Market{}.WithDefaults(),
		Trading: tradingconfig.Trading{
			Watchlist: watchlist,
		}.WithDefaults(),
	}
}

type fakePriceBarRepo struct {
	bars      map[string]map[string]entity.PriceBar
	histories map[string][]entity.PriceBar
}

func newFakePriceBarRepo() *fakePriceBarRepo {
	return &fakePriceBarRepo{
		bars:      make(map[string]map[string]entity.PriceBar),
		histories: make(map[string][]entity.PriceBar),
	}
}

func (f *fakePriceBarRepo) addBar(symbol string, date time.Time, bar entity.PriceBar) {
	bar.Symbol = symbol
	bar.Date = date
	if f.bars[symbol] == nil {
		f.bars[symbol] = make(map[string]entity.PriceBar)
	}
	f.bars[symbol][date.Format(utils.DateLayout)] = bar
}

func (f *fakePriceBarRepo) GetHistory(_ context.Context, symbol string, _ time.Time, _ int) ([]entity.PriceBar, error) {
	return f.histories[symbol], nil
}

func (f *fakePriceBarRepo) GetBar(_ context.Context, symbol string, date time.Time) (*entity.PriceBar, error) {
	m, ok := f.bars[symbol]
	if !ok {
		return nil, nil
	}
	bar, ok := m[date.Format(utils.DateLayout)]
	if !ok {
		return nil, nil
	}
	return &bar, nil
}

type fakeOrderRepo struct {
	orders map[uint]*entity.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*entity.Order), nextID: 1}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	order.ID = f.nextID
	f.nextID++
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) GetPending(_ context.Context) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.orders {
		if o.Status == entity.OrderStatusPending {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *entity.Order) error {
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) HasOpen(_ context.Context, symbol string, side entity.OrderSide) (bool, error) {
	for _, o := range f.orders {
		if o.Symbol == symbol && o.Side == side && o.Status == entity.OrderStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) List(_ context.Context, limit, offset int) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) ListByDate(_ context.Context, date time.Time) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.orders {
		if utils.SameDate(o.Date, date) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) get(id uint) *entity.Order { return f.orders[id] }

type fakePositionRepo struct {
	positions map[string]*entity.Position
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{positions: make(map[string]*entity.Position)}
}

func (f *fakePositionRepo) GetAll(_ context.Context) ([]entity.Position, error) {
	var out []entity.Position
	for _, p := range f.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (f *fakePositionRepo) GetBySymbol(_ context.Context, symbol string) (*entity.Position, error) {
	p, ok := f.positions[symbol]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakePositionRepo) Save(_ context.Context, position *entity.Position) error {
	clone := *position
	f.positions[position.Symbol] = &clone
	return nil
}

func (f *fakePositionRepo) Delete(_ context.Context, symbol string) error {
	delete(f.positions, symbol)
	return nil
}

type fakeAccountRepo struct {
	account entity.Account
}

func (f *fakeAccountRepo) Get(_ context.Context, initialCapital float64) (*entity.Account, error) {
	if f.account.ID == 0 {
		f.account = entity.Account{ID: 1, CashBalance: initialCapital, TotalAsset: initialCapital}
	}
	clone := f.account
	return &clone, nil
}

func (f *fakeAccountRepo) Update(_ context.Context, account *entity.Account) error {
	f.account = *account
	return nil
}

type fakeTransactionRepo struct {
	transactions []entity.Transaction
}

func (f *fakeTransactionRepo) Create(_ context.Context, transaction *entity.Transaction) error {
	f.transactions = append(f.transactions, *transaction)
	return nil
}

func (f *fakeTransactionRepo) List(_ context.Context, limit, offset int) ([]entity.Transaction, error) {
	return f.transactions, nil
}

type fakeSnapshotRepo struct {
	snapshots map[string]entity.DailySnapshot
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[string]entity.DailySnapshot)}
}

func (f *fakeSnapshotRepo) Upsert(_ context.Context, snapshot *entity.DailySnapshot) error {
	f.snapshots[snapshot.Date.Format(utils.DateLayout)] = *snapshot
	return nil
}

func (f *fakeSnapshotRepo) List(_ context.Context, from, to time.Time) ([]entity.DailySnapshot, error) {
	var out []entity.DailySnapshot
	for _, s := range f.snapshots {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSnapshotRepo) Latest(_ context.Context) (*entity.DailySnapshot, error) {
	return nil, nil
}

type fakeStrategyConfigRepo struct {
	cfg *entity.StrategyConfig
	err error
}

func (f *fakeStrategyConfigRepo) Get(_ context.Context) (*entity.StrategyConfig, error) {
	return f.cfg, f.err
}

func (f *fakeStrategyConfigRepo) Save(_ context.Context, cfg *entity.StrategyConfig) error {
	f.cfg = cfg
	return nil
}

type fakeSignalRepo struct {
	signals []entity.Signal
}

func (f *fakeSignalRepo) Create(_ context.Context, signal *entity.Signal) error {
	f.signals = append(f.signals, *signal)
	return nil
}

func (f *fakeSignalRepo) ListByDate(_ context.Context, date time.Time) ([]entity.Signal, error) {
	return f.signals, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.messages = append(f.messages, text)
	return nil
}
