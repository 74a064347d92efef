package repository

import (
	"context"
	"fmt"
	"time"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/pkg/utils"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// PriceBarRepository reads daily OHLC history. Histories are immutable once
// the trading day closes, so reads are cached in memory per symbol and date.
type PriceBarRepository interface {
	// GetHistory returns up to limit bars for symbol with date <= asOf,
	// oldest first.
	GetHistory(ctx context.Context, symbol string, asOf time.Time, limit int) ([]entity.PriceBar, error)
	// GetBar returns the bar for symbol on date, or nil when the symbol did
	// not trade that day.
	GetBar(ctx context.Context, symbol string, date time.Time) (*entity.PriceBar, error)
}

type priceBarRepository struct {
	db            *gorm.DB
	inmemoryCache *cache.Cache
}

func NewPriceBarRepository(db *gorm.DB) PriceBarRepository {
	return &priceBarRepository{
		db:            db,
		inmemoryCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (r *priceBarRepository) GetHistory(ctx context.Context, symbol string, asOf time.Time, limit int) ([]entity.PriceBar, error) {
	key := fmt.Sprintf("history:%s:%s:%d", symbol, asOf.Format(utils.DateLayout), limit)
	if cached, ok := r.inmemoryCache.Get(key); ok {
		return cached.([]entity.PriceBar), nil
	}

	var bars []entity.PriceBar
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND date <= ?", symbol, asOf).
		Order("date DESC").
		Limit(limit).
		Find(&bars).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for the indicator math.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	r.inmemoryCache.Set(key, bars, cache.DefaultExpiration)
	return bars, nil
}

func (r *priceBarRepository) GetBar(ctx context.Context, symbol string, date time.Time) (*entity.PriceBar, error) {
	var bar entity.PriceBar
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND date = ?", symbol, date).
		First(&bar).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}
