package repository

import (
	"context"

	"golang-paper-trader/internal/entity"

	"gorm.io/gorm"
)

type StrategyConfigRepository interface {
	// Get returns the most recently updated config row, or nil when none
	// exists. Validation and fallback are the caller's concern.
	Get(ctx context.Context) (*entity.StrategyConfig, error)
	Save(ctx context.Context, config *entity.StrategyConfig) error
}

type strategyConfigRepository struct {
	db *gorm.DB
}

func NewStrategyConfigRepository(db *gorm.DB) StrategyConfigRepository {
	return &strategyConfigRepository{db: db}
}

func (r *strategyConfigRepository) Get(ctx context.Context) (*entity.StrategyConfig, error) {
	var config entity.StrategyConfig
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&config).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *strategyConfigRepository) Save(ctx context.Context, config *entity.StrategyConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}
