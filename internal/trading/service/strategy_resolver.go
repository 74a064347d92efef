package service

import (
	"context"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/repository"
	"golang-paper-trader/internal/trading/strategy"
	"golang-paper-trader/pkg/logger"
)

// StrategyResolver loads the active strategy config, falling back to the
// documented default when the stored row is missing or unusable. A cycle
// always runs with some valid config.
type StrategyResolver interface {
	Resolve(ctx context.Context) *entity.StrategyConfig
}

type strategyResolver struct {
	configRepo repository.StrategyConfigRepository
	logger     *logger.Logger
}

func NewStrategyResolver(configRepo repository.StrategyConfigRepository, log *logger.Logger) StrategyResolver {
	return &strategyResolver{configRepo: configRepo, logger: log}
}

func (r *strategyResolver) Resolve(ctx context.Context) *entity.StrategyConfig {
	cfg, err := r.configRepo.Get(ctx)
	if err != nil {
		r.logger.Error("Failed to load strategy config, using default", logger.ErrorField(err))
		return entity.DefaultStrategyConfig()
	}
	if cfg == nil {
		r.logger.Info("No strategy config found, using default")
		return entity.DefaultStrategyConfig()
	}
	if !cfg.Valid() {
		r.logger.Warn("Stored strategy config is invalid, using default",
			logger.Field("active_strategy", string(cfg.ActiveStrategy)))
		return entity.DefaultStrategyConfig()
	}
	if err := strategy.ValidateParams(cfg); err != nil {
		r.logger.Warn("Stored strategy parameters are invalid, using default", logger.ErrorField(err))
		return entity.DefaultStrategyConfig()
	}
	return cfg
}
