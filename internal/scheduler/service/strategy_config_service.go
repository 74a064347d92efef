package service

import (
	"context"
	"fmt"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/scheduler/dto"
	"golang-paper-trader/internal/trading/repository"
	"golang-paper-trader/internal/trading/strategy"
	"golang-paper-trader/pkg/logger"
)

// StrategyConfigService reads and replaces the strategy settings used by the
// next trading cycle.
type StrategyConfigService interface {
	Get(ctx context.Context) (*dto.StrategyConfigResponse, error)
	Update(ctx context.Context, req *dto.UpdateStrategyConfigRequest) (*dto.StrategyConfigResponse, error)
}

type strategyConfigService struct {
	configRepo repository.StrategyConfigRepository
	logger     *logger.Logger
}

func NewStrategyConfigService(configRepo repository.StrategyConfigRepository, log *logger.Logger) StrategyConfigService {
	return &strategyConfigService{configRepo: configRepo, logger: log}
}

func (s *strategyConfigService) Get(ctx context.Context) (*dto.StrategyConfigResponse, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = entity.DefaultStrategyConfig()
	}
	return toResponse(cfg), nil
}

func (s *strategyConfigService) Update(ctx context.Context, req *dto.UpdateStrategyConfigRequest) (*dto.StrategyConfigResponse, error) {
	cfg := &entity.StrategyConfig{
		ActiveStrategy:      entity.StrategyName(req.ActiveStrategy),
		Param1:              req.Param1,
		Param2:              req.Param2,
		RiskPreference:      entity.RiskPreference(req.RiskPreference),
		MaxPositionSize:     req.MaxPositionSize,
		ConfidenceThreshold: req.ConfidenceThreshold,
		StopLossPct:         req.StopLossPct,
		TakeProfitPct:       req.TakeProfitPct,
	}
	if !cfg.Valid() {
		return nil, fmt.Errorf("invalid strategy config")
	}
	if err := strategy.ValidateParams(cfg); err != nil {
		return nil, err
	}

	// Replace the existing row rather than append history.
	existing, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		cfg.ID = existing.ID
	}
	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("Strategy config updated",
		logger.Field("active_strategy", req.ActiveStrategy),
		logger.Field("risk_preference", req.RiskPreference))
	return toResponse(cfg), nil
}

func toResponse(cfg *entity.StrategyConfig) *dto.StrategyConfigResponse {
	return &dto.StrategyConfigResponse{
		ActiveStrategy:      string(cfg.ActiveStrategy),
		Param1:              cfg.Param1,
		Param2:              cfg.Param2,
		RiskPreference:      string(cfg.RiskPreference),
		MaxPositionSize:     cfg.MaxPositionSize,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		StopLossPct:         cfg.StopLossPct,
		TakeProfitPct:       cfg.TakeProfitPct,
	}
}
