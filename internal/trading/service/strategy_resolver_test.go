package service

import (
	"context"
	"errors"
	"testing"

	"golang-paper-trader/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestResolveMissingConfigFallsBack(t *testing.T) {
	resolver := NewStrategyResolver(&fakeStrategyConfigRepo{}, newTestLogger())

	cfg := resolver.Resolve(context.Background())
	assert.Equal(t, entity.DefaultStrategyConfig(), cfg)
}

func TestResolveRepositoryErrorFallsBack(t *testing.T) {
	resolver := NewStrategyResolver(&fakeStrategyConfigRepo{err: errors.New("connection refused")}, newTestLogger())

	cfg := resolver.Resolve(context.Background())
	assert.Equal(t, entity.DefaultStrategyConfig(), cfg)
}

func TestResolveInvalidConfigFallsBack(t *testing.T) {
	stored := entity.DefaultStrategyConfig()
	stored.ActiveStrategy = "NOT_A_STRATEGY"
	resolver := NewStrategyResolver(&fakeStrategyConfigRepo{cfg: stored}, newTestLogger())

	cfg := resolver.Resolve(context.Background())
	assert.Equal(t, entity.StrategyMACross, cfg.ActiveStrategy)
}

func TestResolveBadParamsFallBack(t *testing.T) {
	stored := entity.DefaultStrategyConfig()
	stored.Param1 = 50
	stored.Param2 = 5 // short above long is unusable for MA cross
	resolver := NewStrategyResolver(&fakeStrategyConfigRepo{cfg: stored}, newTestLogger())

	cfg := resolver.Resolve(context.Background())
	assert.Equal(t, 5, cfg.Param1)
	assert.Equal(t, 20, cfg.Param2)
}

func TestResolveValidConfigPassesThrough(t *testing.T) {
	stored := entity.DefaultStrategyConfig()
	stored.ActiveStrategy = entity.StrategyRSIReversal
	stored.Param1 = 14
	stored.Param2 = 30
	resolver := NewStrategyResolver(&fakeStrategyConfigRepo{cfg: stored}, newTestLogger())

	cfg := resolver.Resolve(context.Background())
	assert.Equal(t, entity.StrategyRSIReversal, cfg.ActiveStrategy)
	assert.Equal(t, 14, cfg.Param1)
}
