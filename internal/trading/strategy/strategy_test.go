package strategy

import (
	"math"
	"testing"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/indicator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes ...float64) []entity.PriceBar {
	bars := make([]entity.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = entity.PriceBar{
			High:  c * 1.02,
			Low:   c * 0.98,
			Close: c,
		}
	}
	return bars
}

func TestNewEvaluator(t *testing.T) {
	for _, name := range []entity.StrategyName{
		entity.StrategyMACross, entity.StrategyRSIReversal,
		entity.StrategyKDCross, entity.StrategyMACDCross,
	} {
		ev, err := NewEvaluator(name)
		require.NoError(t, err)
		assert.Equal(t, name, ev.Name())
	}

	_, err := NewEvaluator(entity.StrategyN1Momentum)
	assert.ErrorIs(t, err, ErrUnknownStrategy, "ranking variants have no per-symbol evaluator")

	_, err = NewEvaluator("NOT_A_STRATEGY")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestNewRanker(t *testing.T) {
	for _, name := range []entity.StrategyName{entity.StrategyN1Momentum, entity.StrategyBestOfThree} {
		r, ok := NewRanker(name)
		require.True(t, ok)
		assert.Equal(t, name, r.Name())
	}

	_, ok := NewRanker(entity.StrategyMACross)
	assert.False(t, ok)
}

func TestValidateParams(t *testing.T) {
	cfg := entity.DefaultStrategyConfig()
	assert.NoError(t, ValidateParams(cfg))

	cfg.Param1 = 20
	cfg.Param2 = 5
	assert.Error(t, ValidateParams(cfg), "MA cross needs short window below long window")

	cfg = entity.DefaultStrategyConfig()
	cfg.Param1 = 0
	assert.Error(t, ValidateParams(cfg))

	cfg = entity.DefaultStrategyConfig()
	cfg.ActiveStrategy = "NOT_A_STRATEGY"
	assert.ErrorIs(t, ValidateParams(cfg), ErrUnknownStrategy)
}

func TestMACrossFiresOnGoldenCross(t *testing.T) {
	ev, err := NewEvaluator(entity.StrategyMACross)
	require.NoError(t, err)

	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyMACross, Param1: 2, Param2: 3}
	// SMA2 moves from 7.5 to 9.5, SMA3 from 8 to 9: the cross happens on
	// the final bar.
	bars := barsFromCloses(10, 9, 8, 7, 12)
	result, err := ev.Evaluate(bars, cfg)
	require.NoError(t, err)

	assert.True(t, result.Fires)
	assert.Equal(t, 12.0, result.LimitPrice)
	// slope = (9.5-7.5)/7.5 pushes confidence past the cap.
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
}

func TestMACrossQuietWithoutCross(t *testing.T) {
	ev, err := NewEvaluator(entity.StrategyMACross)
	require.NoError(t, err)

	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyMACross, Param1: 2, Param2: 3}
	result, err := ev.Evaluate(barsFromCloses(10, 9, 8, 7, 6), cfg)
	require.NoError(t, err)
	assert.False(t, result.Fires)

	// Already above: a maintained uptrend is not a fresh cross.
	result, err = ev.Evaluate(barsFromCloses(5, 6, 7, 8, 9), cfg)
	require.NoError(t, err)
	assert.False(t, result.Fires)
}

func TestMACrossExitOnDeathCross(t *testing.T) {
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyMACross, Param1: 2, Param2: 3}

	fires, err := maCross{}.ExitFires(barsFromCloses(7, 8, 9, 10, 4), cfg)
	require.NoError(t, err)
	assert.True(t, fires)

	fires, err = maCross{}.ExitFires(barsFromCloses(7, 8, 9, 10, 11), cfg)
	require.NoError(t, err)
	assert.False(t, fires)
}

func TestRSIReversalFiresOnTurnUp(t *testing.T) {
	ev, err := NewEvaluator(entity.StrategyRSIReversal)
	require.NoError(t, err)

	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyRSIReversal, Param1: 3, Param2: 30}
	// Straight declines pin RSI at 0, then the final up-tick turns it.
	bars := barsFromCloses(10, 9, 8, 7, 6, 5, 5.5)
	result, err := ev.Evaluate(bars, cfg)
	require.NoError(t, err)

	require.True(t, result.Fires)
	assert.InDelta(t, 5.5*0.99, result.LimitPrice, 1e-9)

	rsi, err := indicator.RSI(indicator.Extract(bars).Closes, cfg.Param1)
	require.NoError(t, err)
	assert.InDelta(t, 1-rsi[len(rsi)-1]/100, result.Confidence, 1e-9)
}

func TestRSIReversalQuietAboveThreshold(t *testing.T) {
	ev, err := NewEvaluator(entity.StrategyRSIReversal)
	require.NoError(t, err)

	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyRSIReversal, Param1: 3, Param2: 30}
	// Uptrend keeps RSI pinned high; a further gain is not a reversal.
	result, err := ev.Evaluate(barsFromCloses(5, 6, 7, 8, 9, 10, 11), cfg)
	require.NoError(t, err)
	assert.False(t, result.Fires)
}

func TestKDCrossMatchesIndicator(t *testing.T) {
	ev, err := NewEvaluator(entity.StrategyKDCross)
	require.NoError(t, err)

	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyKDCross, Param1: 9, Param2: 20}
	closes := []float64{20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 5.2}
	bars := barsFromCloses(closes...)

	result, err := ev.Evaluate(bars, cfg)
	require.NoError(t, err)

	k, d, err := indicator.StochKD(indicator.Extract(bars), cfg.Param1)
	require.NoError(t, err)
	wantFires := indicator.CrossedAbove(k, d) && k[len(k)-1] < float64(cfg.Param2)
	assert.Equal(t, wantFires, result.Fires)
	if result.Fires {
		assert.InDelta(t, 1-k[len(k)-1]/100, result.Confidence, 1e-9)
	}
}

func TestMACDCrossFiresOnHistogramFlip(t *testing.T) {
	ev, err := NewEvaluator(entity.StrategyMACDCross)
	require.NoError(t, err)

	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyMACDCross, Param1: 3, Param2: 6}
	// Long slide, then a V-shaped recovery flips the histogram positive.
	closes := []float64{30, 29, 28, 27, 26, 25, 24, 23, 22, 21, 20, 19, 18, 17, 16, 17.5, 19, 20.5, 22, 23.5}
	bars := barsFromCloses(closes...)

	result, err := ev.Evaluate(bars, cfg)
	require.NoError(t, err)

	hist, err := indicator.MACDHist(closes, cfg.Param1, cfg.Param2)
	require.NoError(t, err)
	n := len(hist)
	wantFires := hist[n-2] <= 0 && hist[n-1] > 0
	assert.Equal(t, wantFires, result.Fires)
	if result.Fires {
		assert.InDelta(t, 0.5+math.Min(math.Abs(hist[n-1])/2, 0.45), result.Confidence, 1e-9)
	}
}

func momentumSeries(tail ...float64) []float64 {
	closes := make([]float64, 0, 20+len(tail))
	for i := 0; i < 20; i++ {
		closes = append(closes, 100)
	}
	return append(closes, tail...)
}

func TestN1MomentumRanksTopTwo(t *testing.T) {
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyN1Momentum, Param1: 5, Param2: 101}
	histories := map[string][]entity.PriceBar{
		"AAA": barsFromCloses(momentumSeries(110, 120, 130, 140, 150)...), // momentum 0.5
		"BBB": barsFromCloses(momentumSeries(106, 112, 118, 124, 130)...), // momentum 0.3
		"CCC": barsFromCloses(momentumSeries(102, 104, 106, 108, 110)...), // momentum 0.1
	}

	ranker, ok := NewRanker(entity.StrategyN1Momentum)
	require.True(t, ok)
	candidates := ranker.Rank([]string{"AAA", "BBB", "CCC"}, histories, cfg, "")

	require.Len(t, candidates, 2)
	assert.Equal(t, "AAA", candidates[0].Symbol)
	assert.Equal(t, "BBB", candidates[1].Symbol)
	for _, cand := range candidates {
		assert.False(t, cand.Hedge)
		assert.LessOrEqual(t, cand.Confidence, 0.98)
	}
}

func TestN1MomentumRoutesToHedge(t *testing.T) {
	// RSI threshold of 1 rejects every slot; both route to a single hedge
	// candidate.
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyN1Momentum, Param1: 5, Param2: 1}
	histories := map[string][]entity.PriceBar{
		"AAA":   barsFromCloses(momentumSeries(110, 120, 130, 140, 150)...),
		"BBB":   barsFromCloses(momentumSeries(106, 112, 118, 124, 130)...),
		"HEDGE": barsFromCloses(momentumSeries(100, 100, 100, 100, 100)...),
	}

	ranker, _ := NewRanker(entity.StrategyN1Momentum)
	candidates := ranker.Rank([]string{"AAA", "BBB"}, histories, cfg, "HEDGE")

	require.Len(t, candidates, 1)
	assert.Equal(t, "HEDGE", candidates[0].Symbol)
	assert.True(t, candidates[0].Hedge)
	assert.Equal(t, 1.0, candidates[0].Confidence)
	assert.Equal(t, 100.0, candidates[0].LimitPrice)
}

func TestN1MomentumCashDisablesHedge(t *testing.T) {
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyN1Momentum, Param1: 5, Param2: 1}
	histories := map[string][]entity.PriceBar{
		"AAA": barsFromCloses(momentumSeries(110, 120, 130, 140, 150)...),
	}

	ranker, _ := NewRanker(entity.StrategyN1Momentum)
	assert.Empty(t, ranker.Rank([]string{"AAA"}, histories, cfg, "CASH"))
}

func TestN1MomentumSkipsShortHistories(t *testing.T) {
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyN1Momentum, Param1: 5, Param2: 101}
	histories := map[string][]entity.PriceBar{
		"AAA": barsFromCloses(100, 110, 120),
	}

	ranker, _ := NewRanker(entity.StrategyN1Momentum)
	candidates := ranker.Rank([]string{"AAA"}, histories, cfg, "")
	assert.Empty(t, candidates)
}

func drawdownSeries(peak float64) []float64 {
	closes := make([]float64, 0, 25)
	for i := 0; i < 19; i++ {
		closes = append(closes, 100)
	}
	return append(closes, peak, 105, 106, 107, 108, 110)
}

func TestBestOfThreePicksDeepestDips(t *testing.T) {
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyBestOfThree, Param1: 10, Param2: 5}
	histories := map[string][]entity.PriceBar{
		"DDD": barsFromCloses(drawdownSeries(120)...),
		"EEE": barsFromCloses(drawdownSeries(115)...),
		"FFF": barsFromCloses(drawdownSeries(112)...),
		"GGG": barsFromCloses(drawdownSeries(111)...),
	}

	ranker, ok := NewRanker(entity.StrategyBestOfThree)
	require.True(t, ok)
	candidates := ranker.Rank([]string{"DDD", "EEE", "FFF", "GGG"}, histories, cfg, "")

	require.Len(t, candidates, 3)
	assert.Equal(t, "DDD", candidates[0].Symbol)
	assert.Equal(t, "EEE", candidates[1].Symbol)
	assert.Equal(t, "FFF", candidates[2].Symbol)

	for _, cand := range candidates {
		dd := cand.Indicators["drawdown"]
		assert.Less(t, dd, 0.0)
		assert.InDelta(t, math.Min(0.6+math.Abs(dd)*2, 0.99), cand.Confidence, 1e-9)
		assert.Equal(t, 110.0, cand.LimitPrice)
	}
}

func TestBestOfThreeExcludesBelowTrend(t *testing.T) {
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyBestOfThree, Param1: 10, Param2: 5}
	declining := make([]float64, 0, 25)
	for i := 0; i < 20; i++ {
		declining = append(declining, 100)
	}
	declining = append(declining, 90, 88, 86, 84, 82)

	histories := map[string][]entity.PriceBar{
		"HHH": barsFromCloses(declining...),
	}

	ranker, _ := NewRanker(entity.StrategyBestOfThree)
	candidates := ranker.Rank([]string{"HHH"}, histories, cfg, "")
	assert.Empty(t, candidates, "names below their trend SMA are never bought")
}

func TestTechnicalExitBelowTrend(t *testing.T) {
	cfg := &entity.StrategyConfig{ActiveStrategy: entity.StrategyN1Momentum, Param1: 5, Param2: 70}

	checker, err := NewExitChecker(entity.StrategyN1Momentum)
	require.NoError(t, err)

	declining := momentumSeries(95, 90, 85, 80, 75)
	fires, err := checker.ExitFires(barsFromCloses(declining...), cfg)
	require.NoError(t, err)
	assert.True(t, fires)

	rising := momentumSeries(110, 120, 130, 140, 150)
	fires, err = checker.ExitFires(barsFromCloses(rising...), cfg)
	require.NoError(t, err)
	assert.False(t, fires)
}
