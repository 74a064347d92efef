package strategy

import (
	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/indicator"
)

// maCross buys on a golden cross of the short SMA over the long SMA and
// exits on the death cross.
type maCross struct{}

func (maCross) Name() entity.StrategyName { return entity.StrategyMACross }

func (maCross) MinBars(cfg *entity.StrategyConfig) int {
	return cfg.Param2 + 1
}

func (maCross) Evaluate(bars []entity.PriceBar, cfg *entity.StrategyConfig) (Evaluation, error) {
	s := indicator.Extract(bars)
	short, err := indicator.SMA(s.Closes, cfg.Param1)
	if err != nil {
		return Evaluation{}, err
	}
	long, err := indicator.SMA(s.Closes, cfg.Param2)
	if err != nil {
		return Evaluation{}, err
	}
	n := len(s.Closes)
	if n < cfg.Param2+1 {
		return Evaluation{}, indicator.ErrInsufficientData
	}
	ev := Evaluation{
		LimitPrice: s.Closes[n-1],
		Indicators: map[string]float64{
			"sma_short": short[n-1],
			"sma_long":  long[n-1],
		},
	}
	if !indicator.CrossedAbove(short, long) {
		return ev, nil
	}
	slope := (short[n-1] - short[n-2]) / short[n-2]
	ev.Fires = true
	ev.Confidence = clamp(0.5+slope*10, 0.5, 0.95)
	ev.Indicators["sma_slope"] = slope
	return ev, nil
}

func (maCross) ExitFires(bars []entity.PriceBar, cfg *entity.StrategyConfig) (bool, error) {
	s := indicator.Extract(bars)
	if len(s.Closes) < cfg.Param2+1 {
		return false, nil
	}
	short, err := indicator.SMA(s.Closes, cfg.Param1)
	if err != nil {
		return false, err
	}
	long, err := indicator.SMA(s.Closes, cfg.Param2)
	if err != nil {
		return false, err
	}
	return indicator.CrossedBelow(short, long), nil
}
