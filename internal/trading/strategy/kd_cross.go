package strategy

import (
	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/indicator"
)

// kdCross buys when %K crosses above %D in the oversold zone and exits when
// %K drops back under %D from overbought territory.
type kdCross struct{}

func (kdCross) Name() entity.StrategyName { return entity.StrategyKDCross }

func (kdCross) MinBars(cfg *entity.StrategyConfig) int {
	return cfg.Param1 + 5
}

func (kdCross) Evaluate(bars []entity.PriceBar, cfg *entity.StrategyConfig) (Evaluation, error) {
	s := indicator.Extract(bars)
	k, d, err := indicator.StochKD(s, cfg.Param1)
	if err != nil {
		return Evaluation{}, err
	}
	n := len(k)
	if n < 2 {
		return Evaluation{}, indicator.ErrInsufficientData
	}
	ev := Evaluation{
		LimitPrice: s.Closes[len(s.Closes)-1],
		Indicators: map[string]float64{"stoch_k": k[n-1], "stoch_d": d[n-1]},
	}
	if indicator.CrossedAbove(k, d) && k[n-1] < float64(cfg.Param2) {
		ev.Fires = true
		ev.Confidence = 1 - k[n-1]/100
	}
	return ev, nil
}

func (kdCross) ExitFires(bars []entity.PriceBar, cfg *entity.StrategyConfig) (bool, error) {
	s := indicator.Extract(bars)
	k, d, err := indicator.StochKD(s, cfg.Param1)
	if err != nil {
		if err == indicator.ErrInsufficientData {
			return false, nil
		}
		return false, err
	}
	n := len(k)
	if n < 2 {
		return false, nil
	}
	return indicator.CrossedBelow(k, d) && k[n-1] > 80, nil
}
