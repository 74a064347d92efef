package strategy

import (
	"math"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/indicator"
)

// macdCross buys when the MACD histogram flips from non-positive to positive
// and exits on the flip back below zero.
type macdCross struct{}

func (macdCross) Name() entity.StrategyName { return entity.StrategyMACDCross }

func (macdCross) MinBars(cfg *entity.StrategyConfig) int {
	return cfg.Param2 + 10
}

func (macdCross) Evaluate(bars []entity.PriceBar, cfg *entity.StrategyConfig) (Evaluation, error) {
	s := indicator.Extract(bars)
	hist, err := indicator.MACDHist(s.Closes, cfg.Param1, cfg.Param2)
	if err != nil {
		return Evaluation{}, err
	}
	n := len(hist)
	if n < 2 {
		return Evaluation{}, indicator.ErrInsufficientData
	}
	ev := Evaluation{
		LimitPrice: s.Closes[len(s.Closes)-1],
		Indicators: map[string]float64{"macd_hist": hist[n-1], "macd_hist_prev": hist[n-2]},
	}
	if hist[n-2] <= 0 && hist[n-1] > 0 {
		ev.Fires = true
		ev.Confidence = 0.5 + math.Min(math.Abs(hist[n-1])/2, 0.45)
	}
	return ev, nil
}

func (macdCross) ExitFires(bars []entity.PriceBar, cfg *entity.StrategyConfig) (bool, error) {
	s := indicator.Extract(bars)
	hist, err := indicator.MACDHist(s.Closes, cfg.Param1, cfg.Param2)
	if err != nil {
		if err == indicator.ErrInsufficientData {
			return false, nil
		}
		return false, err
	}
	n := len(hist)
	if n < 2 {
		return false, nil
	}
	return hist[n-2] >= 0 && hist[n-1] < 0, nil
}
