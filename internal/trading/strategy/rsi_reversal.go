package strategy

import (
	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/indicator"
)

// rsiReversal buys when RSI turns up from below the oversold threshold.
// The limit price is shaded 1% under the close to demand a pullback fill.
type rsiReversal struct{}

func (rsiReversal) Name() entity.StrategyName { return entity.StrategyRSIReversal }

func (rsiReversal) MinBars(cfg *entity.StrategyConfig) int {
	return cfg.Param1 + 2
}

func (rsiReversal) Evaluate(bars []entity.PriceBar, cfg *entity.StrategyConfig) (Evaluation, error) {
	s := indicator.Extract(bars)
	rsi, err := indicator.RSI(s.Closes, cfg.Param1)
	if err != nil {
		return Evaluation{}, err
	}
	n := len(rsi)
	if n < 2 {
		return Evaluation{}, indicator.ErrInsufficientData
	}
	prev, cur := rsi[n-2], rsi[n-1]
	close := s.Closes[len(s.Closes)-1]
	ev := Evaluation{
		LimitPrice: close * 0.99,
		Indicators: map[string]float64{"rsi": cur, "rsi_prev": prev},
	}
	if prev < float64(cfg.Param2) && cur > prev {
		ev.Fires = true
		ev.Confidence = 1 - cur/100
	}
	return ev, nil
}

func (rsiReversal) ExitFires(bars []entity.PriceBar, cfg *entity.StrategyConfig) (bool, error) {
	s := indicator.Extract(bars)
	rsi, err := indicator.RSI(s.Closes, cfg.Param1)
	if err != nil {
		if err == indicator.ErrInsufficientData {
			return false, nil
		}
		return false, err
	}
	n := len(rsi)
	if n < 2 {
		return false, nil
	}
	return rsi[n-2] > 70 && rsi[n-1] < rsi[n-2], nil
}
