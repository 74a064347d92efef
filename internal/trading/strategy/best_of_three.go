package strategy

import (
	"math"
	"sort"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/indicator"
)

const bestOfThreeSlots = 3

// bestOfThree is a dip-buying variant: among watchlist names still trading
// above their SMA(param_2), it buys the three with the deepest drawdown from
// the recent param_1-bar high. Deeper dips score higher confidence.
type bestOfThree struct{}

func (bestOfThree) Name() entity.StrategyName { return entity.StrategyBestOfThree }

func (bestOfThree) MinBars(cfg *entity.StrategyConfig) int {
	n := cfg.Param1 + 1
	if n < cfg.Param2 {
		n = cfg.Param2
	}
	return n
}

type drawdownScore struct {
	symbol   string
	drawdown float64
	sma      float64
	close    float64
}

func (r bestOfThree) Rank(watchlist []string, histories map[string][]entity.PriceBar, cfg *entity.StrategyConfig, hedgeSymbol string) []Candidate {
	minBars := r.MinBars(cfg)
	scores := make([]drawdownScore, 0, len(watchlist))
	for _, symbol := range watchlist {
		bars := histories[symbol]
		if len(bars) < minBars {
			continue
		}
		s := indicator.Extract(bars)
		dd, err := indicator.Drawdown(s, cfg.Param1)
		if err != nil {
			continue
		}
		sma, err := indicator.SMA(s.Closes, cfg.Param2)
		if err != nil {
			continue
		}
		n := len(s.Closes)
		if s.Closes[n-1] <= sma[n-1] {
			continue
		}
		scores = append(scores, drawdownScore{
			symbol:   symbol,
			drawdown: dd[n-1],
			sma:      sma[n-1],
			close:    s.Closes[n-1],
		})
	}
	// Deepest drawdown first; stable to keep watchlist order on ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].drawdown < scores[j].drawdown
	})
	if len(scores) > bestOfThreeSlots {
		scores = scores[:bestOfThreeSlots]
	}

	candidates := make([]Candidate, 0, len(scores))
	for _, sc := range scores {
		candidates = append(candidates, Candidate{
			Symbol:     sc.symbol,
			Confidence: math.Min(0.6+math.Abs(sc.drawdown)*2, 0.99),
			LimitPrice: sc.close,
			Indicators: map[string]float64{
				"drawdown": sc.drawdown,
				"sma":      sc.sma,
			},
		})
	}
	return candidates
}

func (bestOfThree) ExitFires(bars []entity.PriceBar, cfg *entity.StrategyConfig) (bool, error) {
	return closeBelowSMA(bars, cfg.Param2)
}
