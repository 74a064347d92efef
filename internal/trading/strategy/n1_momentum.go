package strategy

import (
	"sort"

	"golang-paper-trader/internal/entity"
	"golang-paper-trader/internal/trading/indicator"
)

const (
	momentumRSIWindow = 14
	momentumSMAWindow = 20
	momentumSlots     = 2
)

// n1Momentum ranks the watchlist by rate-of-change over param_1 bars and
// takes the top two names, admitting each only when RSI(14) stays under the
// param_2 threshold and the close sits above SMA(20). Budget from an
// unadmitted slot is parked in the hedge instrument instead of cash.
type n1Momentum struct{}

func (n1Momentum) Name() entity.StrategyName { return entity.StrategyN1Momentum }

func (n1Momentum) MinBars(cfg *entity.StrategyConfig) int {
	n := cfg.Param1 + 1
	if n < momentumSMAWindow+1 {
		n = momentumSMAWindow + 1
	}
	return n
}

type momentumScore struct {
	symbol   string
	momentum float64
	rsi      float64
	sma      float64
	close    float64
}

func (r n1Momentum) Rank(watchlist []string, histories map[string][]entity.PriceBar, cfg *entity.StrategyConfig, hedgeSymbol string) []Candidate {
	minBars := r.MinBars(cfg)
	scores := make([]momentumScore, 0, len(watchlist))
	for _, symbol := range watchlist {
		bars := histories[symbol]
		if len(bars) < minBars {
			continue
		}
		s := indicator.Extract(bars)
		mom, err := indicator.Momentum(s.Closes, cfg.Param1)
		if err != nil {
			continue
		}
		rsi, err := indicator.RSI(s.Closes, momentumRSIWindow)
		if err != nil {
			continue
		}
		sma, err := indicator.SMA(s.Closes, momentumSMAWindow)
		if err != nil {
			continue
		}
		n := len(s.Closes)
		scores = append(scores, momentumScore{
			symbol:   symbol,
			momentum: mom[n-1],
			rsi:      rsi[n-1],
			sma:      sma[n-1],
			close:    s.Closes[n-1],
		})
	}
	// Stable sort keeps watchlist order on equal momentum.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].momentum > scores[j].momentum
	})
	if len(scores) > momentumSlots {
		scores = scores[:momentumSlots]
	}

	candidates := make([]Candidate, 0, momentumSlots)
	hedged := false
	for _, sc := range scores {
		if sc.rsi < float64(cfg.Param2) && sc.close > sc.sma {
			conf := 0.4 + sc.momentum*2 + (1-sc.rsi/100)*0.2
			candidates = append(candidates, Candidate{
				Symbol:     sc.symbol,
				Confidence: clamp(conf, 0, 0.98),
				LimitPrice: sc.close,
				Indicators: map[string]float64{
					"momentum": sc.momentum,
					"rsi":      sc.rsi,
					"sma":      sc.sma,
				},
			})
			continue
		}
		if hedged {
			continue
		}
		if hc, ok := hedgeCandidate(histories, hedgeSymbol); ok {
			candidates = append(candidates, hc)
			hedged = true
		}
	}
	return candidates
}

func (n1Momentum) ExitFires(bars []entity.PriceBar, cfg *entity.StrategyConfig) (bool, error) {
	return closeBelowSMA(bars, momentumSMAWindow)
}

// hedgeCandidate builds the defensive entry at the hedge instrument's latest
// close. Hedge entries bypass the confidence gate. An empty symbol or the
// sentinel "CASH" means idle funds stay uninvested.
func hedgeCandidate(histories map[string][]entity.PriceBar, hedgeSymbol string) (Candidate, bool) {
	if hedgeSymbol == "" || hedgeSymbol == "CASH" {
		return Candidate{}, false
	}
	bars := histories[hedgeSymbol]
	if len(bars) == 0 {
		return Candidate{}, false
	}
	return Candidate{
		Symbol:     hedgeSymbol,
		Hedge:      true,
		Confidence: 1,
		LimitPrice: bars[len(bars)-1].Close,
	}, true
}

func closeBelowSMA(bars []entity.PriceBar, window int) (bool, error) {
	s := indicator.Extract(bars)
	sma, err := indicator.SMA(s.Closes, window)
	if err != nil {
		if err == indicator.ErrInsufficientData {
			return false, nil
		}
		return false, err
	}
	n := len(s.Closes)
	return s.Closes[n-1] < sma[n-1], nil
}
