// Package strategy implements the entry and exit rules for each supported
// strategy variant. Per-symbol variants implement Evaluator; watchlist-ranking
// variants implement Ranker. The confidence formulas are business rules
// carried over from the product and must not be normalized across variants.
package strategy

import (
	"errors"
	"fmt"

	"golang-paper-trader/internal/entity"
)

// ErrUnknownStrategy is returned for a strategy name the engine does not
// support. Callers fall back to the default config.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Evaluation is the outcome of running one variant over one symbol's history.
type Evaluation struct {
	Fires      bool
	Confidence float64
	LimitPrice float64
	Indicators map[string]float64
}

// Evaluator decides BUY eligibility for one symbol on the most recent bar.
type Evaluator interface {
	Name() entity.StrategyName

	// MinBars returns the shortest history Evaluate can work with; shorter
	// histories mean "no signal", not an error.
	MinBars(cfg *entity.StrategyConfig) int

	// Evaluate inspects the most recent bars and reports whether the entry
	// condition fired, with the variant's confidence and limit price.
	Evaluate(bars []entity.PriceBar, cfg *entity.StrategyConfig) (Evaluation, error)
}

// Candidate is one proposed entry from a ranking variant. Hedge candidates
// carry budget routed away from an unadmitted risk slot and bypass the
// confidence gate.
type Candidate struct {
	Symbol     string
	Hedge      bool
	Confidence float64
	LimitPrice float64
	Indicators map[string]float64
}

// Ranker ranks a fixed watchlist cross-sectionally and returns the admitted
// entries for the cycle. Symbols with insufficient history are skipped.
type Ranker interface {
	Name() entity.StrategyName
	MinBars(cfg *entity.StrategyConfig) int
	Rank(watchlist []string, histories map[string][]entity.PriceBar, cfg *entity.StrategyConfig, hedgeSymbol string) []Candidate
}

// ExitChecker evaluates a variant's reversal signal for the technical exit.
type ExitChecker interface {
	ExitFires(bars []entity.PriceBar, cfg *entity.StrategyConfig) (bool, error)
}

// NewEvaluator returns the per-symbol evaluator for name, or
// ErrUnknownStrategy for ranking variants and unsupported names.
func NewEvaluator(name entity.StrategyName) (Evaluator, error) {
	switch name {
	case entity.StrategyMACross:
		return maCross{}, nil
	case entity.StrategyRSIReversal:
		return rsiReversal{}, nil
	case entity.StrategyKDCross:
		return kdCross{}, nil
	case entity.StrategyMACDCross:
		return macdCross{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
}

// NewRanker returns the cross-sectional ranker for name, or false when the
// variant evaluates symbols independently.
func NewRanker(name entity.StrategyName) (Ranker, bool) {
	switch name {
	case entity.StrategyN1Momentum:
		return n1Momentum{}, true
	case entity.StrategyBestOfThree:
		return bestOfThree{}, true
	default:
		return nil, false
	}
}

// NewExitChecker returns the reversal-signal checker for name.
func NewExitChecker(name entity.StrategyName) (ExitChecker, error) {
	switch name {
	case entity.StrategyMACross:
		return maCross{}, nil
	case entity.StrategyRSIReversal:
		return rsiReversal{}, nil
	case entity.StrategyKDCross:
		return kdCross{}, nil
	case entity.StrategyMACDCross:
		return macdCross{}, nil
	case entity.StrategyN1Momentum:
		return n1Momentum{}, nil
	case entity.StrategyBestOfThree:
		return bestOfThree{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
}

// ValidateParams checks the strategy-specific parameter constraints beyond
// plain positivity.
func ValidateParams(cfg *entity.StrategyConfig) error {
	if cfg.Param1 <= 0 || cfg.Param2 <= 0 {
		return fmt.Errorf("non-positive strategy parameters: %d, %d", cfg.Param1, cfg.Param2)
	}
	switch cfg.ActiveStrategy {
	case entity.StrategyMACross, entity.StrategyMACDCross:
		if cfg.Param1 >= cfg.Param2 {
			return fmt.Errorf("%s requires param_1 < param_2, got %d >= %d", cfg.ActiveStrategy, cfg.Param1, cfg.Param2)
		}
	case entity.StrategyRSIReversal, entity.StrategyKDCross,
		entity.StrategyN1Momentum, entity.StrategyBestOfThree:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, cfg.ActiveStrategy)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
