package indicator

import (
	"errors"

	talib "github.com/markcheno/go-talib"

	"golang-paper-trader/internal/entity"
)

// ErrInsufficientData is returned when a series is shorter than the lookback
// an indicator needs. Callers treat it as "no signal", not as a failure.
var ErrInsufficientData = errors.New("insufficient data for requested lookback")

// Series holds the price columns extracted from a bar history, aligned by
// index with the source bars.
type Series struct {
	Highs  []float64
	Lows   []float64
	Closes []float64
}

// Extract pulls the high/low/close columns out of an ascending bar history.
func Extract(bars []entity.PriceBar) Series {
	s := Series{
		Highs:  make([]float64, len(bars)),
		Lows:   make([]float64, len(bars)),
		Closes: make([]float64, len(bars)),
	}
	for i, b := range bars {
		s.Highs[i] = b.High
		s.Lows[i] = b.Low
		s.Closes[i] = b.Close
	}
	return s
}

// SMA returns the simple moving average over window bars. The first window−1
// entries of the result are meaningless warmup values; the length check
// guarantees the tail the caller inspects is past warmup.
func SMA(closes []float64, window int) ([]float64, error) {
	if window <= 0 || len(closes) < window {
		return nil, ErrInsufficientData
	}
	return talib.Sma(closes, window), nil
}

// RSI returns the Wilder-smoothed relative strength index over window bars,
// in [0,100].
func RSI(closes []float64, window int) ([]float64, error) {
	if window <= 0 || len(closes) <= window {
		return nil, ErrInsufficientData
	}
	return talib.Rsi(closes, window), nil
}

// StochKD returns %K and %D: the raw stochastic over kWindow bars smoothed
// with a 3-period simple average, and its own 3-period simple average.
// Warmup runs through index kWindow+3, so callers comparing the last two
// values need kWindow+5 bars before both are real.
func StochKD(s Series, kWindow int) (k, d []float64, err error) {
	if kWindow <= 0 || len(s.Closes) < kWindow+5 {
		return nil, nil, ErrInsufficientData
	}
	k, d = talib.Stoch(s.Highs, s.Lows, s.Closes, kWindow, 3, talib.SMA, 3, talib.SMA)
	return k, d, nil
}

// MACDHist returns the MACD histogram: EMA(fast) − EMA(slow), minus its own
// 9-period EMA.
func MACDHist(closes []float64, fast, slow int) ([]float64, error) {
	if fast <= 0 || slow <= fast || len(closes) < slow+9 {
		return nil, ErrInsufficientData
	}
	_, _, hist := talib.Macd(closes, fast, slow, 9)
	return hist, nil
}

// Momentum returns close[t]/close[t−window] − 1 per bar.
func Momentum(closes []float64, window int) ([]float64, error) {
	if window <= 0 || len(closes) <= window {
		return nil, ErrInsufficientData
	}
	return talib.Rocp(closes, window), nil
}

// Drawdown returns (close[t] − max(high[t−window..t])) / max(high[t−window..t])
// per bar. The result is ≤ 0 by construction.
func Drawdown(s Series, window int) ([]float64, error) {
	if window <= 0 || len(s.Closes) <= window {
		return nil, ErrInsufficientData
	}
	maxHighs := talib.Max(s.Highs, window+1)
	dd := make([]float64, len(s.Closes))
	for i := window; i < len(s.Closes); i++ {
		if maxHighs[i] == 0 {
			continue
		}
		dd[i] = (s.Closes[i] - maxHighs[i]) / maxHighs[i]
	}
	return dd, nil
}

// CrossedAbove reports whether series a crossed from at-or-below to above
// series b between the previous and last index.
func CrossedAbove(a, b []float64) bool {
	n := len(a)
	if n < 2 || len(b) != n {
		return false
	}
	return a[n-2] <= b[n-2] && a[n-1] > b[n-1]
}

// CrossedBelow reports whether series a crossed from at-or-above to below
// series b between the previous and last index.
func CrossedBelow(a, b []float64) bool {
	n := len(a)
	if n < 2 || len(b) != n {
		return false
	}
	return a[n-2] >= b[n-2] && a[n-1] < b[n-1]
}
