package tradejournal

import (
	"math"

	"github.com/markcheno/go-talib"
)

// DefaultMovingAverage is the number of daily closes of the trend filter.
const DefaultMovingAverage = 150

// MovingAverage returns the simple moving average of the last window closes.
// ok is false when there are fewer than window closes.
func MovingAverage(closes []float64, window int) (sma float64, ok bool) {
	if window <= 0 || len(closes) < window {
		return 0, false
	}
	values := talib.Sma(closes, window)
	last := values[len(values)-1]
	if math.IsNaN(last) || math.IsInf(last, 0) {
		return 0, false
	}
	return last, true
}
