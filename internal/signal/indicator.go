package signal

import (
	"math"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/history"
)

const twapEpsilon = 1e-6

// Momentum is the mid change between the oldest and newest of the last lookback samples.
func Momentum(books *history.Window[history.BookSample], lookback int) float64 {
	if books.Len() < 2 {
		return 0
	}
	recent := books.Last(lookback)
	if len(recent) < 2 {
		return 0
	}
	return recent[len(recent)-1].Mid - recent[0].Mid
}

// TWAP is the mean mid price over up to window of the newest samples.
func TWAP(books *history.Window[history.BookSample], window int) float64 {
	recent := books.Last(window)
	if len(recent) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range recent {
		sum += s.Mid
	}
	return sum / float64(len(recent))
}

// TWAPDeviation is (price-twap)/twap, or 0 for a near-zero twap.
func TWAPDeviation(price, twap float64) float64 {
	if math.Abs(twap) < twapEpsilon {
		return 0
	}
	return (price - twap) / twap
}

// ClassifyDeviation maps a twap deviation onto a mean-reversion regime.
func ClassifyDeviation(deviation, threshold float64) MeanReversion {
	switch {
	case deviation > threshold:
		return MeanReversionFadeBreakout
	case deviation < -threshold:
		return MeanReversionScalpRetracement
	default:
		return MeanReversionNeutral
	}
}

// Volatility is the population standard deviation of mid prices in the window.
func Volatility(books *history.Window[history.BookSample]) float64 {
	n := books.Len()
	if n < 2 {
		return 0
	}
	sum := 0.0
	books.Each(func(s history.BookSample) { sum += s.Mid })
	mean := sum / float64(n)

	variance := 0.0
	books.Each(func(s history.BookSample) {
		d := s.Mid - mean
		variance += d * d
	})
	return math.Sqrt(variance / float64(n))
}

// DecaySlide returns the decay-weighted net trade flow and its normalized form.
//
// weight = exp(-ln(1+age)/halfLife), so decay is logarithmic in age.
func DecaySlide(trades *history.Window[history.TradeSample], now uint64, halfLife float64) (net, normalized float64) {
	total := 0.0
	trades.Each(func(t history.TradeSample) {
		age := math.Max(0, float64(now)-float64(t.TimestampMs))
		weight := math.Exp(-math.Log1p(age) / halfLife)
		signed := t.Size
		if !t.IsBuy {
			signed = -t.Size
		}
		net += signed * weight
		total += t.Size * weight
	})
	if total > twapEpsilon {
		normalized = net / total
	}
	return net, normalized
}

// FillScore combines trend and flow into -1, 0 or +1. Trend wins over flow.
func FillScore(momentum, normalizedSlide, trendThreshold, flowThreshold float64) float64 {
	trend := math.Tanh(momentum)
	switch {
	case math.Abs(trend) > trendThreshold:
		return sign(trend)
	case math.Abs(normalizedSlide) > flowThreshold:
		return sign(normalizedSlide)
	default:
		return 0
	}
}

// IsAggressive reports a tight, calm market.
func IsAggressive(spread, volatility, maxSpread, maxVolatility float64) bool {
	return spread <= maxSpread && volatility < maxVolatility
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
