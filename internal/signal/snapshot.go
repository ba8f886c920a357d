package signal

import (
	"fmt"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/state"
)

// Snapshot is the derived signal state, recomputed wholesale on every book update.
type Snapshot struct {
	TimestampMs     uint64
	Mid             float64
	BestBid         float64
	BestAsk         float64
	TrendScore      float64
	TWAP            float64
	TWAPDeviation   float64
	MeanReversion   MeanReversion
	Slide           float64
	NormalizedSlide float64
	FillScore       float64
	Volatility      float64
	AggressiveMode  bool
	BookSamples     int
	TradeSamples    int
	Position        state.Position
}

// Spread returns best ask minus best bid.
func (s Snapshot) Spread() float64 {
	return s.BestAsk - s.BestBid
}

func (s Snapshot) String() string {
	return fmt.Sprintf("Trend: %.3f | TWAP: %.2f | Slide: %.3f | NormSlide: %.3f | FillScore: %.2f | Dev: %.4f (%s) | Vol: %.2f | Aggro: %t | Pos: %.3f/%.2f",
		s.TrendScore, s.TWAP, s.Slide, s.NormalizedSlide, s.FillScore,
		s.TWAPDeviation, s.MeanReversion, s.Volatility, s.AggressiveMode,
		s.Position.Base, s.Position.Quote,
	)
}
