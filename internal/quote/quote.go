package quote

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/model/enum"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/signal"
)

// Config controls spread and size construction.
type Config struct {
	AggressiveSpread       float64 `yaml:"aggressiveSpread"`
	PassiveSpread          float64 `yaml:"passiveSpread"`
	VolatilitySpreadFactor float64 `yaml:"volatilitySpreadFactor"`
	MaxSpreadMultiplier    float64 `yaml:"maxSpreadMultiplier"`
	BaseSize               float64 `yaml:"baseSize"`
	MinSizeFactor          float64 `yaml:"minSizeFactor"`
	MaxSizeFactor          float64 `yaml:"maxSizeFactor"`
	AggressiveSizeFactor   float64 `yaml:"aggressiveSizeFactor"`
	FillScoreThreshold     float64 `yaml:"fillScoreThreshold"`
	// TickSize rounds prices to the nearest tick when > 0.
	TickSize float64 `yaml:"tickSize"`
}

func DefaultConfig() Config {
	return Config{
		AggressiveSpread:       0.5,
		PassiveSpread:          2.0,
		VolatilitySpreadFactor: 0.1,
		MaxSpreadMultiplier:    3.0,
		BaseSize:               1.0,
		MinSizeFactor:          0.5,
		MaxSizeFactor:          2.0,
		AggressiveSizeFactor:   1.5,
		FillScoreThreshold:     0.1,
	}
}

// Proposal is a quote intent handed to the risk gate.
type Proposal struct {
	Side  enum.Side
	Price float64
	Size  float64
}

func (p Proposal) String() string {
	return fmt.Sprintf("%s %.4f @ %.4f", p.Side, p.Size, p.Price)
}

// SpreadTick widens the base spread with volatility, capped at MaxSpreadMultiplier.
func (c Config) SpreadTick(aggressive bool, volatility float64) float64 {
	base := c.PassiveSpread
	if aggressive {
		base = c.AggressiveSpread
	}
	return base * math.Min(1+volatility*c.VolatilitySpreadFactor, c.MaxSpreadMultiplier)
}

// Size shrinks the base size as volatility grows, clamped to [MinSizeFactor, MaxSizeFactor].
func (c Config) Size(volatility float64) float64 {
	return c.BaseSize * clamp(1/(1+volatility), c.MinSizeFactor, c.MaxSizeFactor)
}

// Build maps a snapshot to zero, one or two proposals. It has no side effects.
//
// Aggressive mode quotes both sides inside the touch; otherwise only the side
// picked by the fill score is quoted.
func Build(cfg Config, snap signal.Snapshot) []Proposal {
	tick := cfg.SpreadTick(snap.AggressiveMode, snap.Volatility)
	size := cfg.Size(snap.Volatility)

	if snap.AggressiveMode {
		size *= cfg.AggressiveSizeFactor
		return []Proposal{
			{Side: enum.SideBuy, Price: cfg.round(snap.BestBid + tick), Size: size},
			{Side: enum.SideSell, Price: cfg.round(snap.BestAsk - tick), Size: size},
		}
	}

	switch {
	case snap.FillScore > cfg.FillScoreThreshold:
		return []Proposal{{Side: enum.SideBuy, Price: cfg.round(snap.BestBid + tick), Size: size}}
	case snap.FillScore < -cfg.FillScoreThreshold:
		return []Proposal{{Side: enum.SideSell, Price: cfg.round(snap.BestAsk - tick), Size: size}}
	default:
		return nil
	}
}

func (c Config) round(price float64) float64 {
	if c.TickSize <= 0 {
		return price
	}
	tick := decimal.NewFromFloat(c.TickSize)
	return decimal.NewFromFloat(price).Div(tick).Round(0).Mul(tick).InexactFloat64()
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
