package signal

import (
	"github.com/yanun0323/errors"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/history"
)

// Config holds every threshold the engine uses.
type Config struct {
	BookWindow              int     `yaml:"bookWindow"`
	TradeWindow             int     `yaml:"tradeWindow"`
	MomentumLookback        int     `yaml:"momentumLookback"`
	TWAPWindow              int     `yaml:"twapWindow"`
	DeviationThreshold      float64 `yaml:"deviationThreshold"`
	AggressiveMaxSpread     float64 `yaml:"aggressiveMaxSpread"`
	AggressiveMaxVolatility float64 `yaml:"aggressiveMaxVolatility"`
	DecayHalfLife           float64 `yaml:"decayHalfLife"`
	TrendThreshold          float64 `yaml:"trendThreshold"`
	FlowThreshold           float64 `yaml:"flowThreshold"`
}

func DefaultConfig() Config {
	return Config{
		BookWindow:              history.DefaultBookCapacity,
		TradeWindow:             history.DefaultTradeCapacity,
		MomentumLookback:        10,
		TWAPWindow:              history.DefaultBookCapacity,
		DeviationThreshold:      0.002,
		AggressiveMaxSpread:     2.0,
		AggressiveMaxVolatility: 10.0,
		DecayHalfLife:           8000,
		TrendThreshold:          0.1,
		FlowThreshold:           0.4,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.BookWindow <= 0:
		return errors.New("signal: bookWindow must be > 0")
	case c.TradeWindow <= 0:
		return errors.New("signal: tradeWindow must be > 0")
	case c.MomentumLookback < 2:
		return errors.New("signal: momentumLookback must be >= 2")
	case c.TWAPWindow <= 0:
		return errors.New("signal: twapWindow must be > 0")
	case c.DeviationThreshold < 0:
		return errors.New("signal: deviationThreshold must be >= 0")
	case c.DecayHalfLife <= 0:
		return errors.New("signal: decayHalfLife must be > 0")
	case c.TrendThreshold < 0 || c.FlowThreshold < 0:
		return errors.New("signal: trend/flow thresholds must be >= 0")
	}
	return nil
}
