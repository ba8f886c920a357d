package signal

// MeanReversion is the regime implied by the twap deviation.
type MeanReversion uint8

const (
	MeanReversionNeutral MeanReversion = iota
	MeanReversionFadeBreakout
	MeanReversionScalpRetracement
)

func (m MeanReversion) String() string {
	switch m {
	case MeanReversionFadeBreakout:
		return "Fade breakout"
	case MeanReversionScalpRetracement:
		return "Scalp retracement"
	default:
		return "Neutral"
	}
}
