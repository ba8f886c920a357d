package risk

import (
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/quote"
)

// Action is the gate verdict for a proposal.
type Action uint8

const (
	ActionAllow Action = iota
	ActionDeny
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// Reason explains a deny.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonKillSwitch
	ReasonMaxSize
	ReasonInvalidProposal
	ReasonPositionLimit
)

// MaxReason is the highest defined reason, for fixed-size counters.
const MaxReason = ReasonPositionLimit

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonKillSwitch:
		return "kill_switch"
	case ReasonMaxSize:
		return "max_size"
	case ReasonInvalidProposal:
		return "invalid_proposal"
	case ReasonPositionLimit:
		return "position_limit"
	default:
		return "unknown"
	}
}

// Decision is the outcome of checking one proposal.
type Decision struct {
	Proposal    quote.Proposal
	Action      Action
	Reason      Reason
	BaseBefore  float64
	BaseAfter   float64
	MaxPosition float64
	FillApplied bool
}

func (d Decision) Allowed() bool {
	return d.Action == ActionAllow
}
