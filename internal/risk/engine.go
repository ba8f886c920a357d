package risk

import (
	"github.com/yanun0323/logs"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/quote"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/state"
)

// Config defines the inventory limits.
type Config struct {
	MaxPosition  float64 `yaml:"maxPosition"`
	MaxOrderSize float64 `yaml:"maxOrderSize"`
	KillSwitch   bool    `yaml:"killSwitch"`
	// SimulateFills applies every admitted proposal to the ledger as if filled
	// at its quoted price. When false, the ledger only moves on reported fills.
	SimulateFills bool `yaml:"simulateFills"`
}

func DefaultConfig() Config {
	return Config{
		MaxPosition:   5.0,
		SimulateFills: true,
	}
}

// Engine admits or rejects quote proposals against the inventory limit.
type Engine struct {
	cfg Config
}

// NewEngine creates a risk engine with static limits.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Check is the pre-trade predicate; it never mutates pos.
func (e *Engine) Check(pos state.Position, p quote.Proposal) Decision {
	decision := Decision{
		Proposal:    p,
		Action:      ActionAllow,
		Reason:      ReasonNone,
		BaseBefore:  pos.Base,
		BaseAfter:   pos.Base,
		MaxPosition: e.cfg.MaxPosition,
	}

	if e.cfg.KillSwitch {
		decision.Action = ActionDeny
		decision.Reason = ReasonKillSwitch
		return decision
	}

	if !p.Side.IsAvailable() || p.Size <= 0 {
		decision.Action = ActionDeny
		decision.Reason = ReasonInvalidProposal
		return decision
	}

	if e.cfg.MaxOrderSize > 0 && p.Size > e.cfg.MaxOrderSize {
		decision.Action = ActionDeny
		decision.Reason = ReasonMaxSize
		return decision
	}

	next := pos.NextBase(p.Side, p.Size)
	if next > e.cfg.MaxPosition || next < -e.cfg.MaxPosition {
		decision.Action = ActionDeny
		decision.Reason = ReasonPositionLimit
		return decision
	}

	decision.BaseAfter = next
	return decision
}

// Evaluate checks proposals in order against the live ledger. Admitted
// proposals are applied as simulated fills when SimulateFills is set, so later
// proposals see the updated base. Rejections are logged and not retried.
func (e *Engine) Evaluate(pos *state.Position, proposals []quote.Proposal) []Decision {
	if len(proposals) == 0 {
		return nil
	}

	decisions := make([]Decision, 0, len(proposals))
	for _, p := range proposals {
		decision := e.Check(*pos, p)
		if decision.Allowed() {
			if e.cfg.SimulateFills {
				pos.ApplyFill(state.Fill{Side: p.Side, Price: p.Price, Size: p.Size})
				decision.FillApplied = true
			}
			logs.Infof("[risk] approved quote: %s, base %.4f -> %.4f", p, decision.BaseBefore, pos.Base)
		} else {
			logs.Infof("[risk] rejected quote: %s, reason: %s, base %.4f, limit %.4f", p, decision.Reason, pos.Base, e.cfg.MaxPosition)
		}
		decisions = append(decisions, decision)
	}

	return decisions
}
