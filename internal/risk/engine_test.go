package risk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/model/enum"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/quote"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/state"
)

func TestEvaluateAggressivePair(t *testing.T) {
	e := NewEngine(DefaultConfig())
	var pos state.Position

	decisions := e.Evaluate(&pos, []quote.Proposal{
		{Side: enum.SideBuy, Price: 100.5, Size: 1.5},
		{Side: enum.SideSell, Price: 99.7, Size: 1.5},
	})
	require.Len(t, decisions, 2)

	assert.True(t, decisions[0].Allowed())
	assert.InDelta(t, 0.0, decisions[0].BaseBefore, 1e-12)
	assert.InDelta(t, 1.5, decisions[0].BaseAfter, 1e-12)
	assert.True(t, decisions[0].FillApplied)

	assert.True(t, decisions[1].Allowed())
	assert.InDelta(t, 1.5, decisions[1].BaseBefore, 1e-12)
	assert.InDelta(t, 0.0, decisions[1].BaseAfter, 1e-12)

	assert.InDelta(t, 0.0, pos.Base, 1e-12)
	assert.InDelta(t, -1.5*100.5+1.5*99.7, pos.Quote, 1e-9)
}

func TestEvaluateRejectsAtLimit(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pos := state.Position{Base: 4.0}

	decisions := e.Evaluate(&pos, []quote.Proposal{
		{Side: enum.SideBuy, Price: 100, Size: 1.5},
		{Side: enum.SideBuy, Price: 100, Size: 1.0},
	})
	require.Len(t, decisions, 2)
	assert.False(t, decisions[0].Allowed())
	assert.Equal(t, ReasonPositionLimit, decisions[0].Reason)
	assert.True(t, decisions[1].Allowed())
	assert.InDelta(t, 5.0, pos.Base, 1e-12)

	pos = state.Position{Base: -4.5}
	decisions = e.Evaluate(&pos, []quote.Proposal{{Side: enum.SideSell, Price: 100, Size: 1}})
	assert.False(t, decisions[0].Allowed())
	assert.InDelta(t, -4.5, pos.Base, 1e-12)
	assert.Zero(t, pos.Quote)
}

func TestCheckIsPure(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pos := state.Position{Base: 1}

	d := e.Check(pos, quote.Proposal{Side: enum.SideBuy, Price: 10, Size: 2})
	assert.True(t, d.Allowed())
	assert.InDelta(t, 3.0, d.BaseAfter, 1e-12)
	assert.InDelta(t, 1.0, pos.Base, 1e-12)
}

func TestCheckKillSwitchAndMaxSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KillSwitch = true
	d := NewEngine(cfg).Check(state.Position{}, quote.Proposal{Side: enum.SideBuy, Price: 1, Size: 1})
	assert.Equal(t, ActionDeny, d.Action)
	assert.Equal(t, ReasonKillSwitch, d.Reason)

	cfg = DefaultConfig()
	cfg.MaxOrderSize = 1
	d = NewEngine(cfg).Check(state.Position{}, quote.Proposal{Side: enum.SideSell, Price: 1, Size: 1.5})
	assert.Equal(t, ReasonMaxSize, d.Reason)

	d = NewEngine(DefaultConfig()).Check(state.Position{}, quote.Proposal{Price: 1, Size: 1})
	assert.Equal(t, ReasonInvalidProposal, d.Reason)
}

func TestEvaluateWithoutSimulatedFills(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulateFills = false
	e := NewEngine(cfg)
	var pos state.Position

	decisions := e.Evaluate(&pos, []quote.Proposal{
		{Side: enum.SideBuy, Price: 100, Size: 3},
		{Side: enum.SideBuy, Price: 100, Size: 3},
	})
	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].Allowed())
	assert.True(t, decisions[1].Allowed())
	assert.False(t, decisions[0].FillApplied)
	assert.Equal(t, state.Position{}, pos)
}

func TestEvaluateNeverBreachesLimit(t *testing.T) {
	const limit = 5.0
	e := NewEngine(Config{MaxPosition: limit, SimulateFills: true})
	rng := rand.New(rand.NewSource(7))
	var pos state.Position

	for i := 0; i < 2000; i++ {
		side := enum.SideBuy
		if rng.Intn(2) == 0 {
			side = enum.SideSell
		}
		e.Evaluate(&pos, []quote.Proposal{{Side: side, Price: 100, Size: rng.Float64() * 3}})
		require.LessOrEqual(t, pos.Base, limit)
		require.GreaterOrEqual(t, pos.Base, -limit)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	var pos state.Position
	assert.Nil(t, NewEngine(DefaultConfig()).Evaluate(&pos, nil))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "position_limit", ReasonPositionLimit.String())
	assert.Equal(t, "deny", ActionDeny.String())
}
