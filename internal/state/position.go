package state

import "github.com/XxSNiPxX/hyperliquid-hft-test/internal/model/enum"

// Position is the simulated inventory ledger.
type Position struct {
	Base  float64
	Quote float64
}

// Fill is an execution applied to the ledger.
type Fill struct {
	Side  enum.Side
	Price float64
	Size  float64
}

// Notional returns size*price.
func (f Fill) Notional() float64 {
	return f.Size * f.Price
}

// ApplyFill updates the ledger and returns the new base position.
func (p *Position) ApplyFill(fill Fill) float64 {
	sign := fill.Side.Sign()
	p.Base += sign * fill.Size
	p.Quote -= sign * fill.Notional()
	return p.Base
}

// NextBase returns the base position after a hypothetical fill, without mutating.
func (p Position) NextBase(side enum.Side, size float64) float64 {
	return p.Base + side.Sign()*size
}
