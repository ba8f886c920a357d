package signal

import (
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/history"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/state"
)

// Engine owns the rolling history and the current snapshot.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	cfg   Config
	store *history.Store
	snap  Snapshot
}

// NewEngine creates an engine. Invalid configs fall back to DefaultConfig.
func NewEngine(cfg Config) *Engine {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		cfg:   cfg,
		store: history.NewStore(cfg.BookWindow, cfg.TradeWindow),
	}
}

// OnBookUpdate ingests a top-of-book sample and recomputes every indicator.
func (e *Engine) OnBookUpdate(ts uint64, bidPx, askPx, bidVol, askVol float64) Snapshot {
	mid := (bidPx + askPx) / 2
	e.store.PushBook(history.BookSample{
		TimestampMs: ts,
		Mid:         mid,
		BestBid:     bidPx,
		BestAsk:     askPx,
		BidVolume:   bidVol,
		AskVolume:   askVol,
	})

	books := e.store.Books
	momentum := Momentum(books, e.cfg.MomentumLookback)
	twap := TWAP(books, e.cfg.TWAPWindow)
	deviation := TWAPDeviation(mid, twap)
	volatility := Volatility(books)
	slide, normalized := DecaySlide(e.store.Trades, ts, e.cfg.DecayHalfLife)

	e.snap = Snapshot{
		TimestampMs:     ts,
		Mid:             mid,
		BestBid:         bidPx,
		BestAsk:         askPx,
		TrendScore:      momentum,
		TWAP:            twap,
		TWAPDeviation:   deviation,
		MeanReversion:   ClassifyDeviation(deviation, e.cfg.DeviationThreshold),
		Slide:           slide,
		NormalizedSlide: normalized,
		FillScore:       FillScore(momentum, normalized, e.cfg.TrendThreshold, e.cfg.FlowThreshold),
		Volatility:      volatility,
		BookSamples:     books.Len(),
		TradeSamples:    e.store.Trades.Len(),
		Position:        e.snap.Position,
	}
	e.snap.AggressiveMode = IsAggressive(e.snap.Spread(), volatility, e.cfg.AggressiveMaxSpread, e.cfg.AggressiveMaxVolatility)
	return e.snap
}

// OnTrade records a trade print. Flow fields refresh on the next book update.
func (e *Engine) OnTrade(price, size float64, isBuy bool, ts uint64) {
	e.store.PushTrade(history.TradeSample{
		Price:       price,
		Size:        size,
		IsBuy:       isBuy,
		TimestampMs: ts,
	})
	e.snap.TradeSamples = e.store.Trades.Len()
}

// Snapshot returns a copy of the current snapshot.
func (e *Engine) Snapshot() Snapshot {
	return e.snap
}

// Position exposes the ledger embedded in the snapshot.
func (e *Engine) Position() *state.Position {
	return &e.snap.Position
}

// History exposes the rolling windows for read-only inspection.
func (e *Engine) History() *history.Store {
	return e.store
}

func (e *Engine) Config() Config {
	return e.cfg
}
