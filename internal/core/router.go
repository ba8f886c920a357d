package core

import (
	"context"
	"time"

	"github.com/yanun0323/logs"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/bus"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/feed"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/obs"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/quote"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/risk"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/signal"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/state"
	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

const defaultQueueCapacity = 1024

// Option configures a Router.
type Option struct {
	Coin          string
	Signal        signal.Config
	Quote         quote.Config
	Risk          risk.Config
	Sink          IntentSink
	Metrics       *obs.Metrics
	Diagnostics   bool
	QueueCapacity int
}

// DefaultOption returns the stock thresholds with diagnostics enabled.
func DefaultOption() Option {
	return Option{
		Signal:      signal.DefaultConfig(),
		Quote:       quote.DefaultConfig(),
		Risk:        risk.DefaultConfig(),
		Diagnostics: true,
	}
}

// Outcome describes what one event did.
type Outcome struct {
	Kind          feed.Kind
	TraceID       uint64
	Dropped       bool
	Snapshot      signal.Snapshot
	Proposals     []quote.Proposal
	Decisions     []risk.Decision
	TradesApplied int
}

// Admitted returns the proposals the risk engine let through.
func (o Outcome) Admitted() []quote.Proposal {
	var out []quote.Proposal
	for _, d := range o.Decisions {
		if d.Allowed() {
			out = append(out, d.Proposal)
		}
	}
	return out
}

type work struct {
	event feed.Event
	fill  *state.Fill
	query chan<- signal.Snapshot
}

// Router owns the signal engine, the quote config and the risk engine.
//
// All state is touched only by the goroutine running Run, so a book event's
// ingest, quote and risk steps are never interleaved with another event.
// Producers interact through Publish, ReportFill and Snapshot.
type Router struct {
	coin        string
	engine      *signal.Engine
	quoteCfg    quote.Config
	risk        *risk.Engine
	sink        IntentSink
	metrics     *obs.Metrics
	trace       *obs.TraceGenerator
	diagnostics bool
	queue       *bus.Queue[work]
}

// New builds a router. Run must be started for queued events to be processed.
func New(opt Option) *Router {
	capacity := opt.QueueCapacity
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &Router{
		coin:        opt.Coin,
		engine:      signal.NewEngine(opt.Signal),
		quoteCfg:    opt.Quote,
		risk:        risk.NewEngine(opt.Risk),
		sink:        opt.Sink,
		metrics:     opt.Metrics,
		trace:       obs.NewTraceGenerator(0),
		diagnostics: opt.Diagnostics,
		queue:       bus.NewQueue[work](capacity),
	}
}

// Publish enqueues a feed event. Safe for concurrent producers.
func (r *Router) Publish(ev feed.Event) error {
	return r.queue.Publish(work{event: ev})
}

// ReportFill enqueues a confirmed execution for the ledger.
func (r *Router) ReportFill(fill state.Fill) error {
	return r.queue.Publish(work{fill: &fill})
}

// Snapshot asks the owner goroutine for a consistent copy of the current snapshot.
func (r *Router) Snapshot(ctx context.Context) (signal.Snapshot, error) {
	reply := make(chan signal.Snapshot, 1)
	if err := r.queue.Publish(work{query: reply}); err != nil {
		return signal.Snapshot{}, exception.ErrRouterClosed
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return signal.Snapshot{}, ctx.Err()
	}
}

// Pending returns the number of queued, unprocessed events.
func (r *Router) Pending() int {
	return r.queue.Len()
}

// Close stops accepting events; Run returns once the queue is drained.
func (r *Router) Close() {
	r.queue.Close()
}

// Run drains the queue until it is closed or ctx is done.
func (r *Router) Run(ctx context.Context) {
	r.queue.Run(ctx, func(w work) {
		switch {
		case w.query != nil:
			w.query <- r.engine.Snapshot()
		case w.fill != nil:
			r.ApplyFill(*w.fill)
		default:
			r.Handle(ctx, w.event)
		}
	})
}

// Handle runs one event through the pipeline to completion. It must only be
// called from the owner goroutine, or before Run starts.
func (r *Router) Handle(ctx context.Context, ev feed.Event) Outcome {
	start := time.Now()
	var out Outcome

	switch ev.Kind {
	case feed.KindBook:
		out = r.handleBook(ctx, ev.Book)
	case feed.KindTrades:
		out = r.handleTrades(ev.Trades)
	default:
		return Outcome{Kind: feed.KindUnknown}
	}

	r.metrics.ObserveEvent(ev.Kind, time.Since(start))
	return out
}

// ApplyFill books a confirmed execution on the ledger.
func (r *Router) ApplyFill(fill state.Fill) {
	base := r.engine.Position().ApplyFill(fill)
	logs.Infof("[risk] fill applied: %s %.4f @ %.4f, base %.4f", fill.Side, fill.Size, fill.Price, base)
}

func (r *Router) handleBook(ctx context.Context, book feed.Book) Outcome {
	bidPx, askPx, bidVol, askVol, ok := book.Top()
	if !ok {
		r.metrics.IncDroppedBook()
		return Outcome{Kind: feed.KindBook, Dropped: true}
	}

	traceID := r.trace.Next()
	snap := r.engine.OnBookUpdate(book.Time, bidPx, askPx, bidVol, askVol)
	if r.diagnostics {
		logs.Infof("[signal] #%d %s", traceID, snap)
	}

	proposals := quote.Build(r.quoteCfg, snap)
	decisions := r.risk.Evaluate(r.engine.Position(), proposals)

	for _, d := range decisions {
		r.metrics.ObserveDecision(d)
		if !d.Allowed() || r.sink == nil {
			continue
		}
		intent := Intent{
			TraceID:     traceID,
			Coin:        r.coinOf(book.Coin),
			TimestampMs: book.Time,
			Proposal:    d.Proposal,
			Decision:    d,
		}
		if err := r.sink.Submit(ctx, intent); err != nil {
			logs.Errorf("[intent] #%d submit %s, err: %+v", traceID, d.Proposal, err)
		}
	}

	// Position may have moved during risk evaluation.
	snap = r.engine.Snapshot()
	r.metrics.SetSignal(snap.Position.Base, snap.FillScore)

	return Outcome{
		Kind:      feed.KindBook,
		TraceID:   traceID,
		Snapshot:  snap,
		Proposals: proposals,
		Decisions: decisions,
	}
}

func (r *Router) handleTrades(trades []feed.Trade) Outcome {
	for _, t := range trades {
		if !t.Valid() {
			r.metrics.IncBadTrade()
		}
		r.engine.OnTrade(t.Price(), t.Size(), t.IsBuy(), t.Time)
	}

	return Outcome{
		Kind:          feed.KindTrades,
		Snapshot:      r.engine.Snapshot(),
		TradesApplied: len(trades),
	}
}

func (r *Router) coinOf(coin string) string {
	if coin != "" {
		return coin
	}
	return r.coin
}
