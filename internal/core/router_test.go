package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/feed"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/model/enum"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/obs"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/state"
	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

func bookEvent(ts uint64, bids, asks []feed.Level) feed.Event {
	return feed.NewBookEvent(feed.Book{Coin: "BTC", Time: ts, Levels: [2][]feed.Level{bids, asks}})
}

func lv(px, sz string) feed.Level {
	return feed.Level{Px: px, Sz: sz}
}

type recordSink struct {
	mu      sync.Mutex
	intents []Intent
}

func (s *recordSink) Submit(_ context.Context, intent Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents = append(s.intents, intent)
	return nil
}

func TestHandleBookAggressiveScenario(t *testing.T) {
	sink := &recordSink{}
	opt := DefaultOption()
	opt.Sink = sink
	opt.Metrics = obs.NewMetrics(nil)
	r := New(opt)

	out := r.Handle(context.Background(), bookEvent(1_000,
		[]feed.Level{lv("100.0", "6"), lv("99.5", "4")},
		[]feed.Level{lv("100.2", "5")},
	))

	require.False(t, out.Dropped)
	assert.True(t, out.Snapshot.AggressiveMode)
	assert.Zero(t, out.Snapshot.Volatility)

	require.Len(t, out.Proposals, 2)
	assert.Equal(t, enum.SideBuy, out.Proposals[0].Side)
	assert.InDelta(t, 100.5, out.Proposals[0].Price, 1e-9)
	assert.InDelta(t, 1.5, out.Proposals[0].Size, 1e-12)
	assert.Equal(t, enum.SideSell, out.Proposals[1].Side)
	assert.InDelta(t, 99.7, out.Proposals[1].Price, 1e-9)
	assert.InDelta(t, 1.5, out.Proposals[1].Size, 1e-12)

	require.Len(t, out.Decisions, 2)
	assert.InDelta(t, 1.5, out.Decisions[0].BaseAfter, 1e-12)
	assert.InDelta(t, 0.0, out.Decisions[1].BaseAfter, 1e-12)
	assert.Len(t, out.Admitted(), 2)
	assert.InDelta(t, 0.0, out.Snapshot.Position.Base, 1e-12)

	require.Len(t, sink.intents, 2)
	assert.Equal(t, "BTC", sink.intents[0].Coin)
	assert.Equal(t, out.TraceID, sink.intents[1].TraceID)

	book := r.engine.History().Books
	require.Equal(t, 1, book.Len())
	sample, _ := book.Newest()
	assert.InDelta(t, 10.0, sample.BidVolume, 1e-12)
	assert.InDelta(t, 5.0, sample.AskVolume, 1e-12)

	snap := opt.Metrics.Snapshot()
	assert.Equal(t, uint64(2), snap.Admitted)
	assert.Equal(t, uint64(1), snap.EventCounts[feed.KindBook])
}

func TestHandleBookEmptySideDropped(t *testing.T) {
	opt := DefaultOption()
	opt.Metrics = obs.NewMetrics(nil)
	r := New(opt)

	out := r.Handle(context.Background(), bookEvent(1, nil, []feed.Level{lv("1", "1")}))
	assert.True(t, out.Dropped)
	assert.Empty(t, out.Proposals)

	out = r.Handle(context.Background(), bookEvent(1, []feed.Level{lv("1", "1")}, nil))
	assert.True(t, out.Dropped)

	assert.Zero(t, r.engine.History().Books.Len())
	assert.Equal(t, uint64(2), opt.Metrics.Snapshot().DroppedBooks)
}

func TestHandleTradesFeedNextBook(t *testing.T) {
	r := New(DefaultOption())
	ctx := context.Background()

	trades := make([]feed.Trade, 0, 5)
	for i := 0; i < 5; i++ {
		side := feed.SideTagBuy
		if i%2 == 1 {
			side = feed.SideTagSell
		}
		trades = append(trades, feed.Trade{Coin: "BTC", Side: side, Px: "100.1", Sz: "1.0", Time: 5_000})
	}

	out := r.Handle(ctx, feed.NewTradesEvent(trades))
	assert.Equal(t, 5, out.TradesApplied)
	assert.Equal(t, 5, r.engine.History().Trades.Len())

	out = r.Handle(ctx, bookEvent(5_000, []feed.Level{lv("100.0", "1")}, []feed.Level{lv("100.2", "1")}))
	assert.InDelta(t, 1.0, out.Snapshot.Slide, 1e-12)
	assert.InDelta(t, 0.2, out.Snapshot.NormalizedSlide, 1e-12)
	assert.Zero(t, out.Snapshot.FillScore)
}

func TestHandleTradesMalformedFallsBackToZero(t *testing.T) {
	opt := DefaultOption()
	opt.Metrics = obs.NewMetrics(nil)
	r := New(opt)

	r.Handle(context.Background(), feed.NewTradesEvent([]feed.Trade{{Side: "B", Px: "x", Sz: "y", Time: 1}}))
	sample, ok := r.engine.History().Trades.Newest()
	require.True(t, ok)
	assert.Zero(t, sample.Price)
	assert.Zero(t, sample.Size)
	assert.Equal(t, uint64(1), opt.Metrics.Snapshot().BadTrades)
}

func TestHandleUnknownIgnored(t *testing.T) {
	r := New(DefaultOption())
	out := r.Handle(context.Background(), feed.Event{Kind: feed.KindUnknown})
	assert.Equal(t, feed.KindUnknown, out.Kind)
	assert.Zero(t, r.engine.History().Books.Len())
}

func TestHandleRespectsPositionLimit(t *testing.T) {
	opt := DefaultOption()
	opt.Risk.MaxPosition = 1.0
	r := New(opt)

	out := r.Handle(context.Background(), bookEvent(1, []feed.Level{lv("100.0", "1")}, []feed.Level{lv("100.2", "1")}))
	require.Len(t, out.Decisions, 2)
	assert.False(t, out.Decisions[0].Allowed())
	assert.False(t, out.Decisions[1].Allowed())
	assert.Zero(t, out.Snapshot.Position.Base)
}

func TestRunProcessesConcurrentProducers(t *testing.T) {
	opt := DefaultOption()
	opt.Diagnostics = false
	opt.Metrics = obs.NewMetrics(nil)
	r := New(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				ts := uint64(p*1000 + i)
				assert.NoError(t, r.Publish(bookEvent(ts, []feed.Level{lv("100.0", "1")}, []feed.Level{lv("100.2", "1")})))
				assert.NoError(t, r.Publish(feed.NewTradesEvent([]feed.Trade{{Side: "B", Px: "100.1", Sz: "0.1", Time: ts}})))
			}
		}(p)
	}
	wg.Wait()

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, snap.BookSamples)
	assert.LessOrEqual(t, snap.Position.Base, opt.Risk.MaxPosition)
	assert.GreaterOrEqual(t, snap.Position.Base, -opt.Risk.MaxPosition)

	r.Close()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("router did not stop")
	}

	assert.Equal(t, uint64(200), opt.Metrics.Snapshot().EventCounts[feed.KindBook])
	assert.ErrorIs(t, r.Publish(feed.Event{}), exception.ErrQueueClosed)

	_, err = r.Snapshot(context.Background())
	assert.ErrorIs(t, err, exception.ErrRouterClosed)
}

func TestReportFillWithoutSimulation(t *testing.T) {
	opt := DefaultOption()
	opt.Risk.SimulateFills = false
	r := New(opt)

	out := r.Handle(context.Background(), bookEvent(1, []feed.Level{lv("100.0", "1")}, []feed.Level{lv("100.2", "1")}))
	assert.Len(t, out.Admitted(), 2)
	assert.Zero(t, out.Snapshot.Position.Base)

	require.NoError(t, r.ReportFill(state.Fill{Side: enum.SideBuy, Price: 100.5, Size: 1.5}))
	assert.Equal(t, 1, r.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go r.Run(ctx)

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, snap.Position.Base, 1e-12)
	assert.InDelta(t, -150.75, snap.Position.Quote, 1e-9)
	r.Close()
}

func TestMultiSink(t *testing.T) {
	a, b := &recordSink{}, &recordSink{}
	calls := 0
	sink := MultiSink{a, nil, b, SinkFunc(func(context.Context, Intent) error {
		calls++
		return exception.ErrInternal
	})}

	err := sink.Submit(context.Background(), Intent{TraceID: 1})
	assert.ErrorIs(t, err, exception.ErrInternal)
	assert.Len(t, a.intents, 1)
	assert.Len(t, b.intents, 1)
	assert.Equal(t, 1, calls)
	assert.NoError(t, LogSink{}.Submit(context.Background(), Intent{}))
}
