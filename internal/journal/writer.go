package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/core"
	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

var (
	ErrQueueFull      = errors.New("journal queue full")
	ErrClosed         = errors.New("journal writer closed")
	ErrNotStarted     = errors.New("journal writer not started")
	ErrAlreadyStarted = errors.New("journal writer already started")
)

// Writer is an IntentSink that batches admitted intents into a Store off the
// router goroutine. Submit never blocks.
type Writer struct {
	cfg   Config
	store Store
	ch    chan Record
	wg    sync.WaitGroup
	err   atomic.Value

	started uint32
	closed  uint32
	dropped uint64
	written uint64
}

var _ core.IntentSink = (*Writer)(nil)

// NewWriter creates a journal writer over store.
func NewWriter(store Store, cfg Config) (*Writer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "journal store")
	}
	return &Writer{
		cfg:   cfg,
		store: store,
		ch:    make(chan Record, cfg.QueueSize),
	}, nil
}

// Start runs the writer loop in a new goroutine.
func (w *Writer) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapUint32(&w.started, 0, 1) {
		return ErrAlreadyStarted
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
	return nil
}

// Close stops the writer and flushes any queued records.
func (w *Writer) Close() error {
	if atomic.CompareAndSwapUint32(&w.closed, 0, 1) {
		close(w.ch)
	}
	w.wg.Wait()
	return w.Err()
}

// Err returns the first error observed by the writer, if any.
func (w *Writer) Err() error {
	if v := w.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Dropped returns how many intents were refused because the queue was full.
func (w *Writer) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

// Written returns how many records reached the store.
func (w *Writer) Written() uint64 {
	return atomic.LoadUint64(&w.written)
}

// Submit enqueues an intent without blocking.
func (w *Writer) Submit(_ context.Context, intent core.Intent) error {
	if atomic.LoadUint32(&w.closed) != 0 {
		return ErrClosed
	}
	if atomic.LoadUint32(&w.started) == 0 {
		return ErrNotStarted
	}

	select {
	case w.ch <- NewRecord(intent):
		return nil
	default:
		atomic.AddUint64(&w.dropped, 1)
		return ErrQueueFull
	}
}

func (w *Writer) run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]Record, 0, w.cfg.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		// a cancelled ctx must not lose the final flush
		if err := w.store.Save(context.WithoutCancel(ctx), batch); err != nil {
			w.setErr(err)
			logs.Errorf("[journal] save %d records, err: %+v", len(batch), err)
		} else {
			atomic.AddUint64(&w.written, uint64(len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-w.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= w.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (w *Writer) setErr(err error) {
	if err == nil || w.err.Load() != nil {
		return
	}
	w.err.Store(err)
}
