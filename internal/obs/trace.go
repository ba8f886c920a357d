package obs

import (
	"sync/atomic"
	"time"
)

const traceSeqBits = 20

// TraceGenerator hands out ids that correlate the log lines and journal rows of
// one book event. Ids carry the process start time in their high bits, so ids
// from a later run sort after ids from an earlier one.
type TraceGenerator struct {
	next atomic.Uint64
}

// NewTraceGenerator seeds the generator from startMs, or the wall clock when zero.
func NewTraceGenerator(startMs uint64) *TraceGenerator {
	if startMs == 0 {
		startMs = uint64(time.Now().UnixMilli())
	}
	g := &TraceGenerator{}
	g.next.Store(startMs << traceSeqBits)
	return g
}

// Next returns the next trace id.
func (g *TraceGenerator) Next() uint64 {
	if g == nil {
		return 0
	}
	return g.next.Add(1)
}

// TraceStartMs recovers the generator start time from an id.
func TraceStartMs(id uint64) uint64 {
	return id >> traceSeqBits
}
