package obs

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/feed"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/risk"
)

const (
	maxEventKind = int(feed.KindTrades)
	maxReason    = int(risk.MaxReason)
)

// Metrics collects lightweight counters and latency stats and mirrors them to Prometheus.
type Metrics struct {
	eventCounts  [maxEventKind + 1]uint64
	reasonCounts [maxReason + 1]uint64
	droppedBooks uint64
	badTrades    uint64
	admitted     uint64
	rejected     uint64

	handleLatency LatencyStats

	events    *prometheus.CounterVec
	decisions *prometheus.CounterVec
	drops     prometheus.Counter
	position  prometheus.Gauge
	fillScore prometheus.Gauge
	latency   prometheus.Histogram
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	EventCounts   map[feed.Kind]uint64
	RejectReasons map[risk.Reason]uint64
	DroppedBooks  uint64
	BadTrades     uint64
	Admitted      uint64
	Rejected      uint64
	HandleLatency LatencySnapshot
}

// NewMetrics allocates a metrics container. A nil registerer keeps the
// Prometheus side detached.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "mm_events_total", Help: "Feed events processed by kind"},
			[]string{"kind"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "mm_quote_decisions_total", Help: "Risk decisions on quote proposals"},
			[]string{"side", "action", "reason"},
		),
		drops: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "mm_book_drops_total", Help: "Book events dropped for an empty side"},
		),
		position: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "mm_position_base", Help: "Simulated base inventory"},
		),
		fillScore: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "mm_fill_score", Help: "Latest composite fill score"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mm_handle_seconds",
				Help:    "Per-event pipeline latency",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.events, m.decisions, m.drops, m.position, m.fillScore, m.latency)
	}
	return m
}

// ObserveEvent counts a processed event and its handling time.
func (m *Metrics) ObserveEvent(kind feed.Kind, d time.Duration) {
	if m == nil {
		return
	}
	idx := int(kind)
	if idx >= 0 && idx < len(m.eventCounts) {
		atomic.AddUint64(&m.eventCounts[idx], 1)
	}
	m.handleLatency.Observe(d)
	m.events.WithLabelValues(kind.String()).Inc()
	m.latency.Observe(d.Seconds())
}

// IncDroppedBook records a book event with an empty side.
func (m *Metrics) IncDroppedBook() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.droppedBooks, 1)
	m.drops.Inc()
}

// IncBadTrade records a trade record whose price or size did not parse.
func (m *Metrics) IncBadTrade() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.badTrades, 1)
}

// ObserveDecision counts an admission or rejection.
func (m *Metrics) ObserveDecision(d risk.Decision) {
	if m == nil {
		return
	}
	if d.Allowed() {
		atomic.AddUint64(&m.admitted, 1)
	} else {
		atomic.AddUint64(&m.rejected, 1)
		idx := int(d.Reason)
		if idx >= 0 && idx < len(m.reasonCounts) {
			atomic.AddUint64(&m.reasonCounts[idx], 1)
		}
	}
	m.decisions.WithLabelValues(d.Proposal.Side.String(), d.Action.String(), d.Reason.String()).Inc()
}

// SetSignal publishes the latest position and fill score.
func (m *Metrics) SetSignal(base, fillScore float64) {
	if m == nil {
		return
	}
	m.position.Set(base)
	m.fillScore.Set(fillScore)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	eventCounts := make(map[feed.Kind]uint64)
	for i := range m.eventCounts {
		if v := atomic.LoadUint64(&m.eventCounts[i]); v > 0 {
			eventCounts[feed.Kind(i)] = v
		}
	}
	reasons := make(map[risk.Reason]uint64)
	for i := range m.reasonCounts {
		if v := atomic.LoadUint64(&m.reasonCounts[i]); v > 0 {
			reasons[risk.Reason(i)] = v
		}
	}
	return Snapshot{
		EventCounts:   eventCounts,
		RejectReasons: reasons,
		DroppedBooks:  atomic.LoadUint64(&m.droppedBooks),
		BadTrades:     atomic.LoadUint64(&m.badTrades),
		Admitted:      atomic.LoadUint64(&m.admitted),
		Rejected:      atomic.LoadUint64(&m.rejected),
		HandleLatency: m.handleLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
