package event

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Recorder keeps every event in memory. Tests use it to assert on
// notifications.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends ev.
func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind()
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LogSink writes each event as one structured log line.
type LogSink struct {
	Logger zerolog.Logger
}

// Emit logs ev at info level.
func (s LogSink) Emit(ev Event) {
	s.Logger.Info().Str("event", ev.Kind()).EmbedObject(ev).Msg("committed")
}

// MetricsSink counts events and accumulates value flows.
type MetricsSink struct {
	events    *prometheus.CounterVec
	bidVolume prometheus.Counter
	claimed   prometheus.Counter
}

// NewMetricsSink creates the collectors and registers them with reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	s := &MetricsSink{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coveredcall",
				Name:      "events_total",
				Help:      "Committed protocol events by kind.",
			},
			[]string{"kind"},
		),
		bidVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coveredcall",
			Subsystem: "auction",
			Name:      "bid_volume_total",
			Help:      "Sum of recorded bid amounts.",
		}),
		claimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coveredcall",
			Subsystem: "settlement",
			Name:      "claimed_total",
			Help:      "Sum of proceeds claimed by rights holders.",
		}),
	}
	for _, c := range []prometheus.Collector{s.events, s.bidVolume, s.claimed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Emit updates the counters for ev.
func (s *MetricsSink) Emit(ev Event) {
	s.events.WithLabelValues(ev.Kind()).Inc()
	switch e := ev.(type) {
	case Bid:
		s.bidVolume.Add(float64(e.Amount))
	case ProceedsClaimed:
		s.claimed.Add(float64(e.Amount))
	}
}
