package store

import (
	"sync/atomic"
	"time"

	"github.com/heysubinoy/kv/internal/logger"
	"github.com/heysubinoy/kv/pkg/kv"
	"github.com/sirupsen/logrus"
)

// Metrics holds timing statistics for store operations.
// Uses atomic operations for thread-safe updates without locks.
type Metrics struct {
	GetCount    atomic.Uint64
	SetCount    atomic.Uint64
	AddCount    atomic.Uint64
	DeleteCount atomic.Uint64
	ListCount   atomic.Uint64
	ErrorCount  atomic.Uint64

	// Cumulative latencies in nanoseconds
	GetLatencyNs    atomic.Uint64
	SetLatencyNs    atomic.Uint64
	AddLatencyNs    atomic.Uint64
	DeleteLatencyNs atomic.Uint64
	ListLatencyNs   atomic.Uint64
}

// InstrumentedStore wraps any kv.Store implementation with timing metrics
// and debug logging of each operation.
type InstrumentedStore struct {
	store   kv.Store
	metrics *Metrics
}

// Compile-time check to ensure InstrumentedStore implements kv.Store.
var _ kv.Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with instrumentation.
func NewInstrumentedStore(store kv.Store) *InstrumentedStore {
	return &InstrumentedStore{
		store:   store,
		metrics: &Metrics{},
	}
}

// Get delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Get(key string) (string, error) {
	start := time.Now()
	value, err := s.store.Get(key)
	s.record("get", key, start, err, &s.metrics.GetCount, &s.metrics.GetLatencyNs)
	return value, err
}

// Set delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Set(key, value string) error {
	start := time.Now()
	err := s.store.Set(key, value)
	s.record("set", key, start, err, &s.metrics.SetCount, &s.metrics.SetLatencyNs)
	return err
}

// Add delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Add(key, value string) error {
	start := time.Now()
	err := s.store.Add(key, value)
	s.record("add", key, start, err, &s.metrics.AddCount, &s.metrics.AddLatencyNs)
	return err
}

// Delete delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Delete(key string) error {
	start := time.Now()
	err := s.store.Delete(key)
	s.record("delete", key, start, err, &s.metrics.DeleteCount, &s.metrics.DeleteLatencyNs)
	return err
}

// List delegates to the wrapped store and records timing.
func (s *InstrumentedStore) List() ([]kv.Entry, error) {
	start := time.Now()
	entries, err := s.store.List()
	s.record("list", "", start, err, &s.metrics.ListCount, &s.metrics.ListLatencyNs)
	return entries, err
}

func (s *InstrumentedStore) record(op, key string, start time.Time, err error, count, latency *atomic.Uint64) {
	elapsed := time.Since(start)

	count.Add(1)
	latency.Add(uint64(elapsed.Nanoseconds()))
	if err != nil {
		s.metrics.ErrorCount.Add(1)
	}

	entry := logger.Log.WithFields(logrus.Fields{
		"op":       op,
		"duration": elapsed,
	})
	if key != "" {
		entry = entry.WithField("key", key)
	}
	if err != nil {
		entry.WithError(err).Debug("store operation failed")
		return
	}
	entry.Debug("store operation")
}

// GetMetrics returns a snapshot of current metrics.
func (s *InstrumentedStore) GetMetrics() MetricsSnapshot {
	getCount := s.metrics.GetCount.Load()
	setCount := s.metrics.SetCount.Load()
	addCount := s.metrics.AddCount.Load()
	deleteCount := s.metrics.DeleteCount.Load()
	listCount := s.metrics.ListCount.Load()

	return MetricsSnapshot{
		GetCount:         getCount,
		SetCount:         setCount,
		AddCount:         addCount,
		DeleteCount:      deleteCount,
		ListCount:        listCount,
		ErrorCount:       s.metrics.ErrorCount.Load(),
		GetAvgLatency:    s.avgLatency(s.metrics.GetLatencyNs.Load(), getCount),
		SetAvgLatency:    s.avgLatency(s.metrics.SetLatencyNs.Load(), setCount),
		AddAvgLatency:    s.avgLatency(s.metrics.AddLatencyNs.Load(), addCount),
		DeleteAvgLatency: s.avgLatency(s.metrics.DeleteLatencyNs.Load(), deleteCount),
		ListAvgLatency:   s.avgLatency(s.metrics.ListLatencyNs.Load(), listCount),
	}
}

// ResetMetrics clears all metrics counters.
func (s *InstrumentedStore) ResetMetrics() {
	s.metrics.GetCount.Store(0)
	s.metrics.SetCount.Store(0)
	s.metrics.AddCount.Store(0)
	s.metrics.DeleteCount.Store(0)
	s.metrics.ListCount.Store(0)
	s.metrics.ErrorCount.Store(0)
	s.metrics.GetLatencyNs.Store(0)
	s.metrics.SetLatencyNs.Store(0)
	s.metrics.AddLatencyNs.Store(0)
	s.metrics.DeleteLatencyNs.Store(0)
	s.metrics.ListLatencyNs.Store(0)
}

func (s *InstrumentedStore) avgLatency(totalNs, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	GetCount         uint64
	SetCount         uint64
	AddCount         uint64
	DeleteCount      uint64
	ListCount        uint64
	ErrorCount       uint64
	GetAvgLatency    time.Duration
	SetAvgLatency    time.Duration
	AddAvgLatency    time.Duration
	DeleteAvgLatency time.Duration
	ListAvgLatency   time.Duration
}

// Fields renders the snapshot as log fields, skipping idle operations.
func (m MetricsSnapshot) Fields() logrus.Fields {
	fields := logrus.Fields{"errors": m.ErrorCount}
	add := func(op string, count uint64, avg time.Duration) {
		if count == 0 {
			return
		}
		fields[op+"_count"] = count
		fields[op+"_avg_latency"] = avg.String()
	}
	add("get", m.GetCount, m.GetAvgLatency)
	add("set", m.SetCount, m.SetAvgLatency)
	add("add", m.AddCount, m.AddAvgLatency)
	add("delete", m.DeleteCount, m.DeleteAvgLatency)
	add("list", m.ListCount, m.ListAvgLatency)
	return fields
}
