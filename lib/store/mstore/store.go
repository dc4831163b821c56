package mstore

import (
	"time"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/store"
	metrics "github.com/rcrowley/go-metrics"
)

// Operation names used as metric prefixes
const (
	OpGet    = "get"
	OpPut    = "put"
	OpDelete = "delete"
	OpHealth = "health"
)

var operations = []string{OpGet, OpPut, OpDelete, OpHealth}

// opMetrics groups the instruments recorded for one operation
type opMetrics struct {
	timer  metrics.Timer
	errors metrics.Counter
	misses metrics.Counter
}

// MeteredStore wraps any store.IStore and records a timer, an error counter and
// (for get and delete) a miss counter per operation.
type MeteredStore struct {
	inner    store.IStore
	registry metrics.Registry
	ops      map[string]opMetrics
}

// Compile-time check to ensure MeteredStore implements store.IStore.
var _ store.IStore = (*MeteredStore)(nil)

// NewMeteredStore wraps inner. A nil registry creates a private one.
func NewMeteredStore(inner store.IStore, registry metrics.Registry) *MeteredStore {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	ops := make(map[string]opMetrics, len(operations))
	for _, op := range operations {
		ops[op] = opMetrics{
			timer:  metrics.GetOrRegisterTimer("store."+op+".latency", registry),
			errors: metrics.GetOrRegisterCounter("store."+op+".errors", registry),
			misses: metrics.GetOrRegisterCounter("store."+op+".misses", registry),
		}
	}
	return &MeteredStore{
		inner:    inner,
		registry: registry,
		ops:      ops,
	}
}

// record updates the instruments of op after a call that started at start
func (s *MeteredStore) record(op string, start time.Time, err error) {
	m := s.ops[op]
	m.timer.UpdateSince(start)
	if err != nil {
		m.errors.Inc(1)
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *MeteredStore) Get(key []byte) ([]byte, bool, error) {
	start := time.Now()
	value, loaded, err := s.inner.Get(key)
	s.record(OpGet, start, err)
	if err == nil && !loaded {
		s.ops[OpGet].misses.Inc(1)
	}
	return value, loaded, err
}

func (s *MeteredStore) Put(key, value []byte) error {
	start := time.Now()
	err := s.inner.Put(key, value)
	s.record(OpPut, start, err)
	return err
}

func (s *MeteredStore) Delete(key []byte) (bool, error) {
	start := time.Now()
	existed, err := s.inner.Delete(key)
	s.record(OpDelete, start, err)
	if err == nil && !existed {
		s.ops[OpDelete].misses.Inc(1)
	}
	return existed, err
}

func (s *MeteredStore) Health() (uint64, error) {
	start := time.Now()
	size, err := s.inner.Health()
	s.record(OpHealth, start, err)
	return size, err
}

func (s *MeteredStore) GetDBInfo() (db.DatabaseInfo, error) {
	return s.inner.GetDBInfo()
}

func (s *MeteredStore) Close() error {
	return s.inner.Close()
}

// --------------------------------------------------------------------------
// Snapshots
// --------------------------------------------------------------------------

// OpSnapshot is a point-in-time view of the instruments of one operation.
type OpSnapshot struct {
	Count  int64         `json:"count"`
	Errors int64         `json:"errors"`
	Misses int64         `json:"misses"`
	Mean   time.Duration `json:"mean_ns"`
	P99    time.Duration `json:"p99_ns"`
	Max    time.Duration `json:"max_ns"`
}

// Snapshot returns the current instruments of every operation keyed by operation name.
func (s *MeteredStore) Snapshot() map[string]OpSnapshot {
	out := make(map[string]OpSnapshot, len(s.ops))
	for op, m := range s.ops {
		t := m.timer.Snapshot()
		out[op] = OpSnapshot{
			Count:  t.Count(),
			Errors: m.errors.Count(),
			Misses: m.misses.Count(),
			Mean:   time.Duration(t.Mean()),
			P99:    time.Duration(t.Percentile(0.99)),
			Max:    time.Duration(t.Max()),
		}
	}
	return out
}

// Registry returns the go-metrics registry the instruments are registered in.
func (s *MeteredStore) Registry() metrics.Registry {
	return s.registry
}
