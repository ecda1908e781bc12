package processor

import (
	"sync"
	"sync/atomic"
	"time"
)

// ServiceMetrics keeps in-process counters for the periodic log report.
// Prometheus gets the same numbers through prom.ObserveEvent.
type ServiceMetrics struct {
	totalProcessed  int64
	totalFailed     int64
	totalSkipped    int64
	totalDurationNs int64
	startedNs       int64

	mu       sync.Mutex
	byEntity map[string]int64
}

type Stats struct {
	Processed     int64
	Failed        int64
	Skipped       int64
	RatePerSecond float64
	AvgDuration   time.Duration
	Uptime        time.Duration
	ByEntity      map[string]int64
}

func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{
		startedNs: time.Now().UnixNano(),
		byEntity:  make(map[string]int64),
	}
}

func (m *ServiceMetrics) RecordSuccess(entity string, duration time.Duration) {
	atomic.AddInt64(&m.totalProcessed, 1)
	atomic.AddInt64(&m.totalDurationNs, int64(duration))

	m.mu.Lock()
	m.byEntity[entity]++
	m.mu.Unlock()
}

func (m *ServiceMetrics) RecordFailure() {
	atomic.AddInt64(&m.totalFailed, 1)
}

// RecordSkipped counts redeliveries of events that were already applied.
func (m *ServiceMetrics) RecordSkipped() {
	atomic.AddInt64(&m.totalSkipped, 1)
}

func (m *ServiceMetrics) Snapshot() Stats {
	processed := atomic.LoadInt64(&m.totalProcessed)
	durationNs := atomic.LoadInt64(&m.totalDurationNs)
	uptime := time.Since(time.Unix(0, atomic.LoadInt64(&m.startedNs)))

	s := Stats{
		Processed: processed,
		Failed:    atomic.LoadInt64(&m.totalFailed),
		Skipped:   atomic.LoadInt64(&m.totalSkipped),
		Uptime:    uptime,
		ByEntity:  make(map[string]int64),
	}
	if secs := uptime.Seconds(); secs > 0 {
		s.RatePerSecond = float64(processed) / secs
	}
	if processed > 0 {
		s.AvgDuration = time.Duration(durationNs / processed)
	}

	m.mu.Lock()
	for k, v := range m.byEntity {
		s.ByEntity[k] = v
	}
	m.mu.Unlock()
	return s
}
