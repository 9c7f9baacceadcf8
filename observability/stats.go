// Package observability aggregates runtime counters and process metrics for
// the ops surface.
package observability

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the snapshot served at GET /stats.
type Stats struct {
	RequestCount    uint64  `json:"request_count"`
	MessagesStored  uint64  `json:"messages_stored"`
	RejectedWrites  uint64  `json:"rejected_writes"`
	AllocMemMb      uint64  `json:"alloc_mem_mb"`
	NumGC           uint32  `json:"num_gc"`
	ProcessCPU      float64 `json:"process_cpu_percent"`
	ProcessRSSBytes uint64  `json:"process_rss_bytes"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
}

type Manager struct {
	log     *slog.Logger
	proc    *process.Process
	started time.Time

	requestCount   uint64
	messagesStored uint64
	rejectedWrites uint64
}

func NewManager(log *slog.Logger) *Manager {
	m := &Manager{log: log, started: time.Now()}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// Process metrics degrade to zero values; counters still work.
		log.Warn("Process metrics unavailable", "err", err)
		return m
	}
	m.proc = p
	return m
}

func (m *Manager) IncrRequestCount()   { atomic.AddUint64(&m.requestCount, 1) }
func (m *Manager) IncrMessagesStored() { atomic.AddUint64(&m.messagesStored, 1) }
func (m *Manager) IncrRejectedWrites() { atomic.AddUint64(&m.rejectedWrites, 1) }

// Report logs a snapshot every interval until the context is cancelled.
// Run it as a goroutine next to the server loop.
func (m *Manager) Report(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := m.Snapshot()
			m.log.Info("Runtime stats",
				"requests", s.RequestCount,
				"messages_stored", s.MessagesStored,
				"rejected_writes", s.RejectedWrites,
				"alloc_mem_mb", s.AllocMemMb,
				"cpu_percent", s.ProcessCPU,
				"rss_bytes", s.ProcessRSSBytes)
		}
	}
}

// Snapshot collects the counters plus Go heap and OS process metrics.
func (m *Manager) Snapshot() Stats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := Stats{
		RequestCount:   atomic.LoadUint64(&m.requestCount),
		MessagesStored: atomic.LoadUint64(&m.messagesStored),
		RejectedWrites: atomic.LoadUint64(&m.rejectedWrites),
		AllocMemMb:     memStats.Alloc / 1024 / 1024,
		NumGC:          memStats.NumGC,
		UptimeSeconds:  int64(time.Since(m.started).Seconds()),
	}

	if m.proc != nil {
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.ProcessCPU = cpu
		}
		if mem, err := m.proc.MemoryInfo(); err == nil {
			stats.ProcessRSSBytes = mem.RSS
		}
	}
	return stats
}
