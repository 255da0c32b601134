package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"mailroom/server"
	"mailroom/sessions"
	"mailroom/store"
)

// MonitorWorker periodically logs the server's vital signs: connection pool
// usage, live sessions, store volumes and the process's own memory and CPU.
// It is observation only; nothing reads its output programmatically.
type MonitorWorker struct {
	log      *slog.Logger
	interval time.Duration
	server   *server.Server
	sessions *sessions.Registry
	store    *store.FileStore
}

func NewMonitorWorker(
	log *slog.Logger,
	interval time.Duration,
	srv *server.Server,
	registry *sessions.Registry,
	st *store.FileStore,
) *MonitorWorker {
	return &MonitorWorker{log: log, interval: interval, server: srv, sessions: registry, store: st}
}

func (w *MonitorWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			attrs := []any{
				"connections", w.server.ActiveConnections(),
				"pool_capacity", w.server.PoolCapacity(),
				"sessions", w.sessions.ActiveCount(),
				"users", w.store.UserCount(),
				"emails", w.store.EmailCount(),
			}
			if rss, cpu, err := selfStats(self); err == nil {
				attrs = append(attrs, "rss_mb", rss/(1024*1024), "cpu_pct", cpu)
			} else {
				w.log.Debug("Self stats unavailable", "error", err)
			}
			w.log.Info("Server status", attrs...)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
