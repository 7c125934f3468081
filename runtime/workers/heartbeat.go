package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

type ConnectionCounter interface {
	Len() int
}

// HeartbeatWorker periodically logs the health of the process: memory,
// CPU and the number of live connections held by the hub.
type HeartbeatWorker struct {
	log      *slog.Logger
	hub      ConnectionCounter
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, hub ConnectionCounter, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, hub: hub, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping heartbeat")
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Warn("Failed to collect self stats", "error", err)
				continue
			}
			w.log.Info("Heartbeat",
				"rss_bytes", rss,
				"cpu_percent", cpu,
				"connections", w.hub.Len())
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpu, nil
}
