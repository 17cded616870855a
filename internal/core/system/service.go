package system

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

// Health is the host-level snapshot served next to the database-backed
// realtime metrics, so the live monitor can tell "dashboard host is slow"
// apart from "tracked platform is slow".
type Health struct {
	Status        string  `json:"status"`
	CPUUsagePct   float64 `json:"cpu_usage_pct"`
	MemoryUsedPct float64 `json:"memory_used_pct"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	Timestamp     string  `json:"timestamp"`
}

// Service reads host health via gopsutil.
type Service struct {
	logger *logrus.Logger
}

// NewService creates a new system health service.
func NewService(logger *logrus.Logger) *Service {
	return &Service{logger: logger}
}

// GetHealth samples CPU, memory and uptime. Individual probe failures
// degrade the reading instead of failing the endpoint.
func (s *Service) GetHealth(ctx context.Context) *Health {
	h := &Health{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if percentages, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percentages) > 0 {
		h.CPUUsagePct = percentages[0]
	} else if err != nil {
		s.logger.WithError(err).Debug("CPU probe failed")
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		h.MemoryUsedPct = vm.UsedPercent
		h.MemoryTotalMB = vm.Total / 1024 / 1024
	} else {
		s.logger.WithError(err).Debug("Memory probe failed")
	}

	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		h.UptimeSeconds = uptime
	} else {
		s.logger.WithError(err).Debug("Uptime probe failed")
	}

	return h
}
