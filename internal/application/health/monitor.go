package health

import (
	"sync"
	"time"

	"github.com/weftlabs/weft/pkg/ports"
	"go.uber.org/zap"
)

// Source is anything exposing the fixed-shape health map of the unit
// contract. Base units and composed units both satisfy it.
type Source interface {
	Name() string
	Health() map[string]interface{}
}

// Monitor periodically polls registered sources.
type Monitor struct {
	interval time.Duration
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	mu      sync.RWMutex
	sources []Source
	running bool
	stopCh  chan struct{}
}

// NewMonitor creates a health monitor with the given polling interval.
func NewMonitor(interval time.Duration, metrics ports.MetricsCollector, logger *zap.Logger) *Monitor {
	return &Monitor{
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Register adds a source to the polling set.
func (m *Monitor) Register(src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, src)
}

// Start begins polling in the background.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.run()
}

// Stop halts polling.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.check()
		}
	}
}

// check polls every source once.
func (m *Monitor) check() {
	for _, snapshot := range m.Snapshot() {
		name, _ := snapshot["name"].(string)
		status, _ := snapshot["status"].(string)
		m.metrics.SetUnitHealth(name, status != "degraded")

		if status == "degraded" {
			m.logger.Warn("unit degraded",
				zap.String("unit", name),
				zap.Any("health", snapshot))
		} else {
			m.logger.Debug("unit health",
				zap.String("unit", name),
				zap.String("status", status))
		}
	}
}

// Snapshot returns the current health map of every registered source.
func (m *Monitor) Snapshot() []map[string]interface{} {
	m.mu.RLock()
	sources := make([]Source, len(m.sources))
	copy(sources, m.sources)
	m.mu.RUnlock()

	out := make([]map[string]interface{}, 0, len(sources))
	for _, src := range sources {
		out = append(out, src.Health())
	}
	return out
}
