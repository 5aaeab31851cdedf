package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HealthSnapshot is a point-in-time read of store metrics. Derived
// values (hit rate, miss rate) are recomputed on every read and never
// persisted.
type HealthSnapshot struct {
	Connected           bool      `json:"connected"`
	UsedMemory          int64     `json:"used_memory"`
	PeakMemory          int64     `json:"peak_memory"`
	MaxMemory           int64     `json:"max_memory"`
	FragmentationRatio  float64   `json:"fragmentation_ratio"`
	KeyspaceHits        int64     `json:"keyspace_hits"`
	KeyspaceMisses      int64     `json:"keyspace_misses"`
	EvictedKeys         int64     `json:"evicted_keys"`
	ConnectedClients    int64     `json:"connected_clients"`
	RejectedConnections int64     `json:"rejected_connections"`
	UptimeSeconds       int64     `json:"uptime_seconds"`
	HitRate             float64   `json:"hit_rate"`
	MissRate            float64   `json:"miss_rate"`
	TakenAt             time.Time `json:"taken_at"`
}

// Thresholds are the alerting limits, all overridable at runtime.
type Thresholds struct {
	MemoryPercent      float64 `json:"memory_percent"`
	HitRatePercent     float64 `json:"hit_rate_percent"`
	ErrorRatePercent   float64 `json:"error_rate_percent"`
	ResponseTimeMs     float64 `json:"response_time_ms"`
	MaxClients         int64   `json:"max_clients"`
	EvictionsPerMinute float64 `json:"evictions_per_minute"`
}

// DefaultThresholds returns the default alerting limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MemoryPercent:      80,
		HitRatePercent:     70,
		ErrorRatePercent:   5,
		ResponseTimeMs:     100,
		MaxClients:         5000,
		EvictionsPerMinute: 100,
	}
}

// HealthReport is the outcome of one health check. Issues impact the
// score and mark the store unhealthy; warnings are informational.
type HealthReport struct {
	Healthy         bool           `json:"healthy"`
	Score           int            `json:"score"`
	Issues          []string       `json:"issues"`
	Warnings        []string       `json:"warnings"`
	Recommendations []string       `json:"recommendations"`
	Snapshot        HealthSnapshot `json:"snapshot"`
}

// Alert is a threshold breach surfaced by CheckAlerts.
type Alert struct {
	ID        string    `json:"id"`
	Severity  string    `json:"severity"` // critical | warning
	Metric    string    `json:"metric"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"created_at"`
}

// PerformanceResult reports the monitor's micro-benchmark. Latencies are
// per-operation averages; sentinel -1 values mean the store was
// unavailable and no cycle ran.
type PerformanceResult struct {
	Cycles           int           `json:"cycles"`
	SetLatency       time.Duration `json:"set_latency"`
	GetLatency       time.Duration `json:"get_latency"`
	DelLatency       time.Duration `json:"del_latency"`
	ThroughputPerSec float64       `json:"throughput_per_sec"`
}

const alertHistoryLimit = 100

// Monitor collects store health metrics, scores them against
// configurable thresholds and keeps a bounded alert history. Eviction
// rate is computed from the delta against the previous snapshot, so the
// first check after startup skips that comparison.
type Monitor struct {
	store  Store
	logger *zap.Logger

	mu         sync.Mutex
	thresholds Thresholds
	prev       *HealthSnapshot
	alerts     []Alert
}

// NewMonitor creates a monitor over the given store.
func NewMonitor(store Store, thresholds Thresholds, logger *zap.Logger) *Monitor {
	return &Monitor{
		store:      store,
		logger:     logger,
		thresholds: thresholds,
	}
}

// UpdateThresholds overrides the alerting limits at runtime. Zero-valued
// fields keep their current setting.
func (m *Monitor) UpdateThresholds(t Thresholds) Thresholds {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.MemoryPercent > 0 {
		m.thresholds.MemoryPercent = t.MemoryPercent
	}
	if t.HitRatePercent > 0 {
		m.thresholds.HitRatePercent = t.HitRatePercent
	}
	if t.ErrorRatePercent > 0 {
		m.thresholds.ErrorRatePercent = t.ErrorRatePercent
	}
	if t.ResponseTimeMs > 0 {
		m.thresholds.ResponseTimeMs = t.ResponseTimeMs
	}
	if t.MaxClients > 0 {
		m.thresholds.MaxClients = t.MaxClients
	}
	if t.EvictionsPerMinute > 0 {
		m.thresholds.EvictionsPerMinute = t.EvictionsPerMinute
	}
	return m.thresholds
}

// Thresholds returns the current alerting limits.
func (m *Monitor) Thresholds() Thresholds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thresholds
}

// Metrics reads a fresh snapshot from the store's introspection
// interface. An unreachable store yields a zeroed, disconnected
// snapshot rather than an error.
func (m *Monitor) Metrics(ctx context.Context) HealthSnapshot {
	snap := HealthSnapshot{TakenAt: time.Now()}

	if !m.store.Available(ctx) {
		return snap
	}

	info := make(map[string]string)
	for _, section := range []string{"memory", "stats", "clients", "server"} {
		text, err := m.store.Info(ctx, section)
		if err != nil {
			return snap
		}
		parseInfo(text, info)
	}

	snap.Connected = true
	snap.UsedMemory = infoInt(info, "used_memory")
	snap.PeakMemory = infoInt(info, "used_memory_peak")
	snap.MaxMemory = infoInt(info, "maxmemory")
	snap.FragmentationRatio = infoFloat(info, "mem_fragmentation_ratio")
	snap.KeyspaceHits = infoInt(info, "keyspace_hits")
	snap.KeyspaceMisses = infoInt(info, "keyspace_misses")
	snap.EvictedKeys = infoInt(info, "evicted_keys")
	snap.ConnectedClients = infoInt(info, "connected_clients")
	snap.RejectedConnections = infoInt(info, "rejected_connections")
	snap.UptimeSeconds = infoInt(info, "uptime_in_seconds")

	// Guard against division by zero before any traffic has arrived.
	if total := snap.KeyspaceHits + snap.KeyspaceMisses; total > 0 {
		snap.HitRate = float64(snap.KeyspaceHits) / float64(total) * 100
		snap.MissRate = float64(snap.KeyspaceMisses) / float64(total) * 100
	}

	return snap
}

// HealthCheck scores the current snapshot. The score starts at 100 and
// weighted penalties are deducted per breached limit; it never drops
// below 0. Healthy means no issues; warnings alone do not mark the
// store unhealthy.
func (m *Monitor) HealthCheck(ctx context.Context) HealthReport {
	snap := m.Metrics(ctx)

	m.mu.Lock()
	thresholds := m.thresholds
	prev := m.prev
	if snap.Connected {
		snapCopy := snap
		m.prev = &snapCopy
	}
	m.mu.Unlock()

	report := HealthReport{
		Score:           100,
		Issues:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
		Snapshot:        snap,
	}

	if !snap.Connected {
		report.Score = 0
		report.Issues = append(report.Issues, "cache store is unreachable")
		report.Recommendations = append(report.Recommendations, "verify the Redis endpoint and credentials; the cache layer is failing open")
		return report
	}

	if snap.MaxMemory > 0 {
		memPct := float64(snap.UsedMemory) / float64(snap.MaxMemory) * 100
		switch {
		case memPct > thresholds.MemoryPercent:
			report.Score -= 20
			report.Issues = append(report.Issues, fmt.Sprintf("memory usage %.1f%% exceeds %.1f%% threshold", memPct, thresholds.MemoryPercent))
			report.Recommendations = append(report.Recommendations, "raise maxmemory or shorten cache TTLs")
		case memPct > thresholds.MemoryPercent-10:
			report.Score -= 5
			report.Warnings = append(report.Warnings, fmt.Sprintf("memory usage %.1f%% is approaching the %.1f%% threshold", memPct, thresholds.MemoryPercent))
		}
	}

	if snap.KeyspaceHits+snap.KeyspaceMisses > 0 {
		switch {
		case snap.HitRate < 50:
			report.Score -= 25
			report.Issues = append(report.Issues, fmt.Sprintf("hit rate %.1f%% is below 50%%", snap.HitRate))
			report.Recommendations = append(report.Recommendations, "review cache key derivation for fragmentation and TTLs for premature expiry")
		case snap.HitRate < thresholds.HitRatePercent:
			report.Score -= 10
			report.Warnings = append(report.Warnings, fmt.Sprintf("hit rate %.1f%% is below the %.1f%% threshold", snap.HitRate, thresholds.HitRatePercent))
		}
	}

	if snap.FragmentationRatio > 1.5 {
		report.Score -= 5
		report.Warnings = append(report.Warnings, fmt.Sprintf("memory fragmentation ratio %.2f exceeds 1.5", snap.FragmentationRatio))
	}

	if prev != nil {
		if rate := evictionRate(prev, &snap); rate > thresholds.EvictionsPerMinute {
			report.Score -= 15
			report.Issues = append(report.Issues, fmt.Sprintf("eviction rate %.1f/min exceeds %.1f/min threshold", rate, thresholds.EvictionsPerMinute))
			report.Recommendations = append(report.Recommendations, "the store is evicting under memory pressure; cached pages may disappear before their TTL")
		}
	}

	if snap.ConnectedClients > thresholds.MaxClients {
		report.Score -= 5
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d connected clients exceed the %d threshold", snap.ConnectedClients, thresholds.MaxClients))
	}

	if snap.RejectedConnections > 0 {
		report.Score -= 10
		report.Issues = append(report.Issues, fmt.Sprintf("%d connections rejected by the store", snap.RejectedConnections))
		report.Recommendations = append(report.Recommendations, "increase the store's maxclients setting")
	}

	if report.Score < 0 {
		report.Score = 0
	}
	report.Healthy = len(report.Issues) == 0

	return report
}

// CheckAlerts runs a health check and converts breaches to alerts,
// appending them to the bounded history.
func (m *Monitor) CheckAlerts(ctx context.Context) []Alert {
	report := m.HealthCheck(ctx)
	now := time.Now()

	var alerts []Alert
	for _, issue := range report.Issues {
		alerts = append(alerts, Alert{
			ID:        uuid.NewString(),
			Severity:  "critical",
			Metric:    "health",
			Message:   issue,
			CreatedAt: now,
		})
	}
	for _, warning := range report.Warnings {
		alerts = append(alerts, Alert{
			ID:        uuid.NewString(),
			Severity:  "warning",
			Metric:    "health",
			Message:   warning,
			CreatedAt: now,
		})
	}

	if report.Snapshot.Connected {
		start := time.Now()
		m.store.Available(ctx)
		elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)
		threshold := m.Thresholds().ResponseTimeMs
		if elapsedMs > threshold {
			alerts = append(alerts, Alert{
				ID:        uuid.NewString(),
				Severity:  "warning",
				Metric:    "response_time_ms",
				Message:   fmt.Sprintf("store round-trip %.1fms exceeds %.1fms threshold", elapsedMs, threshold),
				Value:     elapsedMs,
				Threshold: threshold,
				CreatedAt: now,
			})
		}
	}

	if len(alerts) > 0 {
		m.mu.Lock()
		m.alerts = append(m.alerts, alerts...)
		if overflow := len(m.alerts) - alertHistoryLimit; overflow > 0 {
			m.alerts = m.alerts[overflow:]
		}
		m.mu.Unlock()

		m.logger.Warn("cache alerts raised", zap.Int("count", len(alerts)))
	}

	return alerts
}

// AlertHistory returns a copy of the retained alerts, oldest first.
func (m *Monitor) AlertHistory() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := make([]Alert, len(m.alerts))
	copy(history, m.alerts)
	return history
}

// PerformanceTest runs cycles sequential set/get/delete rounds against
// throwaway keys and reports average per-operation latency and aggregate
// throughput. An unavailable store yields sentinel values instead of an
// error.
func (m *Monitor) PerformanceTest(ctx context.Context, cycles int) PerformanceResult {
	if cycles <= 0 {
		cycles = 100
	}

	if !m.store.Available(ctx) {
		return PerformanceResult{
			Cycles:     0,
			SetLatency: -1,
			GetLatency: -1,
			DelLatency: -1,
		}
	}

	var setTotal, getTotal, delTotal time.Duration
	start := time.Now()

	for i := 0; i < cycles; i++ {
		key := fmt.Sprintf("monitor:perf:%d", i)

		t0 := time.Now()
		m.store.Set(ctx, key, "benchmark", time.Minute)
		setTotal += time.Since(t0)

		t0 = time.Now()
		m.store.Get(ctx, key)
		getTotal += time.Since(t0)

		t0 = time.Now()
		m.store.Delete(ctx, key)
		delTotal += time.Since(t0)
	}

	elapsed := time.Since(start)
	result := PerformanceResult{
		Cycles:     cycles,
		SetLatency: setTotal / time.Duration(cycles),
		GetLatency: getTotal / time.Duration(cycles),
		DelLatency: delTotal / time.Duration(cycles),
	}
	if elapsed > 0 {
		result.ThroughputPerSec = float64(cycles*3) / elapsed.Seconds()
	}
	return result
}

func evictionRate(prev, curr *HealthSnapshot) float64 {
	minutes := curr.TakenAt.Sub(prev.TakenAt).Minutes()
	if minutes <= 0 {
		return 0
	}
	delta := curr.EvictedKeys - prev.EvictedKeys
	if delta < 0 {
		// The store restarted between snapshots; counters reset.
		return 0
	}
	return float64(delta) / minutes
}

// parseInfo reads Redis INFO line format ("key:value", comment lines
// starting with '#') into dst.
func parseInfo(text string, dst map[string]string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		dst[parts[0]] = parts[1]
	}
}

func infoInt(info map[string]string, key string) int64 {
	v, err := strconv.ParseInt(info[key], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func infoFloat(info map[string]string, key string) float64 {
	v, err := strconv.ParseFloat(info[key], 64)
	if err != nil {
		return 0
	}
	return v
}
