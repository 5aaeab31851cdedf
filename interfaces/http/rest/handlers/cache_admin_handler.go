package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"stayhub-backend/infrastructure/cache"
	"stayhub-backend/pkg/common"
)

// CacheAdminHandler exposes the cache monitor on the admin surface:
// metrics snapshot, health check, alert inspection, threshold tuning
// and the performance micro-benchmark. Periodic checks are driven by an
// external scheduler hitting these endpoints; there is no in-process
// ticker.
type CacheAdminHandler struct {
	monitor *cache.Monitor
	logger  *zap.Logger
}

// NewCacheAdminHandler creates a new cache admin handler
func NewCacheAdminHandler(monitor *cache.Monitor, logger *zap.Logger) *CacheAdminHandler {
	return &CacheAdminHandler{
		monitor: monitor,
		logger:  logger,
	}
}

// GetMetrics handles GET /admin/cache/metrics
func (h *CacheAdminHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := h.monitor.Metrics(r.Context())
	common.RespondJSON(w, http.StatusOK, snapshot)
}

// GetHealth handles GET /admin/cache/health
func (h *CacheAdminHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := h.monitor.HealthCheck(r.Context())

	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	common.RespondJSON(w, status, report)
}

// CheckAlerts handles POST /admin/cache/alerts/check
func (h *CacheAdminHandler) CheckAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.monitor.CheckAlerts(r.Context())
	if alerts == nil {
		alerts = []cache.Alert{}
	}
	common.RespondJSON(w, http.StatusOK, alerts)
}

// GetAlertHistory handles GET /admin/cache/alerts
func (h *CacheAdminHandler) GetAlertHistory(w http.ResponseWriter, r *http.Request) {
	history := h.monitor.AlertHistory()
	if history == nil {
		history = []cache.Alert{}
	}
	common.RespondJSON(w, http.StatusOK, history)
}

// UpdateThresholds handles PUT /admin/cache/thresholds
func (h *CacheAdminHandler) UpdateThresholds(w http.ResponseWriter, r *http.Request) {
	var t cache.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	updated := h.monitor.UpdateThresholds(t)
	h.logger.Info("cache alert thresholds updated")
	common.RespondJSON(w, http.StatusOK, updated)
}

// RunPerformanceTest handles POST /admin/cache/perf-test
func (h *CacheAdminHandler) RunPerformanceTest(w http.ResponseWriter, r *http.Request) {
	cycles := 100
	if raw := r.URL.Query().Get("cycles"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 10000 {
			cycles = n
		}
	}

	result := h.monitor.PerformanceTest(r.Context(), cycles)
	common.RespondJSON(w, http.StatusOK, result)
}
