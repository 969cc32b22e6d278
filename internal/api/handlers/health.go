// health.go — обработчики health endpoints Admin Console.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (состояние источника начальных данных)
// /metrics — Prometheus метрики
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

const serviceName = "admin-console"

// DependencyHealth — текущее состояние зависимостей (topologymetrics).
// Ключ — "имя:host:port", значение — true если ok.
type DependencyHealth interface {
	Health() map[string]bool
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	deps        DependencyHealth
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// deps может быть nil (мониторинг зависимостей не запущен).
func NewHealthHandler(deps DependencyHealth) *HealthHandler {
	return &HealthHandler{
		deps:        deps,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		SeedSource healthCheckResult `json:"seed_source"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — readiness probe.
// Источник начальных данных некритичен: без него консоль работает
// с пустым справочником, поэтому его отказ даёт degraded, а не 503.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}
	resp.Checks.SeedSource = h.seedStatus()

	resp.Status = "ok"
	if resp.Checks.SeedSource.Status != "ok" {
		resp.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// seedStatus ищет состояние зависимости seed-source среди результатов проверок.
func (h *HealthHandler) seedStatus() healthCheckResult {
	if h.deps == nil {
		return healthCheckResult{Status: "unknown", Message: "мониторинг зависимостей не запущен"}
	}
	for key, healthy := range h.deps.Health() {
		if !strings.HasPrefix(key, service.SeedDependencyName+":") {
			continue
		}
		if healthy {
			return healthCheckResult{Status: "ok"}
		}
		return healthCheckResult{Status: "fail", Message: "источник начальных данных недоступен"}
	}
	return healthCheckResult{Status: "unknown", Message: "проверка ещё не выполнялась"}
}
