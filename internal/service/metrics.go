// metrics.go — Prometheus-метрики сервисного слоя.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// loginsTotal — попытки входа по результату (success, failure).
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ac_logins_total",
		Help: "Общее количество попыток входа в Admin Console.",
	}, []string{"result"})

	// directoryMutationsTotal — изменения справочника по действию и результату
	// (applied, denied, not_found).
	directoryMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ac_directory_mutations_total",
		Help: "Общее количество операций изменения справочника пользователей.",
	}, []string{"action", "result"})

	// uploadsTotal — файлы по результату валидации
	// (accepted, unsupported_type, too_large, denied).
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ac_uploads_total",
		Help: "Общее количество файлов, переданных на загрузку.",
	}, []string{"result"})

	// workspacesActive — количество активных рабочих пространств.
	workspacesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ac_workspaces_active",
		Help: "Количество активных сессий Admin Console.",
	})
)
