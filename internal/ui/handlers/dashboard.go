package handlers

import (
	"log/slog"
	"net/http"

	uimiddleware "github.com/bigkaa/goartstore/admin-console/internal/ui/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/pages"
)

// DashboardHandler — обработчик главной страницы.
type DashboardHandler struct {
	logger *slog.Logger
}

// NewDashboardHandler создаёт новый DashboardHandler.
func NewDashboardHandler(logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		logger: logger.With(slog.String("component", "ui.dashboard")),
	}
}

// HandleDashboard обрабатывает GET / — сводка по сессии.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, ok := principal(ws)
	if !ok {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusSeeOther)
		return
	}

	data := pages.DashboardData{
		Principal:      p,
		DirectoryCount: len(ws.Directory.Records()),
		UploadCount:    len(ws.Uploads.List()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Dashboard(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга Dashboard",
			slog.String("error", err.Error()),
			slog.String("email", p.Email),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}
