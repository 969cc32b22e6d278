// handler.go — основной обработчик JSON API Admin Console.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой
// рабочего пространства, найденного JWT middleware.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/goartstore/admin-console/internal/api/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/api/token"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

// maxJSONBody — лимит тела JSON-запроса.
const maxJSONBody = 1 << 20

// WorkspaceStore — создание и закрытие рабочих пространств.
type WorkspaceStore interface {
	Open(email, password string) (*service.Workspace, error)
	Close(id string)
}

// APIHandler — основной обработчик JSON API.
type APIHandler struct {
	health         *HealthHandler
	store          WorkspaceStore
	issuer         *token.Issuer
	maxRequestSize int64
	logger         *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// maxRequestSize — лимит тела multipart-запроса загрузки.
func NewAPIHandler(
	health *HealthHandler,
	store WorkspaceStore,
	issuer *token.Issuer,
	maxRequestSize int64,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:         health,
		store:          store,
		issuer:         issuer,
		maxRequestSize: maxRequestSize,
		logger:         logger.With(slog.String("component", "api_handler")),
	}
}

// Routes регистрирует маршруты API.
// auth — JWT middleware для защищённых маршрутов.
func (h *APIHandler) Routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/health/live", h.health.HealthLive)
	r.Get("/health/ready", h.health.HealthReady)
	r.Get("/metrics", h.health.GetMetrics)
	r.Get("/.well-known/jwks.json", h.GetJWKS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", h.IssueToken)

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Post("/auth/logout", h.Logout)

			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Patch("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Get("/uploads", h.ListUploads)
			r.Post("/uploads", h.CreateUploads)
			r.Delete("/uploads/{id}", h.DeleteUpload)
		})
	})
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает тело запроса в dst. Неизвестные поля — ошибка.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// requestPrincipal возвращает пространство и пользователя запроса.
func requestPrincipal(r *http.Request) (*service.Workspace, model.Principal, bool) {
	ws := middleware.WorkspaceFromContext(r.Context())
	if ws == nil {
		return nil, model.Principal{}, false
	}
	p, ok := ws.Session.Principal()
	return ws, p, ok
}

// requestLogger — логгер с субъектом и сессией проверенного токена.
func (h *APIHandler) requestLogger(r *http.Request) *slog.Logger {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return h.logger
	}
	return h.logger.With(
		slog.String("sub", claims.Subject),
		slog.String("sid", claims.WorkspaceID),
		slog.String("role", string(claims.Role)),
	)
}

// idParam разбирает целочисленный {id} из URL.
func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
