// auth.go — выпуск access token и завершение API-сессии.
// POST /api/v1/auth/token — вход по email и паролю
// POST /api/v1/auth/logout — завершение сессии токена
// GET /.well-known/jwks.json — публичный ключ подписи
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/bigkaa/goartstore/admin-console/internal/api/errors"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

// tokenRequest — тело запроса токена.
type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse — выпущенный токен.
type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
}

// IssueToken — POST /api/v1/auth/token.
// Создаёт рабочее пространство и выпускает привязанный к нему токен.
func (h *APIHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	ws, err := h.store.Open(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailure) {
			apierrors.AuthFailure(w, "Неверный email или пароль")
			return
		}
		h.logger.Error("Ошибка создания сессии", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка")
		return
	}

	p, _ := ws.Session.Principal()
	raw, expiresAt, err := h.issuer.Issue(ws.ID, p)
	if err != nil {
		h.store.Close(ws.ID)
		h.logger.Error("Ошибка выпуска токена", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка")
		return
	}

	h.logger.Info("Выпущен access token",
		slog.String("email", p.Email),
		slog.String("role", string(p.Role)),
	)

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: raw,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt.UTC(),
		Email:       p.Email,
		Role:        string(p.Role),
	})
}

// Logout — POST /api/v1/auth/logout.
// Сессия закрывается, дальнейшие запросы с этим токеном получают 401.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "Сессия завершена")
		return
	}

	ws.Session.Logout()
	h.store.Close(ws.ID)
	h.requestLogger(r).Info("API-сессия завершена")

	w.WriteHeader(http.StatusNoContent)
}

// GetJWKS — GET /.well-known/jwks.json.
func (h *APIHandler) GetJWKS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.issuer.JWKS())
}
