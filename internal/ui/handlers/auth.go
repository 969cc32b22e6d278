// Пакет handlers — HTTP-обработчики Admin Console UI.
// auth.go — вход по email и паролю, выход.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigkaa/goartstore/admin-console/internal/service"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/auth"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/goartstore/admin-console/internal/ui/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/pages"
)

// WorkspaceStore — создание и закрытие рабочих пространств.
type WorkspaceStore interface {
	Open(email, password string) (*service.Workspace, error)
	Close(id string)
}

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	store          WorkspaceStore
	sessionManager *auth.SessionManager
	uiAuth         *uimiddleware.UIAuth
	logger         *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(
	store WorkspaceStore,
	sessionManager *auth.SessionManager,
	uiAuth *uimiddleware.UIAuth,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		store:          store,
		sessionManager: sessionManager,
		uiAuth:         uiAuth,
		logger:         logger.With(slog.String("component", "ui_auth")),
	}
}

// HandleLoginPage — GET /login
// Уже вошедший пользователь перенаправляется на главную.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if ws := h.uiAuth.Resolve(w, r); ws != nil && ws.Session.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := pages.LoginData{}
	if r.URL.Query().Get("logged_out") == "1" {
		data.Alert = &pages.Alert{Kind: "info", Text: i18n.T(r.Context(), "login.logged_out")}
	}
	h.render(w, r, http.StatusOK, data)
}

// HandleLogin — POST /login
// При успехе создаёт рабочее пространство, ставит cookie сессии и
// перенаправляет на главную (303). При ошибке — форма с сообщением.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, pages.LoginData{
			Alert: &pages.Alert{Kind: "error", Text: i18n.T(r.Context(), "error.invalid_request")},
		})
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	ws, err := h.store.Open(email, password)
	if err != nil {
		status := http.StatusInternalServerError
		key := "error.internal"
		if errors.Is(err, service.ErrAuthFailure) {
			status = http.StatusUnauthorized
			key = "error.auth_failure"
		}
		h.render(w, r, status, pages.LoginData{
			Email: email,
			Alert: &pages.Alert{Kind: "error", Text: i18n.T(r.Context(), key)},
		})
		return
	}

	// Предыдущая сессия этого браузера больше не нужна
	if prev := h.uiAuth.Resolve(w, r); prev != nil {
		h.store.Close(prev.ID)
	}

	p, _ := ws.Session.Principal()
	if err := h.sessionManager.SetSessionCookie(w, h.sessionManager.NewSessionData(ws.ID, p.Email)); err != nil {
		h.logger.Error("Ошибка установки session cookie",
			slog.String("error", err.Error()),
		)
		h.store.Close(ws.ID)
		h.render(w, r, http.StatusInternalServerError, pages.LoginData{
			Email: email,
			Alert: &pages.Alert{Kind: "error", Text: i18n.T(r.Context(), "error.internal")},
		})
		return
	}

	h.logger.Info("Пользователь вошёл в консоль",
		slog.String("email", p.Email),
		slog.String("role", string(p.Role)),
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout — POST /logout
// Сбрасывает сессию, закрывает рабочее пространство, удаляет cookie
// и перенаправляет на вход (303).
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if ws := h.uiAuth.Resolve(w, r); ws != nil {
		p, _ := ws.Session.Principal()
		ws.Session.Logout()
		h.store.Close(ws.ID)
		h.logger.Info("Пользователь вышел из консоли", slog.String("email", p.Email))
	}

	h.sessionManager.ClearSessionCookie(w)
	http.Redirect(w, r, uimiddleware.LoginPath+"?logged_out=1", http.StatusSeeOther)
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, status int, data pages.LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.Login(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга страницы входа",
			slog.String("error", err.Error()),
		)
	}
}
