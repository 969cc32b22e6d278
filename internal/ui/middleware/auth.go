// Пакет middleware — HTTP middleware для Admin Console UI.
// auth.go — проверка сессии (cookie) и охрана защищённых экранов.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/guard"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/auth"
)

// LoginPath — адрес экрана входа.
const LoginPath = "/login"

// contextKey — тип для ключей контекста UI (избегаем коллизий с API middleware).
type contextKey string

const (
	// ContextKeyWorkspace — рабочее пространство сессии в контексте запроса.
	ContextKeyWorkspace contextKey = "ui_workspace"
)

// WorkspaceResolver — поиск рабочего пространства по id.
type WorkspaceResolver interface {
	Get(id string) (*service.Workspace, error)
}

// UIAuth — охрана защищённых экранов.
// Извлекает сессию из зашифрованного cookie, находит рабочее пространство
// и решает через guard.Decide, можно ли показать экран.
type UIAuth struct {
	sessionManager *auth.SessionManager
	workspaces     WorkspaceResolver
	logger         *slog.Logger
}

// NewUIAuth создаёт новый UIAuth middleware.
func NewUIAuth(
	sessionManager *auth.SessionManager,
	workspaces WorkspaceResolver,
	logger *slog.Logger,
) *UIAuth {
	return &UIAuth{
		sessionManager: sessionManager,
		workspaces:     workspaces,
		logger:         logger.With(slog.String("component", "ui_auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware для защищённых маршрутов.
// Без входа — 303 See Other на /login: защищённое содержимое не рендерится,
// а адрес экрана не остаётся в истории браузера как отрисованная страница.
func (ua *UIAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws := ua.Resolve(w, r)

			state := guard.StateUnauthenticated
			if ws != nil {
				state = ws.Session.State()
			}

			if guard.Decide(state, guard.ViewForPath(r.URL.Path)) == guard.RedirectToLogin {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			// Защищённые страницы не кэшируются: после выхода «назад» не покажет данные
			w.Header().Set("Cache-Control", "no-store")

			ctx := context.WithValue(r.Context(), ContextKeyWorkspace, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Resolve находит рабочее пространство по cookie запроса.
// Повреждённый, истёкший или устаревший cookie удаляется. Возвращает nil без входа.
func (ua *UIAuth) Resolve(w http.ResponseWriter, r *http.Request) *service.Workspace {
	session, err := ua.sessionManager.GetSessionFromRequest(r)
	if err != nil {
		ua.logger.Debug("Ошибка чтения UI-сессии",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr),
		)
		ua.sessionManager.ClearSessionCookie(w)
		return nil
	}
	if session == nil {
		return nil
	}
	if session.IsExpired() {
		ua.sessionManager.ClearSessionCookie(w)
		return nil
	}

	ws, err := ua.workspaces.Get(session.WorkspaceID)
	if err != nil {
		ua.logger.Debug("Сессия не найдена на сервере",
			slog.String("email", session.Email),
		)
		ua.sessionManager.ClearSessionCookie(w)
		return nil
	}
	return ws
}

// WorkspaceFromContext извлекает рабочее пространство из контекста запроса.
// Возвращает nil, если запрос не прошёл через UIAuth middleware.
func WorkspaceFromContext(ctx context.Context) *service.Workspace {
	ws, ok := ctx.Value(ContextKeyWorkspace).(*service.Workspace)
	if !ok {
		return nil
	}
	return ws
}
