// auth.go — JWT middleware JSON API Admin Console.
// Проверяет Bearer token (RS256, JWKS процесса), находит рабочее
// пространство по claim "sid" и помещает claims и пространство в контекст.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/bigkaa/goartstore/admin-console/internal/api/errors"
	"github.com/bigkaa/goartstore/admin-console/internal/api/token"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyClaims — извлечённые claims в контексте запроса.
	ContextKeyClaims contextKey = "jwt_claims"
	// ContextKeyWorkspace — рабочее пространство токена.
	ContextKeyWorkspace contextKey = "api_workspace"
)

// AuthClaims — claims проверенного токена.
type AuthClaims struct {
	Subject     string
	WorkspaceID string
	Email       string
	Role        model.Role
}

// WorkspaceResolver — поиск рабочего пространства по id.
type WorkspaceResolver interface {
	Get(id string) (*service.Workspace, error)
}

// JWTAuth — middleware JWT-аутентификации.
type JWTAuth struct {
	jwks       keyfunc.Keyfunc
	issuer     string
	leeway     time.Duration
	workspaces WorkspaceResolver
	logger     *slog.Logger
}

// NewJWTAuth создаёт JWT middleware.
// kf — ключи проверки подписи, issuer — ожидаемый iss (пустой — не проверяется).
func NewJWTAuth(kf keyfunc.Keyfunc, issuer string, workspaces WorkspaceResolver, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		jwks:       kf,
		issuer:     issuer,
		leeway:     5 * time.Second,
		workspaces: workspaces,
		logger:     logger.With(slog.String("component", "jwt_auth")),
	}
}

// Middleware возвращает HTTP middleware для JWT-аутентификации.
// Токен завершённой сессии (logout, истечение) отклоняется с 401.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			rawClaims := &token.Claims{}
			parserOpts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"RS256"}),
				jwt.WithExpirationRequired(),
				jwt.WithLeeway(j.leeway),
			}
			if j.issuer != "" {
				parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
			}

			tok, err := jwt.ParseWithClaims(tokenString, rawClaims, j.jwks.KeyfuncCtx(r.Context()), parserOpts...)
			if err != nil || !tok.Valid {
				j.logger.Debug("JWT валидация не пройдена",
					slog.Any("error", err),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}

			if rawClaims.WorkspaceID == "" {
				apierrors.Unauthorized(w, "Отсутствует sid в токене")
				return
			}

			ws, err := j.workspaces.Get(rawClaims.WorkspaceID)
			if err != nil || !ws.Session.Authenticated() {
				apierrors.Unauthorized(w, "Сессия завершена")
				return
			}

			claims := &AuthClaims{
				Subject:     rawClaims.Subject,
				WorkspaceID: rawClaims.WorkspaceID,
				Email:       rawClaims.Email,
				Role:        model.Role(rawClaims.Role),
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			ctx = context.WithValue(ctx, ContextKeyWorkspace, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// --- Context helpers ---

// ClaimsFromContext извлекает AuthClaims из контекста запроса.
// Возвращает nil, если claims не найдены.
func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*AuthClaims)
	return claims
}

// WorkspaceFromContext извлекает рабочее пространство токена.
func WorkspaceFromContext(ctx context.Context) *service.Workspace {
	ws, _ := ctx.Value(ContextKeyWorkspace).(*service.Workspace)
	return ws
}
