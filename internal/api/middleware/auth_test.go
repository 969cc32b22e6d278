package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/admin-console/internal/api/token"
	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

// emptySeed — источник без записей.
type emptySeed struct{}

func (emptySeed) FetchDirectory(context.Context) ([]model.DirectoryRecord, error) {
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authFixture struct {
	store  *service.WorkspaceStore
	issuer *token.Issuer
	auth   *JWTAuth
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	creds, err := service.NewCredentials([]config.Account{
		{Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin},
	}, bcrypt.MinCost)
	require.NoError(t, err)

	store := service.NewWorkspaceStore(context.Background(), creds, emptySeed{},
		service.WorkspaceConfig{PageSize: 5, AllowedTypes: []string{"image/png"}, MaxFileSize: 1024},
		10, time.Hour, testLogger())
	t.Cleanup(store.Shutdown)

	issuer, err := token.New("admin-console", time.Hour)
	require.NoError(t, err)
	kf, err := issuer.Keyfunc()
	require.NoError(t, err)

	return &authFixture{
		store:  store,
		issuer: issuer,
		auth:   NewJWTAuth(kf, issuer.Name(), store, testLogger()),
	}
}

// serve выполняет запрос через middleware. Обработчик отвечает 200
// и email из claims, если пространство есть в контексте.
func (f *authFixture) serve(authHeader string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		ws := WorkspaceFromContext(r.Context())
		if claims == nil || ws == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, claims.Email)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	f.auth.Middleware()(next).ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	f := newAuthFixture(t)
	ws, err := f.store.Open("admin@example.com", "admin123")
	require.NoError(t, err)

	raw, _, err := f.issuer.Issue(ws.ID, model.Principal{Email: "admin@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	rec := f.serve("Bearer " + raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@example.com", rec.Body.String())
}

func TestJWTAuth_Rejects(t *testing.T) {
	f := newAuthFixture(t)
	ws, err := f.store.Open("admin@example.com", "admin123")
	require.NoError(t, err)
	p := model.Principal{Email: "admin@example.com", Role: model.RoleAdmin}

	valid, _, err := f.issuer.Issue(ws.ID, p)
	require.NoError(t, err)
	unknownSession, _, err := f.issuer.Issue("missing", p)
	require.NoError(t, err)

	foreign, err := token.New("admin-console", time.Hour)
	require.NoError(t, err)
	foreignToken, _, err := foreign.Issue(ws.ID, p)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"без заголовка", ""},
		{"не Bearer", "Basic " + valid},
		{"пустой токен", "Bearer "},
		{"мусор вместо токена", "Bearer abc.def.ghi"},
		{"чужой ключ", "Bearer " + foreignToken},
		{"неизвестная сессия", "Bearer " + unknownSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"UNAUTHORIZED"`)
		})
	}
}

func TestJWTAuth_ClosedSession(t *testing.T) {
	f := newAuthFixture(t)
	ws, err := f.store.Open("admin@example.com", "admin123")
	require.NoError(t, err)

	raw, _, err := f.issuer.Issue(ws.ID, model.Principal{Email: "admin@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	f.store.Close(ws.ID)

	rec := f.serve("Bearer " + raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "токен завершённой сессии должен отклоняться")
}
