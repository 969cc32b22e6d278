package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/admin-console/internal/api/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/api/token"
	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

// staticSeed — источник начальных данных с фиксированным набором записей.
type staticSeed []model.DirectoryRecord

func (s staticSeed) FetchDirectory(context.Context) ([]model.DirectoryRecord, error) {
	return s, nil
}

// fakeDeps — состояние зависимостей для readiness.
type fakeDeps map[string]bool

func (d fakeDeps) Health() map[string]bool { return d }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedRecords() staticSeed {
	cities := []string{"Gwenborough", "Wisokyburgh", "McKenziehaven"}
	res := make(staticSeed, 7)
	for i := range res {
		res[i] = model.DirectoryRecord{
			ID:    i + 1,
			Name:  fmt.Sprintf("User %d", i+1),
			Email: fmt.Sprintf("user%d@example.com", i+1),
			City:  cities[i%len(cities)],
			Role:  model.RoleViewer,
		}
	}
	return res
}

type apiFixture struct {
	store  *service.WorkspaceStore
	router http.Handler
}

func newAPIFixture(t *testing.T, deps DependencyHealth) *apiFixture {
	t.Helper()
	return newAPIFixtureWithLogger(t, deps, testLogger())
}

func newAPIFixtureWithLogger(t *testing.T, deps DependencyHealth, logger *slog.Logger) *apiFixture {
	t.Helper()

	creds, err := service.NewCredentials([]config.Account{
		{Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin},
		{Email: "uploader@example.com", Password: "uploader123", Role: model.RoleUploader},
		{Email: "viewer@example.com", Password: "viewer123", Role: model.RoleViewer},
	}, bcrypt.MinCost)
	require.NoError(t, err)

	store := service.NewWorkspaceStore(context.Background(), creds, seedRecords(),
		service.WorkspaceConfig{
			PageSize:     5,
			AllowedTypes: []string{"image/png", "application/pdf"},
			MaxFileSize:  1024,
		},
		10, time.Hour, testLogger())
	t.Cleanup(store.Shutdown)

	issuer, err := token.New("admin-console", time.Hour)
	require.NoError(t, err)
	kf, err := issuer.Keyfunc()
	require.NoError(t, err)
	jwtAuth := middleware.NewJWTAuth(kf, issuer.Name(), store, testLogger())

	h := NewAPIHandler(NewHealthHandler(deps), store, issuer, 1<<20, logger)
	r := chi.NewRouter()
	h.Routes(r, jwtAuth.Middleware())

	return &apiFixture{store: store, router: r}
}

func (f *apiFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) jsonRequest(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return f.do(t, req)
}

// login получает токен и дожидается загрузки справочника.
func (f *apiFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := f.jsonRequest(t, http.MethodPost, "/api/v1/auth/token", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	f.store.Wait()
	return resp.AccessToken
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error.Code
}

type filePart struct {
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path, bearer string, files ...filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.name))
		hdr.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func TestIssueToken(t *testing.T) {
	f := newAPIFixture(t, nil)

	t.Run("неверный пароль", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPost, "/api/v1/auth/token", "",
			map[string]string{"email": "admin@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "AUTH_FAILURE", errorCode(t, rec))
		assert.Equal(t, 0, f.store.Len(), "сессия не должна создаваться")
	})

	t.Run("некорректное тело", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader("{"))
		rec := f.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("успешный вход", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPost, "/api/v1/auth/token", "",
			map[string]string{"email": "Admin@Example.com", "password": "admin123"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp tokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "admin", resp.Role)
		assert.Equal(t, "admin@example.com", resp.Email)
		assert.Positive(t, resp.ExpiresIn)
	})
}

func TestListUsers(t *testing.T) {
	f := newAPIFixture(t, nil)
	tok := f.login(t, "viewer@example.com", "viewer123")

	t.Run("без токена", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodGet, "/api/v1/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("первая страница", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodGet, "/api/v1/users", tok, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp userListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 5)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, 7, resp.TotalItems)
		assert.Equal(t, []string{"Gwenborough", "Wisokyburgh", "McKenziehaven"}, resp.Cities)
	})

	t.Run("вторая страница", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodGet, "/api/v1/users?page=2", tok, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp userListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 2)
		assert.Equal(t, 6, resp.Items[0].ID)
	})

	t.Run("фильтр по городу", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodGet, "/api/v1/users?city=Wisokyburgh", tok, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp userListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.TotalItems)
		for _, item := range resp.Items {
			assert.Equal(t, "Wisokyburgh", item.City)
		}
	})

	t.Run("некорректная страница", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodGet, "/api/v1/users?page=abc", tok, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserMutations_Admin(t *testing.T) {
	f := newAPIFixture(t, nil)
	tok := f.login(t, "admin@example.com", "admin123")

	t.Run("добавление", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPost, "/api/v1/users", tok,
			map[string]string{"name": "Nina", "email": "nina@example.com", "city": "Paris"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var added model.DirectoryRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
		assert.Equal(t, 8, added.ID)
		assert.Equal(t, model.RoleViewer, added.Role, "роль по умолчанию — viewer")
	})

	t.Run("добавление без имени", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPost, "/api/v1/users", tok,
			map[string]string{"name": "  ", "email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("изменение поля", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPatch, "/api/v1/users/2", tok,
			map[string]string{"field": "city", "value": "Lyon"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated model.DirectoryRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Lyon", updated.City)
		assert.Equal(t, "User 2", updated.Name)
	})

	t.Run("недопустимая роль", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPatch, "/api/v1/users/2", tok,
			map[string]string{"field": "role", "value": "root"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("неизвестное поле", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPatch, "/api/v1/users/2", tok,
			map[string]string{"field": "id", "value": "99"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("изменение отсутствующей записи", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodPatch, "/api/v1/users/999", tok,
			map[string]string{"field": "city", "value": "Lyon"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("удаление", func(t *testing.T) {
		rec := f.jsonRequest(t, http.MethodDelete, "/api/v1/users/3", tok, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = f.jsonRequest(t, http.MethodDelete, "/api/v1/users/3", tok, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "повторное удаление")
	})
}

func TestUserMutations_NonAdmin(t *testing.T) {
	f := newAPIFixture(t, nil)

	for _, acc := range []struct{ email, password string }{
		{"uploader@example.com", "uploader123"},
		{"viewer@example.com", "viewer123"},
	} {
		t.Run(acc.email, func(t *testing.T) {
			tok := f.login(t, acc.email, acc.password)

			rec := f.jsonRequest(t, http.MethodPost, "/api/v1/users", tok,
				map[string]string{"name": "Nina"})
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "PERMISSION_DENIED", errorCode(t, rec))

			rec = f.jsonRequest(t, http.MethodPatch, "/api/v1/users/1", tok,
				map[string]string{"field": "city", "value": "Lyon"})
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = f.jsonRequest(t, http.MethodDelete, "/api/v1/users/1", tok, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = f.jsonRequest(t, http.MethodGet, "/api/v1/users", tok, nil)
			var resp userListResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, 7, resp.TotalItems, "справочник не должен меняться")
		})
	}
}

func TestUploads(t *testing.T) {
	f := newAPIFixture(t, nil)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	t.Run("uploader: частичный приём", func(t *testing.T) {
		tok := f.login(t, "uploader@example.com", "uploader123")

		rec := f.do(t, multipartRequest(t, "/api/v1/uploads", tok,
			filePart{"photo.png", "image/png", png},
			filePart{"tool.exe", "application/x-msdownload", []byte("MZ")},
			filePart{"big.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2048)},
		))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp uploadBatchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Accepted, 1)
		assert.Equal(t, "photo.png", resp.Accepted[0].Name)
		assert.Equal(t, "uploader@example.com", resp.Accepted[0].UploaderEmail)
		require.Len(t, resp.Rejections, 2)
		assert.Equal(t, "unsupported_type", resp.Rejections[0].Reason)
		assert.Equal(t, "too_large", resp.Rejections[1].Reason)

		rec = f.jsonRequest(t, http.MethodGet, "/api/v1/uploads", tok, nil)
		var list uploadListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list.Items, 1)

		id := list.Items[0].ID
		rec = f.jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/uploads/%d", id), tok, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = f.jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/v1/uploads/%d", id), tok, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("viewer: запрещено", func(t *testing.T) {
		tok := f.login(t, "viewer@example.com", "viewer123")

		rec := f.do(t, multipartRequest(t, "/api/v1/uploads", tok,
			filePart{"photo.png", "image/png", png}))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "PERMISSION_DENIED", errorCode(t, rec))

		rec = f.jsonRequest(t, http.MethodGet, "/api/v1/uploads", tok, nil)
		var list uploadListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Empty(t, list.Items)
	})

	t.Run("нет файлов", func(t *testing.T) {
		tok := f.login(t, "admin@example.com", "admin123")
		rec := f.do(t, multipartRequest(t, "/api/v1/uploads", tok))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	f := newAPIFixture(t, nil)
	tok := f.login(t, "admin@example.com", "admin123")

	rec := f.jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", tok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.store.Len())

	rec = f.jsonRequest(t, http.MethodGet, "/api/v1/users", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "токен после выхода должен отклоняться")
}

func TestJWKS(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.jsonRequest(t, http.MethodGet, "/.well-known/jwks.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var set struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Len(t, set.Keys, 1)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name string
		deps DependencyHealth
		want string
	}{
		{"мониторинг не запущен", nil, "degraded"},
		{"источник доступен", fakeDeps{"seed-source:jsonplaceholder.typicode.com:443": true}, "ok"},
		{"источник недоступен", fakeDeps{"seed-source:jsonplaceholder.typicode.com:443": false}, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t, tt.deps)

			rec := f.jsonRequest(t, http.MethodGet, "/health/live", "", nil)
			assert.Equal(t, http.StatusOK, rec.Code)

			rec = f.jsonRequest(t, http.MethodGet, "/health/ready", "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			var resp healthReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Status)
		})
	}
}

func TestMutationsLoggedWithTokenClaims(t *testing.T) {
	var buf bytes.Buffer
	f := newAPIFixtureWithLogger(t, nil, slog.New(slog.NewJSONHandler(&buf, nil)))
	tok := f.login(t, "admin@example.com", "admin123")

	rec := f.jsonRequest(t, http.MethodDelete, "/api/v1/users/1", tok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		if m["msg"] == "Запись справочника удалена через API" {
			entry = m
		}
	}
	require.NotNil(t, entry, buf.String())
	assert.Equal(t, "admin@example.com", entry["sub"])
	assert.Equal(t, "admin", entry["role"])
	assert.NotEmpty(t, entry["sid"])
	assert.EqualValues(t, 1, entry["id"])
}
