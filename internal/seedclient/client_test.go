package seedclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const threeUsers = `[
  {"id":1,"name":"Leanne Graham","username":"Bret","email":"Sincere@april.biz",
   "address":{"street":"Kulas Light","city":"Gwenborough"},
   "website":"hildegard.org","company":{"name":"Romaguera-Crona"}},
  {"id":2,"name":"Ervin Howell","email":"Shanna@melissa.tv",
   "address":{"city":"Wisokyburgh"},"website":"anastasia.net","company":{"name":"Deckow-Crist"}},
  {"id":3,"name":"Clementine Bauch","email":"Nathan@yesenia.net",
   "address":{"city":"McKenziehaven"},"website":"ramiro.info","company":{"name":"Romaguera-Jacobson"}}
]`

// setupMockSeed создаёт mock-сервер источника данных.
func setupMockSeed(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchDirectory(t *testing.T) {
	server := setupMockSeed(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/users" {
			t.Errorf("неожиданный запрос %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(threeUsers))
	})

	roles := []model.Role{model.RoleAdmin, model.RoleUploader, model.RoleViewer}
	i := 0
	client := New(server.URL+"/users", server.Client(), testLogger(),
		WithRoleAssigner(func() model.Role {
			r := roles[i%len(roles)]
			i++
			return r
		}))

	records, err := client.FetchDirectory(context.Background())
	if err != nil {
		t.Fatalf("FetchDirectory: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, ожидалось 3", len(records))
	}

	first := records[0]
	if first.ID != 1 || first.Name != "Leanne Graham" || first.Email != "Sincere@april.biz" {
		t.Errorf("первая запись: %+v", first)
	}
	if first.CompanyName != "Romaguera-Crona" || first.City != "Gwenborough" || first.Website != "hildegard.org" {
		t.Errorf("вложенные поля первой записи: %+v", first)
	}
	for j, rec := range records {
		if rec.Role != roles[j] {
			t.Errorf("records[%d].Role = %q, ожидалось %q", j, rec.Role, roles[j])
		}
	}
}

func TestClient_RandomRolesValid(t *testing.T) {
	server := setupMockSeed(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(threeUsers))
	})
	client := New(server.URL, server.Client(), testLogger())

	records, err := client.FetchDirectory(context.Background())
	if err != nil {
		t.Fatalf("FetchDirectory: %v", err)
	}
	for _, rec := range records {
		if !rec.Role.Valid() {
			t.Errorf("запись %d: недопустимая роль %q", rec.ID, rec.Role)
		}
	}
}

func TestRandomRole_CoversAllRoles(t *testing.T) {
	seen := map[model.Role]bool{}
	for range 300 {
		seen[RandomRole()] = true
	}
	for _, r := range model.Roles {
		if !seen[r] {
			t.Errorf("роль %q не выпала за 300 попыток", r)
		}
	}
}

func TestClient_FetchDirectory_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "статус 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "статус 404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "некорректный JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"id":1,`))
			},
		},
		{
			name: "объект вместо массива",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":1}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupMockSeed(t, tt.handler)
			client := New(server.URL, server.Client(), testLogger())

			records, err := client.FetchDirectory(context.Background())
			if err == nil {
				t.Fatal("ожидалась ошибка")
			}
			if records != nil {
				t.Errorf("records = %v, ожидалось nil", records)
			}
		})
	}
}

func TestClient_FetchDirectory_ContextCanceled(t *testing.T) {
	server := setupMockSeed(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client := New(server.URL, server.Client(), testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.FetchDirectory(ctx); err == nil {
		t.Fatal("ожидалась ошибка по таймауту контекста")
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(url, nil, testLogger())
	if _, err := client.FetchDirectory(context.Background()); err == nil {
		t.Fatal("ожидалась сетевая ошибка")
	}
}
