package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

var (
	admin    = model.Principal{Email: "admin@example.com", Role: model.RoleAdmin}
	uploader = model.Principal{Email: "uploader@example.com", Role: model.RoleUploader}
	viewer   = model.Principal{Email: "viewer@example.com", Role: model.RoleViewer}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCredentials(t *testing.T) *Credentials {
	t.Helper()
	creds, err := NewCredentials([]config.Account{
		{Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin},
		{Email: "uploader@example.com", Password: "uploader123", Role: model.RoleUploader},
		{Email: "viewer@example.com", Password: "viewer123", Role: model.RoleViewer},
	}, bcrypt.MinCost)
	require.NoError(t, err)
	return creds
}

func seedRecords(n int) []model.DirectoryRecord {
	cities := []string{"Gwenborough", "Wisokyburgh", "McKenziehaven"}
	res := make([]model.DirectoryRecord, n)
	for i := range n {
		res[i] = model.DirectoryRecord{
			ID:    i + 1,
			Name:  "User " + string(rune('A'+i)),
			Email: "user" + string(rune('a'+i)) + "@example.com",
			City:  cities[i%len(cities)],
			Role:  model.RoleViewer,
		}
	}
	return res
}
