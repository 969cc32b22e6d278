package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/guard"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

func TestSession_StartsLoggedOut(t *testing.T) {
	s := NewSession(testCredentials(t), testLogger())

	_, ok := s.Principal()
	assert.False(t, ok)
	assert.False(t, s.Authenticated())
	assert.Equal(t, guard.StateUnauthenticated, s.State())
}

func TestSession_LoginLogout(t *testing.T) {
	s := NewSession(testCredentials(t), testLogger())

	require.True(t, s.Login("admin@example.com", "admin123"))
	p, ok := s.Principal()
	require.True(t, ok)
	assert.Equal(t, model.Principal{Email: "admin@example.com", Role: model.RoleAdmin}, p)
	assert.Equal(t, guard.StateAuthenticated, s.State())

	s.Logout()
	_, ok = s.Principal()
	assert.False(t, ok)
	assert.False(t, s.Authenticated())

	// Повторный выход без входа ничего не делает
	s.Logout()
	assert.False(t, s.Authenticated())
}

func TestSession_FailedLoginKeepsState(t *testing.T) {
	s := NewSession(testCredentials(t), testLogger())

	assert.False(t, s.Login("admin@example.com", "nope"))
	assert.False(t, s.Authenticated())

	require.True(t, s.Login("viewer@example.com", "viewer123"))
	assert.False(t, s.Login("admin@example.com", "nope"))

	p, ok := s.Principal()
	require.True(t, ok)
	assert.Equal(t, model.RoleViewer, p.Role, "неудачный вход не должен менять пользователя")
}

func TestSession_ReloginReplacesPrincipal(t *testing.T) {
	s := NewSession(testCredentials(t), testLogger())

	require.True(t, s.Login("viewer@example.com", "viewer123"))
	require.True(t, s.Login("uploader@example.com", "uploader123"))

	p, ok := s.Principal()
	require.True(t, ok)
	assert.Equal(t, model.RoleUploader, p.Role)
	assert.True(t, s.Authenticated())
}
