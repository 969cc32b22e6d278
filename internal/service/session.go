// session.go — состояние сессии: текущий пользователь и автомат аутентификации.
// Передаётся явно в обработчики (через Workspace), глобального состояния нет.
package service

import (
	"log/slog"
	"sync"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/guard"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

// Session — состояние аутентификации одной сессии.
// Создаётся без пользователя. Сетевых вызовов не делает.
type Session struct {
	mu        sync.RWMutex
	creds     *Credentials
	machine   *guard.Machine
	principal *model.Principal
	logger    *slog.Logger
}

// NewSession создаёт сессию в состоянии unauthenticated.
func NewSession(creds *Credentials, logger *slog.Logger) *Session {
	return &Session{
		creds:   creds,
		machine: guard.NewMachine(),
		logger:  logger.With(slog.String("component", "session")),
	}
}

// Login проверяет учётные данные и при успехе устанавливает пользователя.
// Неудачная попытка не меняет состояние сессии.
// Повторный успешный вход заменяет текущего пользователя.
func (s *Session) Login(email, password string) bool {
	p, err := s.creds.Verify(email, password)
	if err != nil {
		loginsTotal.WithLabelValues("failure").Inc()
		s.logger.Info("Неудачная попытка входа", slog.String("email", email))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.Current() == guard.StateAuthenticated {
		_ = s.machine.Fire(guard.EventLogout)
	}
	if err := s.machine.Fire(guard.EventLogin); err != nil {
		s.logger.Error("Ошибка перехода автомата при входе",
			slog.String("error", err.Error()),
		)
		return false
	}
	s.principal = &p

	loginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Вход выполнен",
		slog.String("email", p.Email),
		slog.String("role", string(p.Role)),
	)
	return true
}

// Logout сбрасывает пользователя. Без входа ничего не делает.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.principal == nil {
		return
	}
	email := s.principal.Email
	s.principal = nil
	_ = s.machine.Fire(guard.EventLogout)

	s.logger.Info("Выход выполнен", slog.String("email", email))
}

// Principal возвращает текущего пользователя.
func (s *Session) Principal() (model.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.principal == nil {
		return model.Principal{}, false
	}
	return *s.principal, true
}

// Authenticated — выполнен ли вход.
func (s *Session) Authenticated() bool {
	return s.State() == guard.StateAuthenticated
}

// State возвращает состояние автомата аутентификации.
func (s *Session) State() guard.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.Current()
}
