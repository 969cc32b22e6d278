// Пакет guard — конечный автомат аутентификации и решение о доступе к экранам.
//
// Два состояния:
//   - unauthenticated — доступен только экран входа
//   - authenticated — доступны все экраны
//
// Переходы: login (unauthenticated → authenticated), logout (authenticated → unauthenticated).
// Потокобезопасен через sync.RWMutex.
package guard

import (
	"fmt"
	"strings"
	"sync"
)

// State — состояние аутентификации сессии.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// Event — событие, переводящее автомат.
type Event string

const (
	EventLogin  Event = "login"
	EventLogout Event = "logout"
)

// View — экран консоли.
type View string

const (
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewDirectory View = "directory"
	ViewUploads   View = "uploads"
)

// Decision — результат проверки доступа к экрану.
type Decision int

const (
	// Allow — экран можно отрисовать.
	Allow Decision = iota
	// RedirectToLogin — перенаправить на вход с заменой записи истории.
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// transitions — матрица переходов: состояние → событие → новое состояние.
var transitions = map[State]map[Event]State{
	StateUnauthenticated: {EventLogin: StateAuthenticated},
	StateAuthenticated:   {EventLogout: StateUnauthenticated},
}

// publicViews — экраны, доступные без входа.
var publicViews = map[View]bool{
	ViewLogin: true,
}

// Machine — автомат аутентификации одной сессии.
type Machine struct {
	mu      sync.RWMutex
	current State
}

// NewMachine создаёт автомат в состоянии unauthenticated.
func NewMachine() *Machine {
	return &Machine{current: StateUnauthenticated}
}

// Current возвращает текущее состояние.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire применяет событие.
// Ошибка INVALID_TRANSITION, если событие недопустимо в текущем состоянии.
func (m *Machine) Fire(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := transitions[m.current][event]
	if !ok {
		return &TransitionError{
			Code:    "INVALID_TRANSITION",
			Message: fmt.Sprintf("событие %s недопустимо в состоянии %s", event, m.current),
		}
	}
	m.current = next
	return nil
}

// Decide определяет, можно ли показать экран в данном состоянии.
// Защищённый экран без входа никогда не отрисовывается.
func Decide(state State, view View) Decision {
	if publicViews[view] || state == StateAuthenticated {
		return Allow
	}
	return RedirectToLogin
}

// ViewForPath сопоставляет URL-путь экрану.
// Неизвестные пути считаются защищёнными (дашборд).
func ViewForPath(path string) View {
	switch {
	case path == "/login":
		return ViewLogin
	case path == "/users" || strings.HasPrefix(path, "/users/"):
		return ViewDirectory
	case path == "/uploads" || strings.HasPrefix(path, "/uploads/"):
		return ViewUploads
	default:
		return ViewDashboard
	}
}

// TransitionError — ошибка перехода автомата.
type TransitionError struct {
	Code    string // Машиночитаемый код (INVALID_TRANSITION)
	Message string // Человекочитаемое описание
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
