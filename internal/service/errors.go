// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrAuthFailure — email и пароль не совпали ни с одной учётной записью.
	ErrAuthFailure = errors.New("неверный email или пароль")
	// ErrPermissionDenied — роль не позволяет выполнить действие.
	ErrPermissionDenied = errors.New("недостаточно прав")
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrWorkspaceNotFound — рабочее пространство сессии истекло или закрыто.
	ErrWorkspaceNotFound = errors.New("сессия не найдена")
)
