package model

// Principal — аутентифицированный пользователь текущей сессии.
// Существует только пока сессия активна, не хранится.
type Principal struct {
	// Email — адрес, с которым выполнен вход
	Email string
	// Role — роль, назначенная учётной записи
	Role Role
}
