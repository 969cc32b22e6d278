// Пакет model — доменные модели Admin Console.
package model

import "fmt"

// Role — роль пользователя консоли.
type Role string

const (
	// RoleAdmin — полный доступ: справочник и загрузки.
	RoleAdmin Role = "admin"
	// RoleUploader — загрузка и удаление файлов.
	RoleUploader Role = "uploader"
	// RoleViewer — только просмотр.
	RoleViewer Role = "viewer"
)

// Roles — все допустимые роли в порядке отображения.
var Roles = []Role{RoleAdmin, RoleUploader, RoleViewer}

// ParseRole преобразует строку в Role.
// Возвращает ошибку для недопустимых значений.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("недопустимая роль: %q, допустимые: admin, uploader, viewer", s)
	}
	return r, nil
}

// Valid проверяет, является ли роль допустимой.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUploader, RoleViewer:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
