// Пакет rbac — единая точка проверки прав Admin Console.
// Каждое изменяющее действие проходит через Authorize.
// Правила:
//   - справочник пользователей (добавление, изменение, удаление) — только admin;
//   - загрузка и удаление файлов — admin и uploader;
//   - просмотр — любая аутентифицированная роль.
package rbac

import "github.com/bigkaa/goartstore/admin-console/internal/domain/model"

// Action — действие, требующее проверки прав.
type Action string

const (
	ActionDirectoryView   Action = "directory:view"
	ActionDirectoryAdd    Action = "directory:add"
	ActionDirectoryEdit   Action = "directory:edit"
	ActionDirectoryDelete Action = "directory:delete"
	ActionUploadView      Action = "upload:view"
	ActionUploadCreate    Action = "upload:create"
	ActionUploadDelete    Action = "upload:delete"
)

// permissions — роли, которым разрешено действие.
var permissions = map[Action][]model.Role{
	ActionDirectoryView:   {model.RoleAdmin, model.RoleUploader, model.RoleViewer},
	ActionDirectoryAdd:    {model.RoleAdmin},
	ActionDirectoryEdit:   {model.RoleAdmin},
	ActionDirectoryDelete: {model.RoleAdmin},
	ActionUploadView:      {model.RoleAdmin, model.RoleUploader, model.RoleViewer},
	ActionUploadCreate:    {model.RoleAdmin, model.RoleUploader},
	ActionUploadDelete:    {model.RoleAdmin, model.RoleUploader},
}

// Authorize проверяет, разрешено ли principal выполнить action.
// Неизвестное действие или недопустимая роль — запрет.
func Authorize(p model.Principal, action Action) bool {
	return RoleAllowed(p.Role, action)
}

// RoleAllowed — вариант Authorize для случаев, когда известна только роль
// (например, для скрытия кнопок в шаблонах).
func RoleAllowed(role model.Role, action Action) bool {
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanManageDirectory — сокращение для шаблонов: admin видит формы справочника.
func CanManageDirectory(role model.Role) bool {
	return RoleAllowed(role, ActionDirectoryAdd)
}

// CanUpload — сокращение для шаблонов: показывать ли форму загрузки.
func CanUpload(role model.Role) bool {
	return RoleAllowed(role, ActionUploadCreate)
}
