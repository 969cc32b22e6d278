// users.go — обработчики /api/v1/users (справочник пользователей).
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/bigkaa/goartstore/admin-console/internal/api/errors"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/listing"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/rbac"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

// userListResponse — страница справочника.
type userListResponse struct {
	Items      []model.DirectoryRecord `json:"items"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"total_pages"`
	TotalItems int                     `json:"total_items"`
	PageSize   int                     `json:"page_size"`
	Cities     []string                `json:"cities"`
}

// createUserRequest — тело POST /api/v1/users.
type createUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	City        string `json:"city"`
	Role        string `json:"role"`
}

// updateUserRequest — тело PATCH /api/v1/users/{id}: одно поле и новое значение.
type updateUserRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ListUsers — GET /api/v1/users?q=&city=&page=
// Доступ: любой вошедший пользователь.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "Сессия завершена")
		return
	}

	q := r.URL.Query()
	page := 0
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			apierrors.ValidationError(w, "page должен быть положительным числом")
			return
		}
		page = n
	}

	view := ws.Directory.View(listing.Criteria{Search: q.Get("q"), City: q.Get("city")}, page)

	items := view.Page.Items
	if items == nil {
		items = []model.DirectoryRecord{}
	}
	writeJSON(w, http.StatusOK, userListResponse{
		Items:      items,
		Page:       view.Page.Page,
		TotalPages: view.Page.TotalPages,
		TotalItems: view.Page.TotalItems,
		PageSize:   view.Page.PageSize,
		Cities:     view.Cities,
	})
}

// CreateUser — POST /api/v1/users. Доступ: admin.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ws, p, ok := requestPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "Сессия завершена")
		return
	}
	if !rbac.Authorize(p, rbac.ActionDirectoryAdd) {
		apierrors.PermissionDenied(w, "Недостаточно прав: требуется роль admin")
		return
	}

	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	rec := model.DirectoryRecord{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Website:     strings.TrimSpace(req.Website),
		City:        strings.TrimSpace(req.City),
		Role:        model.Role(req.Role),
	}
	if err := service.ValidateRecord(rec); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	added, ok := ws.Directory.Add(p, rec)
	if !ok {
		apierrors.PermissionDenied(w, "Недостаточно прав: требуется роль admin")
		return
	}
	h.requestLogger(r).Info("Запись справочника добавлена через API", slog.Int("id", added.ID))
	writeJSON(w, http.StatusCreated, added)
}

// UpdateUser — PATCH /api/v1/users/{id}. Доступ: admin.
func (h *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ws, p, ok := requestPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "Сессия завершена")
		return
	}
	id, ok := idParam(r)
	if !ok {
		apierrors.ValidationError(w, "Некорректный id")
		return
	}
	if !rbac.Authorize(p, rbac.ActionDirectoryEdit) {
		apierrors.PermissionDenied(w, "Недостаточно прав: требуется роль admin")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	field, err := model.ParseField(req.Field)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	current, found := ws.Directory.Get(id)
	if !found {
		apierrors.NotFound(w, "Запись не найдена")
		return
	}
	if _, err := current.With(field, req.Value); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if field == model.FieldName && strings.TrimSpace(req.Value) == "" {
		apierrors.ValidationError(w, "Имя обязательно")
		return
	}

	if !ws.Directory.Edit(p, id, field, req.Value) {
		// Запись удалена между Get и Edit
		apierrors.NotFound(w, "Запись не найдена")
		return
	}

	updated, _ := ws.Directory.Get(id)
	h.requestLogger(r).Info("Запись справочника изменена через API",
		slog.Int("id", id),
		slog.String("field", string(field)),
	)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteUser — DELETE /api/v1/users/{id}. Доступ: admin.
func (h *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ws, p, ok := requestPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "Сессия завершена")
		return
	}
	id, ok := idParam(r)
	if !ok {
		apierrors.ValidationError(w, "Некорректный id")
		return
	}
	if !rbac.Authorize(p, rbac.ActionDirectoryDelete) {
		apierrors.PermissionDenied(w, "Недостаточно прав: требуется роль admin")
		return
	}

	if !ws.Directory.Delete(p, id) {
		apierrors.NotFound(w, "Запись не найдена")
		return
	}
	h.requestLogger(r).Info("Запись справочника удалена через API", slog.Int("id", id))
	w.WriteHeader(http.StatusNoContent)
}
