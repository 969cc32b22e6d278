package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/listing"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/rbac"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
	uimiddleware "github.com/bigkaa/goartstore/admin-console/internal/ui/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/pages"
)

// editableFields — поля формы редактирования в порядке применения.
var editableFields = []model.Field{
	model.FieldName,
	model.FieldEmail,
	model.FieldCompanyName,
	model.FieldWebsite,
	model.FieldCity,
	model.FieldRole,
}

// UsersHandler — обработчики справочника пользователей.
type UsersHandler struct {
	logger *slog.Logger
}

// NewUsersHandler создаёт новый UsersHandler.
func NewUsersHandler(logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		logger: logger.With(slog.String("component", "ui.users")),
	}
}

// usersView — параметры отображения страницы справочника.
type usersView struct {
	criteria listing.Criteria
	page     int
	editID   int
	alert    *pages.Alert
	draft    model.DirectoryRecord
}

// HandleList — GET /users
// Параметры: q (поиск по имени и email), city, page, edit (id записи).
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := usersView{
		criteria: listing.Criteria{Search: q.Get("q"), City: q.Get("city")},
		page:     pageParam(q.Get("page")),
		alert:    flashAlert(r.Context(), r),
	}
	if id, err := strconv.Atoi(q.Get("edit")); err == nil {
		view.editID = id
	}
	h.render(w, r, http.StatusOK, view)
}

// HandleAdd — POST /users
// Добавляет запись (только admin). После успеха — redirect (303).
func (h *UsersHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, _ := principal(ws)
	view, ok := h.formView(w, r)
	if !ok {
		return
	}

	if !rbac.Authorize(p, rbac.ActionDirectoryAdd) {
		view.alert = errorAlert(r.Context(), "error.permission_denied")
		h.render(w, r, http.StatusForbidden, view)
		return
	}

	rec := model.DirectoryRecord{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		CompanyName: strings.TrimSpace(r.PostFormValue("companyName")),
		Website:     strings.TrimSpace(r.PostFormValue("website")),
		City:        strings.TrimSpace(r.PostFormValue("city")),
		Role:        model.Role(r.PostFormValue("role")),
	}
	if err := service.ValidateRecord(rec); err != nil {
		key := "error.invalid_request"
		if rec.Name == "" {
			key = "error.validation_name"
		}
		view.alert = errorAlert(r.Context(), key)
		view.draft = rec
		h.render(w, r, http.StatusBadRequest, view)
		return
	}

	added, ok := ws.Directory.Add(p, rec)
	if !ok {
		view.alert = errorAlert(r.Context(), "error.permission_denied")
		h.render(w, r, http.StatusForbidden, view)
		return
	}

	h.logger.Debug("Запись добавлена через UI", slog.Int("id", added.ID))
	h.redirect(w, r, view, "added")
}

// HandleEdit — POST /users/{id}/edit
// Применяет изменённые поля формы по одному (только admin).
func (h *UsersHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, _ := principal(ws)
	view, ok := h.formView(w, r)
	if !ok {
		return
	}

	id, ok := idParam(r)
	if !ok {
		view.alert = errorAlert(r.Context(), "error.invalid_request")
		h.render(w, r, http.StatusBadRequest, view)
		return
	}
	if !rbac.Authorize(p, rbac.ActionDirectoryEdit) {
		view.alert = errorAlert(r.Context(), "error.permission_denied")
		h.render(w, r, http.StatusForbidden, view)
		return
	}

	current, found := ws.Directory.Get(id)
	if !found {
		view.alert = errorAlert(r.Context(), "error.not_found")
		h.render(w, r, http.StatusNotFound, view)
		return
	}

	if err := applyEdits(ws.Directory, p, current, r.PostForm); err != nil {
		key := "error.invalid_request"
		if errors.Is(err, errEmptyName) {
			key = "error.validation_name"
		}
		view.editID = id
		view.alert = errorAlert(r.Context(), key)
		h.render(w, r, http.StatusBadRequest, view)
		return
	}

	h.redirect(w, r, view, "updated")
}

// HandleDelete — POST /users/{id}/delete (только admin).
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, _ := principal(ws)
	view, ok := h.formView(w, r)
	if !ok {
		return
	}

	id, ok := idParam(r)
	if !ok {
		view.alert = errorAlert(r.Context(), "error.invalid_request")
		h.render(w, r, http.StatusBadRequest, view)
		return
	}
	if !rbac.Authorize(p, rbac.ActionDirectoryDelete) {
		view.alert = errorAlert(r.Context(), "error.permission_denied")
		h.render(w, r, http.StatusForbidden, view)
		return
	}

	if !ws.Directory.Delete(p, id) {
		view.alert = errorAlert(r.Context(), "error.not_found")
		h.render(w, r, http.StatusNotFound, view)
		return
	}

	h.redirect(w, r, view, "deleted")
}

var (
	// errInvalidEdit — недопустимое значение поля при редактировании.
	errInvalidEdit = errors.New("недопустимое значение поля")
	// errEmptyName — имя очищено при редактировании.
	errEmptyName = errors.New("имя обязательно")
)

// applyEdits применяет поля формы, отличающиеся от текущей записи.
// Значения проверяются до первого изменения: запись меняется целиком или никак.
func applyEdits(dir *service.Directory, p model.Principal, current model.DirectoryRecord, form url.Values) error {
	changes := make(map[model.Field]string)
	candidate := current
	for _, f := range editableFields {
		if _, present := form[string(f)]; !present {
			continue
		}
		value := strings.TrimSpace(form.Get(string(f)))
		updated, err := candidate.With(f, value)
		if err != nil {
			return errInvalidEdit
		}
		if updated != candidate {
			changes[f] = value
			candidate = updated
		}
	}
	if strings.TrimSpace(candidate.Name) == "" {
		return errEmptyName
	}

	for _, f := range editableFields {
		if value, ok := changes[f]; ok {
			dir.Edit(p, current.ID, f, value)
		}
	}
	return nil
}

// formView разбирает форму и восстанавливает фильтры страницы.
func (h *UsersHandler) formView(w http.ResponseWriter, r *http.Request) (usersView, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректный запрос", http.StatusBadRequest)
		return usersView{}, false
	}
	return usersView{
		criteria: listing.Criteria{Search: r.PostFormValue("return_q"), City: r.PostFormValue("return_city")},
		page:     pageParam(r.PostFormValue("return_page")),
	}, true
}

// redirect возвращает на список с сохранением фильтров (303).
func (h *UsersHandler) redirect(w http.ResponseWriter, r *http.Request, view usersView, msg string) {
	q := url.Values{}
	if view.criteria.Search != "" {
		q.Set("q", view.criteria.Search)
	}
	if view.criteria.City != "" {
		q.Set("city", view.criteria.City)
	}
	if view.page > 0 {
		q.Set("page", strconv.Itoa(view.page))
	}
	q.Set("msg", msg)
	http.Redirect(w, r, "/users?"+q.Encode(), http.StatusSeeOther)
}

func (h *UsersHandler) render(w http.ResponseWriter, r *http.Request, status int, view usersView) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, ok := principal(ws)
	if !ok {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusSeeOther)
		return
	}

	data := buildUsersData(ws, p, view)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.Users(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга справочника",
			slog.String("error", err.Error()),
		)
	}
}

func buildUsersData(ws *service.Workspace, p model.Principal, view usersView) pages.UsersData {
	dv := ws.Directory.View(view.criteria, view.page)
	return pages.UsersData{
		Principal:  p,
		Items:      dv.Page.Items,
		Page:       dv.Page.Page,
		TotalPages: dv.Page.TotalPages,
		TotalItems: dv.Page.TotalItems,
		Search:     dv.Criteria.Search,
		City:       dv.Criteria.City,
		Cities:     dv.Cities,
		CanManage:  rbac.CanManageDirectory(p.Role),
		EditID:     view.editID,
		Alert:      view.alert,
		Draft:      view.draft,
	}
}
