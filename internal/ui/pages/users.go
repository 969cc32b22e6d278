package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// UsersData — данные страницы справочника.
type UsersData struct {
	Principal  model.Principal
	Items      []model.DirectoryRecord
	Page       int
	TotalPages int
	TotalItems int
	Search     string
	City       string
	Cities     []string
	// CanManage — показывать формы добавления, изменения и удаления (admin)
	CanManage bool
	// EditID — id записи, открытой на редактирование (0 — нет)
	EditID int
	Alert  *Alert
	// Draft — значения формы добавления после ошибки валидации
	Draft model.DirectoryRecord
}

// Users — страница справочника: поиск, фильтр по городу, таблица с пагинацией.
func Users(d UsersData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)

		h.raw(`<h1>`)
		h.text(i18n.T(ctx, "users.title"))
		h.raw(`</h1>`)
		h.alert(d.Alert)

		usersFilter(ctx, h, d)
		usersTable(ctx, h, d)
		usersPagination(ctx, h, d)
		if d.CanManage {
			usersAddForm(ctx, h, d)
		}
		return h.err
	})

	p := d.Principal
	return Layout(LayoutData{Title: "users.title", Active: NavUsers, Principal: &p}, body)
}

func usersFilter(ctx context.Context, h *htmlWriter, d UsersData) {
	h.raw(`<form method="get" action="/users" class="filters"><input type="search" name="q"`)
	h.attr("placeholder", i18n.T(ctx, "users.search_placeholder"))
	h.attr("value", d.Search)
	h.raw(`><select name="city"><option value="">`)
	h.text(i18n.T(ctx, "users.all_cities"))
	h.raw(`</option>`)
	for _, c := range d.Cities {
		h.raw(`<option`)
		h.attr("value", c)
		if c == d.City {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(c)
		h.raw(`</option>`)
	}
	h.raw(`</select><button type="submit" class="btn">`)
	h.text(i18n.T(ctx, "users.apply"))
	h.raw(`</button></form>`)
}

var userColumns = []string{"users.col.name", "users.col.email", "users.col.company", "users.col.website", "users.col.city", "users.col.role"}

func usersTable(ctx context.Context, h *htmlWriter, d UsersData) {
	if len(d.Items) == 0 {
		h.raw(`<p class="empty">`)
		h.text(i18n.T(ctx, "users.empty"))
		h.raw(`</p>`)
		return
	}

	h.raw(`<table class="table"><thead><tr>`)
	for _, key := range userColumns {
		h.raw(`<th>`)
		h.text(i18n.T(ctx, key))
		h.raw(`</th>`)
	}
	if d.CanManage {
		h.raw(`<th>`)
		h.text(i18n.T(ctx, "users.col.actions"))
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)

	for _, rec := range d.Items {
		if d.CanManage && rec.ID == d.EditID {
			userEditRow(ctx, h, d, rec)
			continue
		}
		h.raw(`<tr`)
		h.attr("id", "user-"+strconv.Itoa(rec.ID))
		h.raw(`>`)
		for _, v := range []string{rec.Name, rec.Email, rec.CompanyName, rec.Website, rec.City} {
			h.raw(`<td>`)
			h.text(v)
			h.raw(`</td>`)
		}
		h.raw(`<td><span class="badge badge-`)
		h.text(string(rec.Role))
		h.raw(`">`)
		h.text(i18n.T(ctx, "role."+string(rec.Role)))
		h.raw(`</span></td>`)
		if d.CanManage {
			userActions(ctx, h, d, rec)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table>`)
}

func userActions(ctx context.Context, h *htmlWriter, d UsersData, rec model.DirectoryRecord) {
	id := strconv.Itoa(rec.ID)
	h.raw(`<td class="actions"><a class="btn btn-small"`)
	h.attr("href", editURL(d, rec.ID))
	h.raw(`>`)
	h.text(i18n.T(ctx, "users.edit"))
	h.raw(`</a><form method="post"`)
	h.attr("action", "/users/"+id+"/delete")
	h.raw(`>`)
	returnFields(h, d)
	h.raw(`<button type="submit" class="btn btn-small btn-danger">`)
	h.text(i18n.T(ctx, "users.delete"))
	h.raw(`</button></form></td>`)
}

func userEditRow(ctx context.Context, h *htmlWriter, d UsersData, rec model.DirectoryRecord) {
	formID := "edit-" + strconv.Itoa(rec.ID)
	h.raw(`<tr class="editing">`)
	fields := []struct{ name, value string }{
		{string(model.FieldName), rec.Name},
		{string(model.FieldEmail), rec.Email},
		{string(model.FieldCompanyName), rec.CompanyName},
		{string(model.FieldWebsite), rec.Website},
		{string(model.FieldCity), rec.City},
	}
	for _, f := range fields {
		h.raw(`<td><input type="text"`)
		h.attr("form", formID)
		h.attr("name", f.name)
		h.attr("value", f.value)
		h.raw(`></td>`)
	}
	h.raw(`<td>`)
	roleSelect(ctx, h, formID, rec.Role)
	h.raw(`</td><td class="actions"><form method="post"`)
	h.attr("id", formID)
	h.attr("action", "/users/"+strconv.Itoa(rec.ID)+"/edit")
	h.raw(`>`)
	returnFields(h, d)
	h.raw(`<button type="submit" class="btn btn-small btn-primary">`)
	h.text(i18n.T(ctx, "users.save"))
	h.raw(`</button></form><a class="btn btn-small"`)
	h.attr("href", usersURL(d.Search, d.City, d.Page))
	h.raw(`>`)
	h.text(i18n.T(ctx, "users.cancel"))
	h.raw(`</a></td></tr>`)
}

func roleSelect(ctx context.Context, h *htmlWriter, formID string, current model.Role) {
	h.raw(`<select name="role"`)
	if formID != "" {
		h.attr("form", formID)
	}
	h.raw(`>`)
	for _, r := range model.Roles {
		h.raw(`<option`)
		h.attr("value", string(r))
		if r == current {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(i18n.T(ctx, "role."+string(r)))
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
}

// returnFields сохраняет фильтры и страницу для redirect после изменения.
// Имена с префиксом return_ не пересекаются с полями записи (city).
func returnFields(h *htmlWriter, d UsersData) {
	h.hiddenInput("return_q", d.Search)
	h.hiddenInput("return_city", d.City)
	h.hiddenInput("return_page", strconv.Itoa(d.Page))
}

func editURL(d UsersData, id int) string {
	u := usersURL(d.Search, d.City, d.Page)
	sep := "?"
	if len(u) > len("/users") {
		sep = "&"
	}
	return u + sep + "edit=" + strconv.Itoa(id)
}

// usersPagination — по одной ссылке на каждую страницу, плюс шаги назад и вперёд.
func usersPagination(ctx context.Context, h *htmlWriter, d UsersData) {
	if d.TotalPages == 0 {
		return
	}
	h.raw(`<nav class="pagination">`)
	pageStep(h, i18n.T(ctx, "pagination.prev"), d, d.Page-1, d.Page > 1)

	for i := 1; i <= d.TotalPages; i++ {
		if i == d.Page {
			h.raw(`<a class="btn page-num active" aria-current="page"`)
		} else {
			h.raw(`<a class="btn page-num"`)
		}
		h.attr("href", usersURL(d.Search, d.City, i))
		h.raw(`>`)
		h.text(strconv.Itoa(i))
		h.raw(`</a>`)
	}

	pageStep(h, i18n.T(ctx, "pagination.next"), d, d.Page+1, d.Page < d.TotalPages)

	h.raw(`<span class="page-info">`)
	h.text(i18n.Tf(ctx, "pagination.page_of", d.Page, d.TotalPages))
	h.raw(`</span></nav>`)
}

func pageStep(h *htmlWriter, label string, d UsersData, page int, enabled bool) {
	if !enabled {
		h.raw(`<span class="btn page-step disabled">`)
		h.text(label)
		h.raw(`</span>`)
		return
	}
	h.raw(`<a class="btn page-step"`)
	h.attr("href", usersURL(d.Search, d.City, page))
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func usersAddForm(ctx context.Context, h *htmlWriter, d UsersData) {
	h.raw(`<section class="card"><h2>`)
	h.text(i18n.T(ctx, "users.add_title"))
	h.raw(`</h2><form method="post" action="/users" class="grid-form">`)
	returnFields(h, d)
	inputs := []struct{ name, key, value string }{
		{"name", "users.col.name", d.Draft.Name},
		{"email", "users.col.email", d.Draft.Email},
		{"city", "users.col.city", d.Draft.City},
		{"companyName", "users.col.company", d.Draft.CompanyName},
		{"website", "users.col.website", d.Draft.Website},
	}
	for _, in := range inputs {
		h.raw(`<input type="text"`)
		h.attr("name", in.name)
		h.attr("placeholder", i18n.T(ctx, in.key))
		h.attr("value", in.value)
		if in.name == "name" {
			h.raw(` required`)
		}
		h.raw(`>`)
	}
	role := d.Draft.Role
	if role == "" {
		role = model.RoleViewer
	}
	roleSelect(ctx, h, "", role)
	h.raw(`<button type="submit" class="btn btn-primary">`)
	h.text(i18n.T(ctx, "users.add"))
	h.raw(`</button></form></section>`)
}
