package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// Разделы навигации.
const (
	NavDashboard = "dashboard"
	NavUsers     = "users"
	NavUploads   = "uploads"
)

// LayoutData — данные общего каркаса страницы.
type LayoutData struct {
	// Title — ключ i18n заголовка страницы
	Title string
	// Active — активный раздел навигации
	Active string
	// Principal — текущий пользователь (nil на странице входа)
	Principal *model.Principal
}

type navItem struct {
	id, href, key string
}

var navItems = []navItem{
	{NavDashboard, "/", "nav.dashboard"},
	{NavUsers, "/users", "nav.users"},
	{NavUploads, "/uploads", "nav.uploads"},
}

// Layout — HTML-каркас: шапка с навигацией, переключатель языка, содержимое.
// Ссылки навигации и выход показываются только после входа.
func Layout(d LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		lang := i18n.LangFromContext(ctx)

		h.raw(`<!DOCTYPE html><html`)
		h.attr("lang", lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(i18n.T(ctx, d.Title))
		h.raw(` | Admin Console</title><link rel="stylesheet" href="/static/css/app.css"></head><body>`)

		h.raw(`<header class="navbar"><a class="brand" href="/">Admin Console</a>`)
		if d.Principal != nil {
			h.raw(`<nav>`)
			for _, item := range navItems {
				h.raw(`<a`)
				h.attr("href", item.href)
				if item.id == d.Active {
					h.raw(` class="active" aria-current="page"`)
				}
				h.raw(`>`)
				h.text(i18n.T(ctx, item.key))
				h.raw(`</a>`)
			}
			h.raw(`</nav>`)
		}

		h.raw(`<div class="navbar-right">`)
		h.raw(`<form method="post" action="/set-language" class="lang-switch">`)
		for _, l := range []string{"en", "fr"} {
			h.raw(`<button type="submit" name="lang"`)
			h.attr("value", l)
			if l == lang {
				h.raw(` class="active" disabled`)
			}
			h.raw(`>`)
			h.text(l)
			h.raw(`</button>`)
		}
		h.raw(`</form>`)

		if d.Principal != nil {
			h.raw(`<span class="whoami">`)
			h.text(i18n.Tf(ctx, "nav.signed_in_as", d.Principal.Email, i18n.T(ctx, "role."+string(d.Principal.Role))))
			h.raw(`</span><form method="post" action="/logout"><button type="submit" class="btn btn-secondary">`)
			h.text(i18n.T(ctx, "nav.logout"))
			h.raw(`</button></form>`)
		}
		h.raw(`</div></header>`)

		h.raw(`<main class="container">`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}
