package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// LoginData — данные страницы входа.
type LoginData struct {
	// Email — введённый email (сохраняется после неудачной попытки)
	Email string
	Alert *Alert
}

// Login — страница входа.
func Login(d LoginData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)

		h.raw(`<section class="card login-card"><h1>`)
		h.text(i18n.T(ctx, "login.title"))
		h.raw(`</h1>`)
		h.alert(d.Alert)

		h.raw(`<form method="post" action="/login"><label for="email">`)
		h.text(i18n.T(ctx, "login.email"))
		h.raw(`</label><input id="email" name="email" type="email" required autocomplete="username"`)
		h.attr("value", d.Email)
		h.raw(`><label for="password">`)
		h.text(i18n.T(ctx, "login.password"))
		h.raw(`</label><input id="password" name="password" type="password" required autocomplete="current-password">`)
		h.raw(`<button type="submit" class="btn btn-primary">`)
		h.text(i18n.T(ctx, "login.submit"))
		h.raw(`</button></form></section>`)
		return h.err
	})

	return Layout(LayoutData{Title: "login.title"}, body)
}
