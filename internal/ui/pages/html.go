// Пакет pages — HTML-страницы Admin Console.
// Компоненты реализуют templ.Component и рендерятся через Render(ctx, w).
// Весь пользовательский текст проходит через templ.EscapeString.
package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// Alert — сообщение над содержимым страницы.
type Alert struct {
	// Kind — error, success или info
	Kind string
	Text string
}

// htmlWriter — запись HTML с запоминанием первой ошибки.
type htmlWriter struct {
	w   io.Writer
	err error
}

func newWriter(w io.Writer) *htmlWriter {
	return &htmlWriter{w: w}
}

// raw пишет разметку без экранирования.
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text пишет экранированный текст.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// rawf — raw с форматированием. Аргументы должны быть безопасны (числа, константы).
func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// attr пишет атрибут с экранированным значением: ` name="value"`.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// component рендерит вложенный компонент.
func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// alert рендерит блок сообщения.
func (h *htmlWriter) alert(a *Alert) {
	if a == nil || a.Text == "" {
		return
	}
	h.raw(`<div class="alert alert-`)
	h.text(a.Kind)
	h.raw(`" role="alert">`)
	h.text(a.Text)
	h.raw(`</div>`)
}

// hiddenInput пишет скрытое поле формы.
func (h *htmlWriter) hiddenInput(name, value string) {
	h.raw(`<input type="hidden"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`>`)
}

// usersURL строит ссылку на страницу справочника с сохранением фильтров.
func usersURL(search, city string, page int) string {
	q := url.Values{}
	if search != "" {
		q.Set("q", search)
	}
	if city != "" {
		q.Set("city", city)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/users"
	}
	return "/users?" + q.Encode()
}
