package pages

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// RejectedFile — отклонённый файл для вывода.
type RejectedFile struct {
	Name string
	// ReasonKey — ключ i18n причины
	ReasonKey string
}

// UploadsData — данные страницы загрузок.
type UploadsData struct {
	Principal model.Principal
	Items     []model.UploadRecord
	// CanUpload — показывать форму загрузки и кнопки удаления (admin, uploader)
	CanUpload    bool
	AllowedTypes []string
	MaxFileSize  int64
	Alert        *Alert
	Accepted     []string
	Rejected     []RejectedFile
}

// Uploads — страница загрузки файлов и манифест.
func Uploads(d UploadsData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)

		h.raw(`<h1>`)
		h.text(i18n.T(ctx, "uploads.title"))
		h.raw(`</h1>`)
		h.alert(d.Alert)
		uploadsResult(ctx, h, d)

		if d.CanUpload {
			h.raw(`<section class="card"><form method="post" action="/uploads" enctype="multipart/form-data">`)
			h.raw(`<input type="file" name="files" multiple`)
			h.attr("accept", strings.Join(d.AllowedTypes, ","))
			h.raw(`><button type="submit" class="btn btn-primary">`)
			h.text(i18n.T(ctx, "uploads.submit"))
			h.raw(`</button></form><p class="muted">`)
			h.text(i18n.Tf(ctx, "uploads.hint", strings.Join(d.AllowedTypes, ", "), FormatSizeMB(d.MaxFileSize)))
			h.raw(`</p></section>`)
		} else {
			h.alert(&Alert{Kind: "info", Text: i18n.T(ctx, "uploads.read_only")})
		}

		uploadsTable(ctx, h, d)
		return h.err
	})

	p := d.Principal
	return Layout(LayoutData{Title: "uploads.title", Active: NavUploads, Principal: &p}, body)
}

func uploadsResult(ctx context.Context, h *htmlWriter, d UploadsData) {
	if len(d.Accepted) > 0 {
		h.raw(`<div class="alert alert-success" role="status">`)
		h.text(i18n.Tf(ctx, "uploads.accepted", len(d.Accepted)))
		h.raw(`<ul>`)
		for _, name := range d.Accepted {
			h.raw(`<li>`)
			h.text(name)
			h.raw(`</li>`)
		}
		h.raw(`</ul></div>`)
	}
	if len(d.Rejected) > 0 {
		h.raw(`<div class="alert alert-error" role="alert">`)
		h.text(i18n.Tf(ctx, "uploads.rejected", len(d.Rejected)))
		h.raw(`<ul>`)
		for _, rej := range d.Rejected {
			h.raw(`<li><strong>`)
			h.text(rej.Name)
			h.raw(`</strong>: `)
			h.text(i18n.T(ctx, rej.ReasonKey))
			h.raw(`</li>`)
		}
		h.raw(`</ul></div>`)
	}
}

var uploadColumns = []string{"uploads.col.name", "uploads.col.size", "uploads.col.type", "uploads.col.date", "uploads.col.uploader"}

func uploadsTable(ctx context.Context, h *htmlWriter, d UploadsData) {
	if len(d.Items) == 0 {
		h.raw(`<p class="empty">`)
		h.text(i18n.T(ctx, "uploads.empty"))
		h.raw(`</p>`)
		return
	}

	h.raw(`<table class="table"><thead><tr>`)
	for _, key := range uploadColumns {
		h.raw(`<th>`)
		h.text(i18n.T(ctx, key))
		h.raw(`</th>`)
	}
	if d.CanUpload {
		h.raw(`<th></th>`)
	}
	h.raw(`</tr></thead><tbody>`)

	for _, rec := range d.Items {
		h.raw(`<tr>`)
		for _, v := range []string{rec.Name, FormatSizeMB(rec.SizeBytes), rec.MimeType, FormatTime(rec.UploadedAt), rec.UploaderEmail} {
			h.raw(`<td>`)
			h.text(v)
			h.raw(`</td>`)
		}
		if d.CanUpload {
			h.raw(`<td class="actions"><form method="post"`)
			h.attr("action", "/uploads/"+strconv.Itoa(rec.ID)+"/delete")
			h.raw(`><button type="submit" class="btn btn-small btn-danger">`)
			h.text(i18n.T(ctx, "uploads.delete"))
			h.raw(`</button></form></td>`)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table>`)
}
