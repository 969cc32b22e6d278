package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/rbac"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// DashboardData — данные главной страницы.
type DashboardData struct {
	Principal model.Principal
	// DirectoryCount — записей в справочнике
	DirectoryCount int
	// UploadCount — файлов в манифесте
	UploadCount int
}

// Dashboard — главная страница: пользователь, роль и сводка по разделам.
func Dashboard(d DashboardData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)

		h.raw(`<h1>`)
		h.text(i18n.Tf(ctx, "dashboard.welcome", d.Principal.Email))
		h.raw(`</h1><p class="muted">`)
		h.text(i18n.Tf(ctx, "dashboard.role", i18n.T(ctx, "role."+string(d.Principal.Role))))
		h.raw(`</p><div class="cards">`)

		h.raw(`<a class="card stat" href="/users"><span class="stat-value">`)
		h.rawf("%d", d.DirectoryCount)
		h.raw(`</span><span class="stat-label">`)
		h.text(i18n.T(ctx, "dashboard.directory_count"))
		h.raw(`</span></a>`)

		h.raw(`<a class="card stat" href="/uploads"><span class="stat-value">`)
		h.rawf("%d", d.UploadCount)
		h.raw(`</span><span class="stat-label">`)
		h.text(i18n.T(ctx, "dashboard.upload_count"))
		h.raw(`</span></a></div>`)

		h.raw(`<ul class="permissions">`)
		permission(ctx, h, rbac.CanManageDirectory(d.Principal.Role), "dashboard.can_manage_directory")
		permission(ctx, h, rbac.CanUpload(d.Principal.Role), "dashboard.can_upload")
		h.raw(`</ul>`)
		return h.err
	})

	p := d.Principal
	return Layout(LayoutData{Title: "nav.dashboard", Active: NavDashboard, Principal: &p}, body)
}

func permission(ctx context.Context, h *htmlWriter, allowed bool, key string) {
	if allowed {
		h.raw(`<li class="allowed">`)
	} else {
		h.raw(`<li class="denied">`)
	}
	h.text(i18n.T(ctx, key))
	if !allowed {
		h.raw(` (`)
		h.text(i18n.T(ctx, "dashboard.not_allowed"))
		h.raw(`)`)
	}
	h.raw(`</li>`)
}
