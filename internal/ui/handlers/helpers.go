package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/pages"
)

// flashMessages — сообщения после redirect (параметр msg).
// Только известные ключи: произвольный текст из URL не выводится.
var flashMessages = map[string]string{
	"added":   "users.added",
	"updated": "users.updated",
	"deleted": "users.deleted",
	"removed": "uploads.deleted",
}

// flashAlert возвращает сообщение для параметра msg или nil.
func flashAlert(ctx context.Context, r *http.Request) *pages.Alert {
	key, ok := flashMessages[r.URL.Query().Get("msg")]
	if !ok {
		return nil
	}
	return &pages.Alert{Kind: "success", Text: i18n.T(ctx, key)}
}

// errorAlert — сообщение об ошибке по ключу i18n.
func errorAlert(ctx context.Context, key string) *pages.Alert {
	return &pages.Alert{Kind: "error", Text: i18n.T(ctx, key)}
}

// principal возвращает пользователя рабочего пространства.
func principal(ws *service.Workspace) (model.Principal, bool) {
	if ws == nil {
		return model.Principal{}, false
	}
	return ws.Session.Principal()
}

// idParam разбирает целочисленный {id} из URL.
func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageParam разбирает номер страницы. Отсутствует или некорректен — 0.
func pageParam(value string) int {
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 0
	}
	return page
}
