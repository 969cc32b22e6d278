package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/rbac"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
	uimiddleware "github.com/bigkaa/goartstore/admin-console/internal/ui/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/pages"
)

// multipartMemory — часть формы, которая держится в памяти.
const multipartMemory = 8 << 20

// UploadsHandler — обработчики загрузки файлов.
type UploadsHandler struct {
	maxRequestSize int64
	logger         *slog.Logger
}

// NewUploadsHandler создаёт новый UploadsHandler.
// maxRequestSize — лимит тела multipart-запроса целиком.
func NewUploadsHandler(maxRequestSize int64, logger *slog.Logger) *UploadsHandler {
	return &UploadsHandler{
		maxRequestSize: maxRequestSize,
		logger:         logger.With(slog.String("component", "ui.uploads")),
	}
}

// HandleList — GET /uploads
func (h *UploadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var alert *pages.Alert
	if r.URL.Query().Get("msg") == "removed" {
		alert = flashAlert(r.Context(), r)
	}
	h.render(w, r, http.StatusOK, pages.UploadsData{Alert: alert})
}

// HandleUpload — POST /uploads (multipart, поле "files").
// Каждый файл проверяется отдельно, результат выводится на той же странице.
func (h *UploadsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, _ := principal(ws)

	if !rbac.Authorize(p, rbac.ActionUploadCreate) {
		h.render(w, r, http.StatusForbidden, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.permission_denied"),
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.render(w, r, http.StatusRequestEntityTooLarge, pages.UploadsData{
				Alert: errorAlert(r.Context(), "error.request_too_large"),
			})
			return
		}
		h.render(w, r, http.StatusBadRequest, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.invalid_request"),
		})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		h.render(w, r, http.StatusBadRequest, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.no_files"),
		})
		return
	}

	result, err := ws.Uploads.Upload(p, service.CandidatesFromForm(headers))
	if err != nil {
		h.render(w, r, http.StatusForbidden, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.permission_denied"),
		})
		return
	}

	data := pages.UploadsData{}
	for _, rec := range result.Accepted {
		data.Accepted = append(data.Accepted, rec.Name)
	}
	for _, rej := range result.Rejections {
		data.Rejected = append(data.Rejected, pages.RejectedFile{
			Name:      rej.Name,
			ReasonKey: "uploads.reason." + string(rej.Reason),
		})
	}
	h.render(w, r, http.StatusOK, data)
}

// HandleDelete — POST /uploads/{id}/delete (admin, uploader).
func (h *UploadsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, _ := principal(ws)

	id, ok := idParam(r)
	if !ok {
		h.render(w, r, http.StatusBadRequest, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.invalid_request"),
		})
		return
	}

	err := ws.Uploads.Delete(p, id)
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		h.render(w, r, http.StatusForbidden, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.permission_denied"),
		})
	case errors.Is(err, service.ErrNotFound):
		h.render(w, r, http.StatusNotFound, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.not_found"),
		})
	case err != nil:
		h.render(w, r, http.StatusInternalServerError, pages.UploadsData{
			Alert: errorAlert(r.Context(), "error.internal"),
		})
	default:
		http.Redirect(w, r, "/uploads?msg=removed", http.StatusSeeOther)
	}
}

// render дополняет данные страницы манифестом и правами и выводит её.
func (h *UploadsHandler) render(w http.ResponseWriter, r *http.Request, status int, data pages.UploadsData) {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	p, ok := principal(ws)
	if !ok {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusSeeOther)
		return
	}

	data.Principal = p
	data.Items = ws.Uploads.List()
	data.CanUpload = rbac.CanUpload(p.Role)
	data.AllowedTypes = ws.Uploads.AllowedTypes()
	data.MaxFileSize = ws.Uploads.MaxFileSize()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.Uploads(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга страницы загрузок",
			slog.String("error", err.Error()),
		)
	}
}
