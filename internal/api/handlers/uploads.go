// uploads.go — обработчики /api/v1/uploads (загрузка файлов).
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/admin-console/internal/api/errors"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/rbac"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
)

// multipartMemory — часть формы, которая держится в памяти.
const multipartMemory = 8 << 20

// uploadListResponse — манифест загрузок.
type uploadListResponse struct {
	Items        []model.UploadRecord `json:"items"`
	AllowedTypes []string             `json:"allowed_types"`
	MaxFileSize  int64                `json:"max_file_size"`
}

// rejectionResponse — отклонённый файл.
type rejectionResponse struct {
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Message   string `json:"message"`
}

// uploadBatchResponse — итог загрузки набора файлов.
type uploadBatchResponse struct {
	Accepted   []model.UploadRecord `json:"accepted"`
	Rejections []rejectionResponse  `json:"rejections"`
}

// ListUploads — GET /api/v1/uploads. Доступ: любой вошедший пользователь.
func (h *APIHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "Сессия завершена")
		return
	}

	writeJSON(w, http.StatusOK, uploadListResponse{
		Items:        ws.Uploads.List(),
		AllowedTypes: ws.Uploads.AllowedTypes(),
		MaxFileSize:  ws.Uploads.MaxFileSize(),
	})
}

// CreateUploads — POST /api/v1/uploads (multipart, поле "files").
// Доступ: admin, uploader. Отклонённые файлы не прерывают обработку
// остальных и возвращаются в rejections с кодом 200.
func (h *APIHandler) CreateUploads(w http.ResponseWriter, r *http.Request) {
	ws, p, ok := requestPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "Сессия завершена")
		return
	}
	if !rbac.Authorize(p, rbac.ActionUploadCreate) {
		apierrors.PermissionDenied(w, "Недостаточно прав: требуется роль admin или uploader")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.RequestTooLarge(w, "Тело запроса превышает лимит")
			return
		}
		apierrors.ValidationError(w, "Ожидается multipart/form-data")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		apierrors.ValidationError(w, "Нет файлов в поле files")
		return
	}

	result, err := ws.Uploads.Upload(p, service.CandidatesFromForm(headers))
	if errors.Is(err, service.ErrPermissionDenied) {
		apierrors.PermissionDenied(w, "Недостаточно прав: требуется роль admin или uploader")
		return
	}
	if err != nil {
		apierrors.InternalError(w, "Внутренняя ошибка")
		return
	}

	resp := uploadBatchResponse{
		Accepted:   result.Accepted,
		Rejections: make([]rejectionResponse, 0, len(result.Rejections)),
	}
	if resp.Accepted == nil {
		resp.Accepted = []model.UploadRecord{}
	}
	for _, rej := range result.Rejections {
		resp.Rejections = append(resp.Rejections, rejectionResponse{
			Name:      rej.Name,
			Reason:    string(rej.Reason),
			MimeType:  rej.MimeType,
			SizeBytes: rej.SizeBytes,
			Message:   rej.Error(),
		})
	}
	h.requestLogger(r).Info("Загрузка через API",
		slog.Int("accepted", len(resp.Accepted)),
		slog.Int("rejected", len(resp.Rejections)),
	)
	writeJSON(w, http.StatusOK, resp)
}

// DeleteUpload — DELETE /api/v1/uploads/{id}. Доступ: admin, uploader.
func (h *APIHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
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

	switch err := ws.Uploads.Delete(p, id); {
	case errors.Is(err, service.ErrPermissionDenied):
		apierrors.PermissionDenied(w, "Недостаточно прав: требуется роль admin или uploader")
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Файл не найден")
	case err != nil:
		apierrors.InternalError(w, "Внутренняя ошибка")
	default:
		h.requestLogger(r).Info("Файл удалён через API", slog.Int("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
