// uploads.go — проверка и учёт загружаемых файлов.
//
// Файл принимается, если его MIME-тип входит в разрешённый набор
// и размер не превышает лимит. Проверки выполняются в порядке:
// тип, затем размер. Содержимое файлов не хранится, только манифест.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/rbac"
)

// RejectReason — причина отклонения файла.
type RejectReason string

const (
	// RejectUnsupportedType — MIME-тип не входит в разрешённый набор.
	RejectUnsupportedType RejectReason = "unsupported_type"
	// RejectTooLarge — размер превышает лимит.
	RejectTooLarge RejectReason = "too_large"
)

// Rejection — отклонённый файл с причиной.
type Rejection struct {
	Name      string
	Reason    RejectReason
	MimeType  string
	SizeBytes int64
	// Limit — лимит размера (для RejectTooLarge)
	Limit int64
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case RejectUnsupportedType:
		return fmt.Sprintf("%s: тип %q не поддерживается", r.Name, r.MimeType)
	case RejectTooLarge:
		return fmt.Sprintf("%s: размер %d байт превышает максимум %d байт", r.Name, r.SizeBytes, r.Limit)
	default:
		return fmt.Sprintf("%s: %s", r.Name, r.Reason)
	}
}

// BatchResult — итог загрузки набора файлов.
type BatchResult struct {
	Accepted   []model.UploadRecord
	Rejections []*Rejection
}

// UploadsOption — опция конструктора Uploads.
type UploadsOption func(*Uploads)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) UploadsOption {
	return func(u *Uploads) { u.now = now }
}

// Uploads — манифест загруженных файлов сессии.
type Uploads struct {
	mu      sync.RWMutex
	records []model.UploadRecord
	lastID  int
	allowed map[string]bool
	types   []string
	maxSize int64
	now     func() time.Time
	logger  *slog.Logger
}

// NewUploads создаёт пустой манифест.
// allowedTypes — разрешённые MIME-типы (в нижнем регистре), maxSize — лимит в байтах.
func NewUploads(allowedTypes []string, maxSize int64, logger *slog.Logger, opts ...UploadsOption) *Uploads {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	types := make([]string, len(allowedTypes))
	copy(types, allowedTypes)

	u := &Uploads{
		records: make([]model.UploadRecord, 0),
		allowed: allowed,
		types:   types,
		maxSize: maxSize,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger.With(slog.String("component", "uploads")),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// AllowedTypes — разрешённые MIME-типы.
func (u *Uploads) AllowedTypes() []string {
	result := make([]string, len(u.types))
	copy(result, u.types)
	return result
}

// MaxFileSize — лимит размера файла в байтах.
func (u *Uploads) MaxFileSize() int64 {
	return u.maxSize
}

// Validate проверяет один файл. При успехе возвращает запись манифеста
// (без id) с отметкой времени и email загрузившего.
func (u *Uploads) Validate(p model.Principal, c model.Candidate) (model.UploadRecord, *Rejection) {
	mimeType := strings.ToLower(c.MimeType)

	if !u.allowed[mimeType] {
		return model.UploadRecord{}, &Rejection{
			Name:      c.Name,
			Reason:    RejectUnsupportedType,
			MimeType:  c.MimeType,
			SizeBytes: c.SizeBytes,
		}
	}
	if c.SizeBytes > u.maxSize {
		return model.UploadRecord{}, &Rejection{
			Name:      c.Name,
			Reason:    RejectTooLarge,
			MimeType:  c.MimeType,
			SizeBytes: c.SizeBytes,
			Limit:     u.maxSize,
		}
	}

	return model.UploadRecord{
		Name:          c.Name,
		SizeBytes:     c.SizeBytes,
		MimeType:      mimeType,
		UploadedAt:    u.now(),
		UploaderEmail: p.Email,
	}, nil
}

// Upload проверяет каждый файл независимо. Принятые добавляются в манифест
// в порядке поступления, все отклонения возвращаются в BatchResult.
// ErrPermissionDenied, если роль не admin и не uploader: манифест не меняется.
func (u *Uploads) Upload(p model.Principal, candidates []model.Candidate) (BatchResult, error) {
	if !rbac.Authorize(p, rbac.ActionUploadCreate) {
		uploadsTotal.WithLabelValues("denied").Add(float64(len(candidates)))
		return BatchResult{}, ErrPermissionDenied
	}

	var result BatchResult
	u.mu.Lock()
	for _, c := range candidates {
		rec, rej := u.Validate(p, c)
		if rej != nil {
			uploadsTotal.WithLabelValues(string(rej.Reason)).Inc()
			result.Rejections = append(result.Rejections, rej)
			continue
		}
		u.lastID++
		rec.ID = u.lastID
		u.records = append(u.records, rec)
		result.Accepted = append(result.Accepted, rec)
		uploadsTotal.WithLabelValues("accepted").Inc()
	}
	u.mu.Unlock()

	u.logger.Info("Файлы обработаны",
		slog.String("by", p.Email),
		slog.Int("accepted", len(result.Accepted)),
		slog.Int("rejected", len(result.Rejections)),
	)
	return result, nil
}

// Delete удаляет запись id из манифеста.
// ErrPermissionDenied для роли viewer, ErrNotFound если записи нет.
func (u *Uploads) Delete(p model.Principal, id int) error {
	if !rbac.Authorize(p, rbac.ActionUploadDelete) {
		return ErrPermissionDenied
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	for i, rec := range u.records {
		if rec.ID == id {
			u.records = append(u.records[:i], u.records[i+1:]...)
			u.logger.Info("Файл удалён из манифеста",
				slog.Int("id", id),
				slog.String("by", p.Email),
			)
			return nil
		}
	}
	return ErrNotFound
}

// List возвращает копию манифеста в порядке добавления.
func (u *Uploads) List() []model.UploadRecord {
	u.mu.RLock()
	defer u.mu.RUnlock()

	result := make([]model.UploadRecord, len(u.records))
	copy(result, u.records)
	return result
}

// DetectMIME определяет MIME-тип файла: заявленный клиентом тип без параметров,
// а если он пуст или application/octet-stream — по первым байтам содержимого.
func DetectMIME(declared string, head []byte) string {
	mediaType, _, _ := strings.Cut(declared, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}
	if len(head) == 0 {
		return "application/octet-stream"
	}
	sniffed, _, _ := strings.Cut(http.DetectContentType(head), ";")
	return strings.TrimSpace(sniffed)
}

// sniffLen — сколько байт файла читается для определения MIME-типа.
const sniffLen = 512

// CandidatesFromForm описывает файлы multipart-формы: имя, размер и
// MIME-тип по заголовку части и первым байтам содержимого.
func CandidatesFromForm(headers []*multipart.FileHeader) []model.Candidate {
	candidates := make([]model.Candidate, 0, len(headers))
	for _, fh := range headers {
		candidates = append(candidates, model.Candidate{
			Name:      fh.Filename,
			SizeBytes: fh.Size,
			MimeType:  DetectMIME(fh.Header.Get("Content-Type"), readHead(fh)),
		})
	}
	return candidates
}

// readHead читает начало файла формы. Ошибка чтения — пустой срез.
func readHead(fh *multipart.FileHeader) []byte {
	f, err := fh.Open()
	if err != nil {
		return nil
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, _ := io.ReadFull(f, buf)
	return buf[:n]
}
