package model

import "time"

// UploadRecord — запись манифеста загруженных файлов.
// Создаётся только после успешной валидации и больше не изменяется.
type UploadRecord struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	SizeBytes     int64     `json:"size_bytes"`
	MimeType      string    `json:"mime_type"`
	UploadedAt    time.Time `json:"uploaded_at"`
	UploaderEmail string    `json:"uploader_email"`
}

// Candidate — файл-кандидат на загрузку (до валидации).
type Candidate struct {
	Name      string
	SizeBytes int64
	MimeType  string
}
