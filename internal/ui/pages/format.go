package pages

import (
	"fmt"
	"time"
)

// FormatSizeMB форматирует размер в мегабайтах с двумя знаками после запятой.
func FormatSizeMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// FormatTime форматирует время загрузки.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
