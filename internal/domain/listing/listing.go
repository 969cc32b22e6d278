// Пакет listing — фильтрация и постраничный вывод справочника пользователей.
// Чистые функции без состояния, кроме State, который запоминает
// последний запрос списка для сброса страницы.
package listing

import (
	"strings"
	"sync"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

// DefaultPageSize — размер страницы справочника по умолчанию.
const DefaultPageSize = 5

// Criteria — условия фильтрации.
type Criteria struct {
	// Search — подстрока имени или email, без учёта регистра. Пусто — без фильтра.
	Search string
	// City — точное совпадение города. Пусто — все города.
	City string
}

// Page — страница результата.
type Page[T any] struct {
	Items      []T
	Page       int // Номер страницы, начиная с 1
	TotalPages int // 0, если элементов нет
	TotalItems int
	PageSize   int
}

// HasPrev — есть ли предыдущая страница.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext — есть ли следующая страница.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Filter возвращает записи, удовлетворяющие критериям, в исходном порядке.
func Filter(records []model.DirectoryRecord, c Criteria) []model.DirectoryRecord {
	search := strings.ToLower(c.Search)
	result := make([]model.DirectoryRecord, 0, len(records))
	for _, rec := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.Name), search) &&
			!strings.Contains(strings.ToLower(rec.Email), search) {
			continue
		}
		if c.City != "" && rec.City != c.City {
			continue
		}
		result = append(result, rec)
	}
	return result
}

// Paginate возвращает срез page (с 1) размером pageSize.
// Номер страницы приводится к [1, TotalPages].
// Пустой вход: TotalPages = 0, Page = 1, Items пуст.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * pageSize
	end := offset + pageSize
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[offset:end],
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
		PageSize:   pageSize,
	}
}

// Cities возвращает различные непустые города в порядке первого появления.
func Cities(records []model.DirectoryRecord) []string {
	seen := make(map[string]bool, len(records))
	var cities []string
	for _, rec := range records {
		if rec.City == "" || seen[rec.City] {
			continue
		}
		seen[rec.City] = true
		cities = append(cities, rec.City)
	}
	return cities
}

// State — состояние просмотра списка одной сессии.
// Любое изменение поиска, города или базовой коллекции сбрасывает страницу на 1.
type State struct {
	mu       sync.Mutex
	criteria Criteria
	revision uint64
	page     int
}

// NewState создаёт состояние на первой странице.
func NewState() *State {
	return &State{page: 1}
}

// Resolve возвращает номер страницы для запроса.
// requested < 1 означает «страница не указана»: остаёмся на текущей.
func (s *State) Resolve(c Criteria, requested int, revision uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case c != s.criteria || revision != s.revision:
		s.page = 1
	case requested >= 1:
		s.page = requested
	}
	s.criteria = c
	s.revision = revision
	return s.page
}

// Settle запоминает фактическую страницу после приведения к допустимому диапазону.
func (s *State) Settle(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}
