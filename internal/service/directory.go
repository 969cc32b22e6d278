// directory.go — справочник пользователей сессии.
// Все изменения доступны только роли admin. Для остальных ролей
// Add/Edit/Delete ничего не меняют и возвращают false.
package service

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/listing"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/rbac"
)

// DirectoryView — страница справочника для отображения.
type DirectoryView struct {
	Page     listing.Page[model.DirectoryRecord]
	Criteria listing.Criteria
	// Cities — варианты фильтра по городу (из всей коллекции)
	Cities []string
}

// Directory — коллекция записей справочника в памяти.
type Directory struct {
	mu       sync.RWMutex
	records  []model.DirectoryRecord
	revision uint64
	state    *listing.State
	pageSize int
	logger   *slog.Logger
}

// NewDirectory создаёт пустой справочник.
func NewDirectory(pageSize int, logger *slog.Logger) *Directory {
	return &Directory{
		records:  make([]model.DirectoryRecord, 0),
		state:    listing.NewState(),
		pageSize: pageSize,
		logger:   logger.With(slog.String("component", "directory")),
	}
}

// Replace атомарно заменяет коллекцию (поступление начальных данных).
func (d *Directory) Replace(records []model.DirectoryRecord) {
	cp := make([]model.DirectoryRecord, len(records))
	copy(cp, records)

	d.mu.Lock()
	d.records = cp
	d.revision++
	d.mu.Unlock()
}

// Records возвращает копию коллекции в текущем порядке.
func (d *Directory) Records() []model.DirectoryRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]model.DirectoryRecord, len(d.records))
	copy(result, d.records)
	return result
}

// Revision — номер версии коллекции, растёт при каждом изменении.
func (d *Directory) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// Get возвращает запись по id.
func (d *Directory) Get(id int) (model.DirectoryRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.indexOf(id); i >= 0 {
		return d.records[i], true
	}
	return model.DirectoryRecord{}, false
}

// Add добавляет запись в конец коллекции с новым уникальным id.
// Пустая роль заменяется на viewer.
func (d *Directory) Add(p model.Principal, rec model.DirectoryRecord) (model.DirectoryRecord, bool) {
	if !rbac.Authorize(p, rbac.ActionDirectoryAdd) {
		directoryMutationsTotal.WithLabelValues("add", "denied").Inc()
		return model.DirectoryRecord{}, false
	}

	if rec.Role == "" {
		rec.Role = model.RoleViewer
	}

	d.mu.Lock()
	rec.ID = d.nextID()
	d.records = append(d.records, rec)
	d.revision++
	d.mu.Unlock()

	directoryMutationsTotal.WithLabelValues("add", "applied").Inc()
	d.logger.Info("Запись справочника добавлена",
		slog.Int("id", rec.ID),
		slog.String("by", p.Email),
	)
	return rec, true
}

// Edit заменяет одно поле записи id.
// Отсутствующий id или недопустимое значение роли — без изменений.
func (d *Directory) Edit(p model.Principal, id int, field model.Field, value string) bool {
	if !rbac.Authorize(p, rbac.ActionDirectoryEdit) {
		directoryMutationsTotal.WithLabelValues("edit", "denied").Inc()
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(id)
	if i < 0 {
		directoryMutationsTotal.WithLabelValues("edit", "not_found").Inc()
		return false
	}
	updated, err := d.records[i].With(field, value)
	if err != nil {
		directoryMutationsTotal.WithLabelValues("edit", "invalid").Inc()
		return false
	}
	d.records[i] = updated
	d.revision++

	directoryMutationsTotal.WithLabelValues("edit", "applied").Inc()
	d.logger.Info("Запись справочника изменена",
		slog.Int("id", id),
		slog.String("field", string(field)),
		slog.String("by", p.Email),
	)
	return true
}

// Delete удаляет запись id. Отсутствующий id — без изменений.
func (d *Directory) Delete(p model.Principal, id int) bool {
	if !rbac.Authorize(p, rbac.ActionDirectoryDelete) {
		directoryMutationsTotal.WithLabelValues("delete", "denied").Inc()
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(id)
	if i < 0 {
		directoryMutationsTotal.WithLabelValues("delete", "not_found").Inc()
		return false
	}
	d.records = append(d.records[:i], d.records[i+1:]...)
	d.revision++

	directoryMutationsTotal.WithLabelValues("delete", "applied").Inc()
	d.logger.Info("Запись справочника удалена",
		slog.Int("id", id),
		slog.String("by", p.Email),
	)
	return true
}

// View возвращает страницу справочника для критериев c.
// requested < 1 — страница не указана. Смена критериев или
// коллекции с прошлого запроса сбрасывает страницу на 1.
func (d *Directory) View(c listing.Criteria, requested int) DirectoryView {
	d.mu.RLock()
	records := d.records
	revision := d.revision
	filtered := listing.Filter(records, c)
	cities := listing.Cities(records)
	d.mu.RUnlock()

	page := d.state.Resolve(c, requested, revision)
	result := listing.Paginate(filtered, page, d.pageSize)
	d.state.Settle(result.Page)

	return DirectoryView{
		Page:     result,
		Criteria: c,
		Cities:   cities,
	}
}

// ValidateRecord проверяет запись перед добавлением.
func ValidateRecord(rec model.DirectoryRecord) error {
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("%w: имя обязательно", ErrValidation)
	}
	if rec.Role != "" && !rec.Role.Valid() {
		return fmt.Errorf("%w: недопустимая роль %q", ErrValidation, rec.Role)
	}
	return nil
}

// nextID — max(id)+1. Вызывается под блокировкой.
func (d *Directory) nextID() int {
	maxID := 0
	for _, rec := range d.records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	return maxID + 1
}

// indexOf — позиция записи id или -1. Вызывается под блокировкой.
func (d *Directory) indexOf(id int) int {
	for i, rec := range d.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}
