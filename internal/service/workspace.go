// workspace.go — рабочие пространства сессий.
//
// Workspace — всё состояние одного браузера: сессия, справочник и манифест
// загрузок. Создаётся при успешном входе, хранится в памяти
// (expirable LRU, ключ — id сессии из cookie) и уничтожается при выходе
// или по истечении TTL. Ничего не сохраняется между перезапусками.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

// SeedSource — источник начальных данных справочника.
type SeedSource interface {
	FetchDirectory(ctx context.Context) ([]model.DirectoryRecord, error)
}

// WorkspaceConfig — параметры, общие для всех рабочих пространств.
type WorkspaceConfig struct {
	PageSize     int
	AllowedTypes []string
	MaxFileSize  int64
	SeedTimeout  time.Duration
}

// Workspace — состояние одной сессии браузера.
type Workspace struct {
	ID        string
	CreatedAt time.Time
	Session   *Session
	Directory *Directory
	Uploads   *Uploads

	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

// Closed — закрыто ли пространство (выход или истечение).
func (w *Workspace) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// close завершает пространство: выход из сессии и отмена загрузки данных.
func (w *Workspace) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	w.Session.Logout()
}

// applySeed заменяет справочник, если пространство ещё открыто.
func (w *Workspace) applySeed(records []model.DirectoryRecord) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.Directory.Replace(records)
	return true
}

// WorkspaceStore — хранилище рабочих пространств с ограничением размера и TTL.
type WorkspaceStore struct {
	cache   *expirable.LRU[string, *Workspace]
	creds   *Credentials
	seed    SeedSource
	cfg     WorkspaceConfig
	baseCtx context.Context
	seeding sync.WaitGroup
	logger  *slog.Logger
}

// NewWorkspaceStore создаёт хранилище.
// ctx — родительский контекст фоновых загрузок (отменяется при остановке сервиса).
// maxSize — максимальное число одновременных сессий, ttl — время жизни сессии.
func NewWorkspaceStore(
	ctx context.Context,
	creds *Credentials,
	seed SeedSource,
	cfg WorkspaceConfig,
	maxSize int,
	ttl time.Duration,
	logger *slog.Logger,
) *WorkspaceStore {
	s := &WorkspaceStore{
		creds:   creds,
		seed:    seed,
		cfg:     cfg,
		baseCtx: ctx,
		logger:  logger.With(slog.String("component", "workspace_store")),
	}
	s.cache = expirable.NewLRU[string, *Workspace](maxSize, s.onEvict, ttl)
	return s
}

// Open выполняет вход и создаёт рабочее пространство.
// При неверных учётных данных возвращает ErrAuthFailure, пространство не создаётся.
// Загрузка начальных данных справочника запускается в фоне.
func (s *WorkspaceStore) Open(email, password string) (*Workspace, error) {
	session := NewSession(s.creds, s.logger)
	if !session.Login(email, password) {
		return nil, ErrAuthFailure
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	ws := &Workspace{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Session:   session,
		Directory: NewDirectory(s.cfg.PageSize, s.logger),
		Uploads:   NewUploads(s.cfg.AllowedTypes, s.cfg.MaxFileSize, s.logger),
		ctx:       ctx,
		cancel:    cancel,
	}

	s.cache.Add(ws.ID, ws)
	workspacesActive.Inc()

	s.seeding.Add(1)
	go s.loadSeed(ws)

	return ws, nil
}

// Get возвращает открытое рабочее пространство по id.
func (s *WorkspaceStore) Get(id string) (*Workspace, error) {
	ws, ok := s.cache.Get(id)
	if !ok || ws.Closed() {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

// Close завершает сессию id. Отсутствующий id — без ошибки.
func (s *WorkspaceStore) Close(id string) {
	s.cache.Remove(id)
}

// Len — количество активных пространств.
func (s *WorkspaceStore) Len() int {
	return s.cache.Len()
}

// Wait дожидается завершения фоновых загрузок начальных данных.
func (s *WorkspaceStore) Wait() {
	s.seeding.Wait()
}

// Shutdown закрывает все пространства и дожидается фоновых загрузок.
func (s *WorkspaceStore) Shutdown() {
	s.cache.Purge()
	s.seeding.Wait()
}

// onEvict вызывается LRU при удалении, вытеснении и истечении TTL.
func (s *WorkspaceStore) onEvict(id string, ws *Workspace) {
	ws.close()
	workspacesActive.Dec()
	s.logger.Debug("Сессия закрыта", slog.String("workspace_id", id))
}

// loadSeed загружает начальные данные справочника. Однократно, без повторов.
// Ошибка оставляет справочник пустым.
func (s *WorkspaceStore) loadSeed(ws *Workspace) {
	defer s.seeding.Done()

	ctx := ws.ctx
	if s.cfg.SeedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SeedTimeout)
		defer cancel()
	}

	records, err := s.seed.FetchDirectory(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("Загрузка справочника отменена",
				slog.String("workspace_id", ws.ID),
			)
			return
		}
		s.logger.Error("Ошибка загрузки справочника",
			slog.String("workspace_id", ws.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if !ws.applySeed(records) {
		s.logger.Debug("Справочник загружен после закрытия сессии, данные отброшены",
			slog.String("workspace_id", ws.ID),
		)
		return
	}

	s.logger.Info("Справочник загружен",
		slog.String("workspace_id", ws.ID),
		slog.Int("count", len(records)),
	)
}
