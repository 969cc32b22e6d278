// Пакет seedclient — HTTP-клиент к источнику начальных данных справочника.
// Один GET без повторов. Каждой записи назначается случайная роль
// (admin, uploader или viewer) с равной вероятностью.
package seedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

// maxResponseSize — ограничение размера ответа источника.
const maxResponseSize = 10 * 1024 * 1024

// RoleAssigner выбирает роль для загруженной записи.
type RoleAssigner func() model.Role

// RandomRole — равновероятный выбор из model.Roles.
func RandomRole() model.Role {
	return model.Roles[rand.IntN(len(model.Roles))]
}

// Option — опция клиента.
type Option func(*Client)

// WithRoleAssigner подменяет выбор роли (для тестов).
func WithRoleAssigner(fn RoleAssigner) Option {
	return func(c *Client) { c.assignRole = fn }
}

// Client — клиент источника начальных данных.
type Client struct {
	url        string
	httpClient *http.Client
	assignRole RoleAssigner
	logger     *slog.Logger
}

// New создаёт клиент.
// url — полный адрес коллекции (например, https://jsonplaceholder.typicode.com/users).
// httpClient — HTTP-клиент (nil — клиент с таймаутом 30s).
func New(url string, httpClient *http.Client, logger *slog.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		url:        url,
		httpClient: httpClient,
		assignRole: RandomRole,
		logger:     logger.With(slog.String("component", "seed_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDirectory загружает коллекцию пользователей и преобразует её
// в записи справочника в порядке ответа.
// Ошибка при статусе не 2xx, сетевой ошибке или некорректном JSON.
func (c *Client) FetchDirectory(ctx context.Context) ([]model.DirectoryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос к источнику данных: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("источник данных вернул статус %d: %s", resp.StatusCode, string(body))
	}

	var users []SeedUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&users); err != nil {
		return nil, fmt.Errorf("декодирование ответа источника данных: %w", err)
	}

	records := make([]model.DirectoryRecord, 0, len(users))
	for _, u := range users {
		records = append(records, model.DirectoryRecord{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			CompanyName: u.Company.Name,
			Website:     u.Website,
			City:        u.Address.City,
			Role:        c.assignRole(),
		})
	}

	c.logger.Debug("Начальные данные получены", slog.Int("count", len(records)))
	return records, nil
}
