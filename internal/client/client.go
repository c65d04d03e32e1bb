// Package client - типизированный HTTP-клиент удалённого API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zeno/internal/handlers/dto"
	"zeno/internal/logger"
	"zeno/internal/models"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("неверный или отсутствующий токен")
	ErrNotFound     = errors.New("запись не найдена")
)

// StatusError - ответ сервера с кодом, для которого нет отдельной ошибки.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("сервер ответил %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	timeout    time.Duration
	maxRetries uint64

	Tasks     *Resource[models.Task]
	Notes     *Resource[models.Note]
	Sessions  *Resource[models.PomodoroSession]
	Resources *Resource[models.Resource]
	Goals     *Resource[models.Goal]
}

type Option func(*Client)

// WithTimeout ограничивает каждую попытку запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithRetries задаёт число повторов GET-запросов.
func WithRetries(n uint64) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		http:       http.DefaultClient,
		timeout:    10 * time.Second,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Tasks = newResource[models.Task](c, "/api/tasks")
	c.Notes = newResource[models.Note](c, "/api/notes")
	c.Sessions = newResource[models.PomodoroSession](c, "/api/pomodoro-sessions")
	c.Resources = newResource[models.Resource](c, "/api/resources")
	c.Goals = newResource[models.Goal](c, "/api/goals")
	return c
}

// Health возвращает nil, если сервер и его хранилище доступны.
func (c *Client) Health(ctx context.Context) error {
	var health dto.HealthResponse
	return c.get(ctx, "/health", &health)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.do(ctx, http.MethodGet, path, nil, out)
		if err == nil || !retryable(err) {
			return backoff.Permanent(err)
		}
		logger.Warn("Client: Повтор запроса",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}, policy)
}

// retryable: сетевые ошибки и 5xx.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= http.StatusInternalServerError
	}
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrUnauthorized)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("чтение ответа: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("разбор ответа: %w", err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var e dto.ErrorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		if e.Message != "" {
			return e.Message
		}
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
