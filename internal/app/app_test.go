package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zeno/internal/app"
	"zeno/internal/config"
	"zeno/internal/handlers/dto"
	"zeno/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
			RateLimit:       1000,
			CORSOrigins:     []string{"*"},
		},
		Repository: config.RepositoryConfig{Type: "inmemory"},
		Auth:       config.AuthConfig{Users: map[string]string{"alice": "token-a", "bob": "token-b"}},
		Storage:    config.StorageConfig{Backend: "memory"},
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestApp_Health тестирует публичный health-эндпоинт
func TestApp_Health(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "inmemory", health.Storage)
}

// TestApp_MixedCaseToken тестирует токен в смешанном регистре из файла конфигурации
func TestApp_MixedCaseToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := "repository:\n  type: inmemory\nstorage:\n  backend: memory\nauth:\n  users:\n    alice: AbC123Xyz\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	a, err := app.New(cfg).Init(context.Background())
	require.NoError(t, err)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp := do(t, http.MethodGet, srv.URL+"/api/tasks", "AbC123Xyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/tasks", "abc123xyz", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestApp_RequiresAuth тестирует закрытые маршруты /api
func TestApp_RequiresAuth(t *testing.T) {
	srv := newServer(t)

	for _, path := range []string{"/api/tasks", "/api/notes", "/api/pomodoro-sessions", "/api/resources", "/api/goals"} {
		resp := do(t, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

// TestApp_TaskFlow тестирует создание задачи и изоляцию пользователей
func TestApp_TaskFlow(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/tasks", "token-a", map[string]any{"title": "Write report"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)

	resp = do(t, http.MethodGet, srv.URL+"/api/tasks/"+created.ID, "token-b", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/tasks", "token-a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.ListResponse[models.Task]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 1, list.Count)
}

// TestApp_CORS тестирует preflight-запрос
func TestApp_CORS(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// TestApp_RunStopsOnCancel тестирует graceful shutdown
func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}
