package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventra/core/internal/infrastructure/config"
	"github.com/inventra/core/internal/infrastructure/logger"
	"github.com/inventra/core/internal/infrastructure/metrics"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "Inventra", Version: "test", Environment: "test"},
		Server: config.ServerConfig{Port: 3000, BodyLimit: "1K"},
		Storage: config.StorageConfig{
			Driver:         driver,
			IDStrategy:     "last",
			ItemsFile:      "products-db.json",
			CategoriesFile: "category-db.json",
		},
		Collections: config.CollectionsConfig{
			Categories: config.CollectionConfig{RequireOwnerOnDelete: true},
		},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*", RateLimitRequests: 1000, RateLimitWindow: time.Minute},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, m *metrics.Metrics) *Server {
	t.Helper()

	log := logger.NewNop()
	collections, err := BuildCollections(cfg, nil, log, m)
	require.NoError(t, err)

	srv, err := New(cfg, collections, nil, m, log)
	require.NoError(t, err)
	return srv
}

func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t, testConfig(config.DriverMemory), nil)

	rec := serve(srv, http.MethodPost, "/items", `{"name":"A","ownerId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"A","ownerId":1}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = serve(srv, http.MethodDelete, "/categories/5", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message"`)

	rec = serve(srv, http.MethodPut, "/items/2", `{"name":"X"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Item not found"}`, rec.Body.String())
}

func TestServer_FileDriver(t *testing.T) {
	cfg := testConfig(config.DriverFile)
	cfg.Storage.DataDir = t.TempDir()
	srv := newTestServer(t, cfg, nil)

	rec := serve(srv, http.MethodPost, "/categories", `{"name":"Tools","ownerId":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(srv, http.MethodGet, "/categories?ownerId=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Tools","ownerId":3}]`, rec.Body.String())
}

func TestServer_BodyLimit(t *testing.T) {
	srv := newTestServer(t, testConfig(config.DriverMemory), nil)

	rec := serve(srv, http.MethodPost, "/items", `{"name":"`+strings.Repeat("a", 2048)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, testConfig(config.DriverMemory), nil)

	rec := serve(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(srv, http.MethodGet, "/health/detailed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items"`)
	assert.Contains(t, rec.Body.String(), `"categories"`)

	rec = serve(srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, testConfig(config.DriverMemory), metrics.New())

	serve(srv, http.MethodGet, "/items", "")

	rec := serve(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/items",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `inventra_store_operations_total{collection="items",operation="list",outcome="ok"} 1`)
}

func TestBuildCollections_UnknownDriver(t *testing.T) {
	_, err := BuildCollections(testConfig("redis"), nil, logger.NewNop(), nil)
	assert.Error(t, err)

	_, err = BuildCollections(testConfig(config.DriverPostgres), nil, logger.NewNop(), nil)
	assert.Error(t, err)
}
