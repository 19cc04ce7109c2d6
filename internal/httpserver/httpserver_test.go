package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecodrive-query-api/config"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/internal/middleware"
	"ecodrive-query-api/pkg/log"
)

type stubHandler struct{}

func (stubHandler) Query(c *gin.Context)   { c.Status(http.StatusOK) }
func (stubHandler) Delete(c *gin.Context)  { c.Status(http.StatusOK) }
func (stubHandler) History(c *gin.Context) { c.Status(http.StatusOK) }

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv, err := New(log.NewNop(), Config{
		Port:                8080,
		Mode:                gin.TestMode,
		Environment:         "test",
		Gatherer:            reg,
		Middleware:          middleware.New(log.NewNop(), config.RateLimitConfig{}, m),
		ConversationHandler: stubHandler{},
	})
	require.NoError(t, err)
	return srv
}

func TestNew_Validation(t *testing.T) {
	_, err := New(log.NewNop(), Config{Mode: gin.TestMode, Port: 8080})
	assert.Error(t, err)

	_, err = New(nil, Config{Mode: gin.TestMode, Port: 8080, ConversationHandler: stubHandler{}})
	assert.Error(t, err)

	_, err = New(log.NewNop(), Config{Mode: gin.TestMode, ConversationHandler: stubHandler{}})
	assert.Error(t, err)
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	for path, status := range map[string]string{"/": "healthy", "/health": "healthy", "/ready": "ready", "/live": "alive"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)

		var body struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, status, body.Data["status"], path)
		assert.Equal(t, HealthVersion, body.Data["version"])
		assert.Equal(t, ServiceName, body.Data["service"])
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	}
}

func TestMetricsRoute(t *testing.T) {
	srv := newTestServer(t)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "ecodrive_http_requests_total"))
}

func TestDomainRoutes(t *testing.T) {
	srv := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/query"},
		{http.MethodGet, "/api/v1/conversations/c1"},
		{http.MethodDelete, "/api/v1/conversations/c1"},
	} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tc.path)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := newTestServer(t)
	srv.port = 0 // ":0" picks a free port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
