package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/sustainabite/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	setTestEnv(t)
	t.Setenv("MOCK_READ_DELAY", "0s")
	t.Setenv("MOCK_SLOW_READ_DELAY", "0s")
	t.Setenv("MOCK_WRITE_DELAY", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	body := strings.NewReader(`{"email":"demo@sustainabite.com","password":"password"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestBuild_MemoryBackends(t *testing.T) {
	cfg := testConfig(t)

	srv, err := Build(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer srv.Close()

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	cookie := login(t, srv.Handler)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cart map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cart))
	assert.Equal(t, "50", cart["shipping_fee"])
}

// 設定した送料がカートに反映されることを検証
func TestBuild_PricingFromConfig(t *testing.T) {
	t.Setenv("SHIPPING_FEE", "35")
	cfg := testConfig(t)

	srv, err := Build(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer srv.Close()

	cookie := login(t, srv.Handler)
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"shipping_fee":"35"`)
}

func TestBuild_MetricsEndpointRecordsRequests(t *testing.T) {
	cfg := testConfig(t)

	srv, err := Build(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer srv.Close()

	login(t, srv.Handler)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "sustainabite_http_status_total")
	assert.Contains(t, body, `sustainabite_data_service_latency_seconds_count{operation="authenticate"} 1`)
	assert.Contains(t, body, `sustainabite_notifications_total{severity="success"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestBuild_RedisSessionBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.SessionBackend = config.BackendRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	srv, err := Build(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer srv.Close()

	cookie := login(t, srv.Handler)
	assert.True(t, mr.Exists("sustainabite_user:"+cookie.Value), "session should be stored in redis")

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestBuild_RedisUnavailable_ReturnsError(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionBackend = config.BackendRedis
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	srv, err := Build(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
	assert.Nil(t, srv)
}

// StartBackgroundがクリーンアップジョブを起動しキャンセルで停止することを検証
func TestServer_StartBackground_RunsCleanup(t *testing.T) {
	cfg := testConfig(t)
	cfg.WorkspaceSweepInterval = 10 * time.Millisecond

	var buf safeBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	srv, err := Build(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	srv.StartBackground(ctx)

	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "swept_workspaces")
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
}

func TestServer_Close_Idempotent(t *testing.T) {
	cfg := testConfig(t)

	srv, err := Build(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	assert.NoError(t, srv.Close())
	assert.NoError(t, srv.Close())
}

// safeBuffer は並行書き込みに対応したログ出力先。
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
