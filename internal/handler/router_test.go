package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/sustainabite/internal/middleware"
	"github.com/hitoshi/sustainabite/internal/model"
)

// mockSessionFinderForRouter はセッションIDから固定のセッションを返すSessionFinder。
type mockSessionFinderForRouter struct {
	sessions map[string]*model.Session
}

func (m *mockSessionFinderForRouter) FindByID(_ context.Context, id string) (*model.Session, error) {
	return m.sessions[id], nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(&RouterDeps{
		SessionFinder: &mockSessionFinderForRouter{
			sessions: map[string]*model.Session{
				testSessionID: {ID: testSessionID, UserID: testUserID, ExpiresAt: time.Now().Add(time.Hour)},
			},
		},
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig()),
		AuthService:       &mockAuthService{},
		AuthConfig:        AuthHandlerConfig{SessionMaxAge: 86400},
		Workspaces:        newTestRegistry(),
		DataService:       &mockDataService{},
		ProfileService:    &mockProfileService{},
	})
}

func TestNewRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", w.Code, http.StatusOK)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

// 認証が必要なルートはCookieなしで401を返すことを検証
func TestNewRouter_ProtectedRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/categories"},
		{http.MethodGet, "/api/products"},
		{http.MethodGet, "/api/cart"},
		{http.MethodDelete, "/api/cart"},
		{http.MethodPost, "/api/cart/items"},
		{http.MethodPut, "/api/cart/items/1"},
		{http.MethodDelete, "/api/cart/items/1"},
		{http.MethodPost, "/api/checkout"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/ORD-001"},
		{http.MethodGet, "/api/inventory"},
		{http.MethodPost, "/api/inventory/1/edit"},
		{http.MethodPut, "/api/inventory/edit"},
		{http.MethodDelete, "/api/inventory/edit"},
		{http.MethodGet, "/api/analytics/orders"},
		{http.MethodGet, "/api/analytics/savings"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodDelete, "/api/notifications/1"},
		{http.MethodPut, "/api/profile"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if body := parseAPIErrorResponse(t, w); body["code"] != model.ErrCodeUnauthorized {
				t.Errorf("code = %q", body["code"])
			}
		})
	}
}

func TestNewRouter_AuthenticatedRequest(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSessionID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestNewRouter_UnknownSession(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "unknown"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(&RouterDeps{
		SessionFinder:  &mockSessionFinderForRouter{},
		RateLimiter:    middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig()),
		AuthService:    &mockAuthService{},
		Workspaces:     newTestRegistry(),
		DataService:    &mockDataService{},
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "# metrics") {
		t.Errorf("GET /metrics status = %d, body = %q", w.Code, w.Body.String())
	}
}
