package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/sustainabite/internal/model"
)

// TestRouterIntegration_ProtectedRoute_WithMiddlewareChain は
// Session -> RateLimit のミドルウェアチェーンがchi.Routerで正しく動作することを検証する。
func TestRouterIntegration_ProtectedRoute_WithMiddlewareChain(t *testing.T) {
	repo := &mockSessionRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			if id == "router-test-session" {
				return &model.Session{
					ID:        "router-test-session",
					UserID:    "user-router-test",
					ExpiresAt: time.Now().Add(1 * time.Hour),
				}, nil
			}
			return nil, nil
		},
	}

	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    100,
		CheckoutRate:    1,
		CheckoutBurst:   1,
		CleanupInterval: 1 * time.Minute,
	})
	defer rl.Stop()

	status := &recordingStatusRecorder{}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(NewRecoveryMiddleware(slog.Default()))
	r.Use(NewMetricsMiddleware(status))

	// 認証不要
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 認証が必要なルートグループ
	r.Group(func(r chi.Router) {
		r.Use(NewSessionMiddleware(repo))
		r.Use(rl.GeneralMiddleware())

		r.Get("/api/cart", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := UserIDFromContext(r.Context())
			sessionID, _ := SessionIDFromContext(r.Context())
			json.NewEncoder(w).Encode(map[string]string{"user_id": userID, "session_id": sessionID})
		})

		r.With(rl.CheckoutMiddleware()).Post("/api/checkout", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})

	t.Run("GET_cart_with_session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "router-test-session"})
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
		}
		var body map[string]string
		json.NewDecoder(w.Result().Body).Decode(&body)
		if body["user_id"] != "user-router-test" || body["session_id"] != "router-test-session" {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("GET_cart_no_session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("POST_checkout_limited_after_burst", func(t *testing.T) {
		codes := make([]int, 0, 2)
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "router-test-session"})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			codes = append(codes, w.Result().StatusCode)
		}

		if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
			t.Errorf("codes = %v, want [201 429]", codes)
		}
	})

	t.Run("health_no_auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
		}
	})

	if len(status.codes) == 0 {
		t.Error("metrics middleware should record status codes")
	}
}
