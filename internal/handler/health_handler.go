package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthCheckTimeout は依存先1つあたりの確認時間の上限。
const healthCheckTimeout = 2 * time.Second

// HealthChecker は依存先の疎通確認。*sql.DBとauth.RedisStorageが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// HealthHandler はヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	checkers map[string]HealthChecker
}

// NewHealthHandler はHealthHandlerを生成する。checkersは空でもよい。
func NewHealthHandler(checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health は依存先の疎通を確認し、すべて成功すれば200を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK

	if len(h.checkers) > 0 {
		resp.Checks = make(map[string]string, len(h.checkers))
	}
	for name, c := range h.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := c.PingContext(ctx)
		cancel()

		if err != nil {
			slog.Warn("health check failed",
				slog.String("dependency", name),
				slog.String("error", err.Error()),
			)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}
