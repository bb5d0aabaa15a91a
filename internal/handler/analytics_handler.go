package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/sustainabite/internal/analytics"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
)

const msgAnalyticsLoadFailed = "ไม่สามารถโหลดข้อมูลการวิเคราะห์ได้"

// AnalyticsServiceInterface は分析ハンドラーが必要とするデータサービスのインターフェース。
type AnalyticsServiceInterface interface {
	OrderAnalytics(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.AnalyticsPoint, error)
	CostSavings(ctx context.Context, userID string, r model.AnalyticsRange) ([]model.SavingsPoint, error)
}

// AnalyticsHandler は注文分析・コスト削減のHTTPハンドラー。
type AnalyticsHandler struct {
	service    AnalyticsServiceInterface
	workspaces WorkspaceProvider
}

// NewAnalyticsHandler はAnalyticsHandlerを生成する。
func NewAnalyticsHandler(service AnalyticsServiceInterface, workspaces WorkspaceProvider) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:    service,
		workspaces: workspaces,
	}
}

type orderAnalyticsResponse struct {
	Range  model.AnalyticsRange     `json:"range"`
	Points []analyticsPointResponse `json:"points"`
}

type costSavingsResponse struct {
	Range  model.AnalyticsRange   `json:"range"`
	Points []savingsPointResponse `json:"points"`
}

// Orders は期間ごとの注文数・金額を返す。rangeはweek/month/year（未指定はweek）。
// GET /api/analytics/orders?range=
func (h *AnalyticsHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	rng, ok := h.parseRange(w, r, ws.Notifications)
	if !ok {
		return
	}

	points, err := h.service.OrderAnalytics(r.Context(), ws.UserID, rng)
	if err != nil {
		ws.Notifications.Push(msgAnalyticsLoadFailed, notification.SeverityError)
		handleServiceError(w, err)
		return
	}

	resp := orderAnalyticsResponse{
		Range:  rng,
		Points: make([]analyticsPointResponse, 0, len(points)),
	}
	for _, p := range points {
		resp.Points = append(resp.Points, analyticsPointResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Savings はカテゴリ別の市場価格との比較を返す。
// GET /api/analytics/savings?range=
func (h *AnalyticsHandler) Savings(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	rng, ok := h.parseRange(w, r, ws.Notifications)
	if !ok {
		return
	}

	points, err := h.service.CostSavings(r.Context(), ws.UserID, rng)
	if err != nil {
		ws.Notifications.Push(msgAnalyticsLoadFailed, notification.SeverityError)
		handleServiceError(w, err)
		return
	}

	resp := costSavingsResponse{
		Range:  rng,
		Points: make([]savingsPointResponse, 0, len(points)),
	}
	for _, p := range points {
		resp.Points = append(resp.Points, savingsPointResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseRange は期間パラメータを検証する。不正な場合はエラー通知を発行して400を書き込む。
func (h *AnalyticsHandler) parseRange(w http.ResponseWriter, r *http.Request, notifier notification.Notifier) (model.AnalyticsRange, bool) {
	rng, err := analytics.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		if apiErr, ok := asValidationError(err); ok {
			notifier.Push(apiErr.Message, notification.SeverityError)
		}
		handleServiceError(w, err)
		return "", false
	}
	return rng, true
}
