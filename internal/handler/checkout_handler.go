package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/sustainabite/internal/cart"
	"github.com/hitoshi/sustainabite/internal/checkout"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
)

// CheckoutServiceInterface はチェックアウトハンドラーが必要とするサービスインターフェース。
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, userID string, c *cart.Cart, notifier notification.Notifier, req checkout.Request) (*model.Order, error)
}

// CheckoutHandler は注文確定のHTTPハンドラー。
type CheckoutHandler struct {
	service    CheckoutServiceInterface
	workspaces WorkspaceProvider
}

// NewCheckoutHandler はCheckoutHandlerを生成する。
func NewCheckoutHandler(service CheckoutServiceInterface, workspaces WorkspaceProvider) *CheckoutHandler {
	return &CheckoutHandler{
		service:    service,
		workspaces: workspaces,
	}
}

// checkoutRequest は注文確定リクエストのボディ。
type checkoutRequest struct {
	DeliveryDate string `json:"delivery_date"` // YYYY-MM-DD
	DeliveryNote string `json:"delivery_note"`
}

// Checkout はセッションのカートで注文を確定する。
// 結果の通知はセッションの通知キューに発行される。
// POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	var req checkoutRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	order, err := h.service.Checkout(r.Context(), ws.UserID, ws.Cart, ws.Notifications, checkout.Request{
		DeliveryDate: req.DeliveryDate,
		DeliveryNote: req.DeliveryNote,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}
