package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/sustainabite/internal/inventory"
	"github.com/hitoshi/sustainabite/internal/metrics"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
	"github.com/hitoshi/sustainabite/internal/workspace"
)

const (
	msgInventoryLoadFailed = "ไม่สามารถโหลดข้อมูลคลังสินค้าได้"
	msgInventoryUpdated    = "อัปเดตข้อมูลสำเร็จ"
)

// InventoryServiceInterface は在庫ハンドラーが必要とするデータサービスのインターフェース。
type InventoryServiceInterface interface {
	ListInventory(ctx context.Context, userID string) ([]model.InventoryItem, error)
	inventory.Updater
}

// InventoryRecorder は在庫更新の結果の記録先。metrics.Collectorが実装する。
type InventoryRecorder interface {
	RecordInventoryUpdate(outcome string)
}

// InventoryHandler は在庫表と在庫編集のHTTPハンドラー。
type InventoryHandler struct {
	service    InventoryServiceInterface
	workspaces WorkspaceProvider
	recorder   InventoryRecorder
}

// NewInventoryHandler はInventoryHandlerを生成する。recorderはnilでもよい。
func NewInventoryHandler(service InventoryServiceInterface, workspaces WorkspaceProvider, recorder InventoryRecorder) *InventoryHandler {
	return &InventoryHandler{
		service:    service,
		workspaces: workspaces,
		recorder:   recorder,
	}
}

// saveInventoryRequest は在庫編集の保存リクエストのボディ。
// 入力欄の値をそのまま文字列で受け取り、サーバー側で数値として検証する。
type saveInventoryRequest struct {
	CurrentStock string `json:"current_stock"`
	MinLevel     string `json:"min_level"`
}

// List は在庫表を状態バッジと集計付きで返す。
// 初回またはrefresh=trueの場合にデータサービスから取得し、以降はセッションの表示を返す。
// qを指定すると商品名・カテゴリで絞り込む。集計は絞り込み前の全件で行う。
// GET /api/inventory?q=&refresh=
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	items, err := h.loadInventory(r.Context(), ws, r.URL.Query().Get("refresh") == "true")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	summary := inventory.Summarize(items)
	filtered := inventory.Search(items, r.URL.Query().Get("q"))

	resp := inventoryResponse{
		Items: make([]inventoryItemResponse, 0, len(filtered)),
		Summary: inventorySummaryResponse{
			Total: summary.Total,
			Low:   summary.Low,
			Empty: summary.Empty,
		},
	}
	for _, it := range filtered {
		resp.Items = append(resp.Items, toInventoryItemResponse(it))
	}
	if pending, ok := ws.Editor.Focus(); ok {
		resp.Editing = toPendingEditResponse(pending)
	}

	writeJSON(w, http.StatusOK, resp)
}

// BeginEdit は在庫アイテムの編集を開始する。編集中の別アイテムは破棄される。
// POST /api/inventory/{id}/edit
func (h *InventoryHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	itemID, apiErr := int64URLParam(r, "id")
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	if _, err := h.loadInventory(r.Context(), ws, false); err != nil {
		handleServiceError(w, err)
		return
	}

	item, found := ws.InventoryItem(itemID)
	if !found {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewInventoryItemNotFoundError(itemID))
		return
	}

	pending := ws.Editor.Begin(item)
	writeJSON(w, http.StatusOK, toPendingEditResponse(pending))
}

// SaveEdit は編集中のアイテムの在庫数と最低在庫数を保存する。
// 数値でない値や負数は保存せずにエラー通知を発行し、編集状態を維持する。
// PUT /api/inventory/edit
func (h *InventoryHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	var req saveInventoryRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	update, err := ws.Editor.Save(r.Context(), h.service, req.CurrentStock, req.MinLevel)
	if err != nil {
		if apiErr, ok := asValidationError(err); ok {
			ws.Notifications.Push(apiErr.Message, notification.SeverityError)
			h.record(metrics.OutcomeRejected)
			writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
			return
		}

		slog.Error("inventory update failed",
			slog.String("user_id", ws.UserID),
			slog.String("error", err.Error()),
		)
		ws.Notifications.Push(model.NewInventoryUpdateFailedError().Message, notification.SeverityError)
		h.record(metrics.OutcomeFailure)
		if !errors.As(err, new(*model.APIError)) {
			err = model.NewInventoryUpdateFailedError()
		}
		handleServiceError(w, err)
		return
	}

	ws.ApplyUpdate(update)
	ws.Notifications.Push(msgInventoryUpdated, notification.SeveritySuccess)
	h.record(metrics.OutcomeSuccess)

	item, found := ws.InventoryItem(update.ID)
	if !found {
		writeJSON(w, http.StatusOK, pendingEditResponse{
			ItemID:       update.ID,
			CurrentStock: update.CurrentStock,
			MinLevel:     update.MinLevel,
		})
		return
	}
	writeJSON(w, http.StatusOK, toInventoryItemResponse(item))
}

// CancelEdit は編集中の値を破棄する。
// DELETE /api/inventory/edit
func (h *InventoryHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	ws.Editor.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// loadInventory はセッションの在庫表示を返す。未取得またはrefreshの場合は再取得する。
// 取得に失敗した場合はエラー通知を発行する。
func (h *InventoryHandler) loadInventory(ctx context.Context, ws *workspace.Workspace, refresh bool) ([]model.InventoryItem, error) {
	if !refresh {
		if items, ok := ws.Inventory(); ok {
			return items, nil
		}
	}

	items, err := h.service.ListInventory(ctx, ws.UserID)
	if err != nil {
		ws.Notifications.Push(msgInventoryLoadFailed, notification.SeverityError)
		return nil, err
	}
	ws.SetInventory(items)
	return items, nil
}

func (h *InventoryHandler) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordInventoryUpdate(outcome)
	}
}
