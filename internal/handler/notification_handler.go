package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sustainabite/internal/model"
)

// NotificationHandler は通知キューのHTTPハンドラー。
type NotificationHandler struct {
	workspaces WorkspaceProvider
}

// NewNotificationHandler はNotificationHandlerを生成する。
func NewNotificationHandler(workspaces WorkspaceProvider) *NotificationHandler {
	return &NotificationHandler{workspaces: workspaces}
}

// List は表示中の通知を発行順に返す。期限切れの通知は含まれない。
// GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponses(ws.Notifications.List()))
}

// Dismiss は通知を即座に削除する。
// DELETE /api/notifications/{id}
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("รหัสการแจ้งเตือนไม่ถูกต้อง: "+raw))
		return
	}

	if err := ws.Notifications.Dismiss(id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
