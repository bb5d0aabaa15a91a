package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
	"github.com/hitoshi/sustainabite/internal/user"
)

const (
	msgProfileSaved      = "บันทึกข้อมูลสำเร็จ"
	msgProfileSaveFailed = "เกิดข้อผิดพลาดในการบันทึกข้อมูล"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	UpdateProfile(ctx context.Context, sessionID, userID string, in user.ProfileInput) (*model.User, error)
}

// ProfileHandler は店舗情報のHTTPハンドラー。
type ProfileHandler struct {
	service    ProfileServiceInterface
	workspaces WorkspaceProvider
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface, workspaces WorkspaceProvider) *ProfileHandler {
	return &ProfileHandler{
		service:    service,
		workspaces: workspaces,
	}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
type updateProfileRequest struct {
	StoreName string `json:"store_name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

// Update は店舗名・メールアドレス・住所・電話番号を更新する。
// PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r, h.workspaces)
	if !ok {
		return
	}

	var req updateProfileRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), ws.SessionID, ws.UserID, user.ProfileInput(req))
	if err != nil {
		if apiErr, ok := asValidationError(err); ok {
			ws.Notifications.Push(apiErr.Message, notification.SeverityError)
		} else {
			slog.Error("profile update failed",
				slog.String("user_id", ws.UserID),
				slog.String("error", err.Error()),
			)
			ws.Notifications.Push(msgProfileSaveFailed, notification.SeverityError)
		}
		handleServiceError(w, err)
		return
	}

	ws.Notifications.Push(msgProfileSaved, notification.SeveritySuccess)
	writeJSON(w, http.StatusOK, toUserResponse(updated))
}
