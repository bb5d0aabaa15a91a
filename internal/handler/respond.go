// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/sustainabite/internal/middleware"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/workspace"
)

// maxRequestBodySize はJSONリクエストボディの上限（1MB）。
const maxRequestBodySize = 1 << 20

// WorkspaceProvider はセッションごとのWorkspaceを取得するインターフェース。
// workspace.Registryが実装する。
type WorkspaceProvider interface {
	GetOrCreate(sessionID, userID string) *workspace.Workspace
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	if errors.Is(err, context.Canceled) {
		// クライアントが切断済みのため書き込みは届かない
		slog.Warn("request cancelled", slog.String("error", err.Error()))
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeCredentialsRequired,
		model.ErrCodeEmptyCart,
		model.ErrCodeDeliveryDateRequired,
		model.ErrCodeInvalidDeliveryDate,
		model.ErrCodeInvalidNumber,
		model.ErrCodeNegativeNumber,
		model.ErrCodeInvalidRange,
		model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeNoEditInProgress, model.ErrCodeEmailInUse:
		return http.StatusConflict
	case model.ErrCodeProductNotFound,
		model.ErrCodeInventoryItemNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeNotificationNotFound,
		model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeInventoryUpdateFailed, model.ErrCodeOrderFailed:
		return http.StatusBadGateway
	case model.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// asValidationError は入力値の検証エラーであればAPIErrorを返す。
func asValidationError(err error) (*model.APIError, bool) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Category == "validation" {
		return apiErr, true
	}
	return nil, false
}

// decodeJSON はリクエストボディをJSONとしてデコードする。
// 空ボディや不正なJSONはINVALID_REQUESTを返す。
func decodeJSON(r *http.Request, v interface{}) *model.APIError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	if err := dec.Decode(v); err != nil {
		return model.NewInvalidRequestError("รูปแบบข้อมูลไม่ถูกต้อง")
	}
	return nil
}

// currentWorkspace はリクエストのセッションに対応するWorkspaceを返す。
// セッションミドルウェアを通過していない場合は401を書き込みfalseを返す。
func currentWorkspace(w http.ResponseWriter, r *http.Request, workspaces WorkspaceProvider) (*workspace.Workspace, bool) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return nil, false
	}
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return nil, false
	}
	return workspaces.GetOrCreate(sessionID, userID), true
}

// int64URLParam はURLパラメータを整数として読み取る。
func int64URLParam(r *http.Request, key string) (int64, *model.APIError) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, model.NewInvalidRequestError("รหัสไม่ถูกต้อง: " + raw)
	}
	return id, nil
}
