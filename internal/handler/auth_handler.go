package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/sustainabite/internal/middleware"
	"github.com/hitoshi/sustainabite/internal/model"
	"github.com/hitoshi/sustainabite/internal/notification"
	"github.com/hitoshi/sustainabite/internal/workspace"
)

const msgLoginSucceeded = "เข้าสู่ระบบสำเร็จ"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, creds model.Credentials) (*model.Session, *model.User, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// WorkspaceStore はログイン・ログアウト時にWorkspaceを作成・破棄するインターフェース。
type WorkspaceStore interface {
	GetOrCreate(sessionID, userID string) *workspace.Workspace
	Remove(sessionID string)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service    AuthServiceInterface
	workspaces WorkspaceStore
	config     AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, workspaces WorkspaceStore, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:    service,
		workspaces: workspaces,
		config:     config,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login はメールアドレスとパスワードで認証し、セッションCookieを発行する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	session, user, err := h.service.Login(r.Context(), model.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.ID, h.config.SessionMaxAge)

	ws := h.workspaces.GetOrCreate(session.ID, user.ID)
	ws.Notifications.Push(msgLoginSucceeded, notification.SeveritySuccess)

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Logout はセッションを破棄し、カートと通知を含むWorkspaceを削除する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieとWorkspaceはクリアする
		}
		h.workspaces.Remove(cookie.Value)
	}

	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), cookie.Value)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
