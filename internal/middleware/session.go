// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/sustainabite/internal/model"
)

// SessionCookieName はセッションIDを保持するCookie名。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
	userIDContextKey = contextKey("user_id")
	// sessionIDContextKey はリクエストコンテキストにセッションIDを格納するためのキー。
	sessionIDContextKey = contextKey("session_id")
)

// SessionFinder はセッションの検索に必要なインターフェース。
// auth.Serviceが実装する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// セッションIDと認証済みユーザーIDをリクエストコンテキストに注入する。
// 未認証リクエストには401とUNAUTHORIZEDを返す。
func NewSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			if session == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			annotateUserID(r.Context(), session.UserID)
			ctx := ContextWithSession(r.Context(), session.ID, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// SessionIDFromContext はリクエストコンテキストからセッションIDを取得する。
func SessionIDFromContext(ctx context.Context) (string, error) {
	sessionID, ok := ctx.Value(sessionIDContextKey).(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("session ID not found in context")
	}
	return sessionID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// ContextWithSession はコンテキストにセッションIDとユーザーIDを注入する。
func ContextWithSession(ctx context.Context, sessionID, userID string) context.Context {
	ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)
	return context.WithValue(ctx, userIDContextKey, userID)
}
