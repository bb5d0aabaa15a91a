package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// requestInfo は内側のミドルウェアが判明させた値を外側のログへ渡す入れ物。
type requestInfo struct {
	userID string
}

type requestInfoKey struct{}

// annotateUserID はロギングミドルウェアの配下であれば認証済みユーザーIDを記録する。
func annotateUserID(ctx context.Context, userID string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.userID = userID
	}
}

// responseStatus は書き込まれたステータスを返す。何も書かれていなければ200。
func responseStatus(ww chimw.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}

// NewLoggingMiddleware はリクエストごとにJSON構造化ログを1行出力するミドルウェアを返す。
// 4xxはWARN、5xxはERRORで記録する。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

			status := responseStatus(ww)
			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				args = append(args, slog.String("request_id", reqID))
			}

			userID := info.userID
			if userID == "" {
				userID, _ = UserIDFromContext(r.Context())
			}
			if userID != "" {
				args = append(args, slog.String("user_id", userID))
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
