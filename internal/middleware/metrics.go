package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// HTTPStatusRecorder はレスポンスステータスの記録先。metrics.Collectorが実装する。
type HTTPStatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// NewMetricsMiddleware はレスポンスのステータスコードを記録するミドルウェアを返す。
func NewMetricsMiddleware(recorder HTTPStatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			recorder.RecordHTTPStatus(responseStatus(ww))
		})
	}
}
