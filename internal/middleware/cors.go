package middleware

import (
	"net/http"
	"strings"
)

// NewCORSMiddleware は許可オリジンに対するCORSミドルウェアを返す。
// allowedOriginsはカンマ区切りで複数指定できる。
// credentials送信と共存するため、ワイルドカード(*)は使用せず、
// 一致したオリジンのみをAccess-Control-Allow-Originに返す。
// OPTIONSプリフライトリクエストには204で応答する。
func NewCORSMiddleware(allowedOrigins string) func(next http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")

			origin := matchOrigin(origins, r.Header.Get("Origin"))
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// matchOrigin はリクエストのOriginが許可リストにあればそれを返す。
// Originヘッダーがない同一オリジンやツールからのリクエストには先頭の許可オリジンを返す。
func matchOrigin(origins []string, requestOrigin string) string {
	if len(origins) == 0 {
		return ""
	}
	if requestOrigin == "" {
		return origins[0]
	}
	for _, o := range origins {
		if o == requestOrigin {
			return o
		}
	}
	return ""
}
