package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader 回應中帶回的 request id header
const RequestIDHeader = "X-Request-Id"

// RequestID 產生（或沿用 X-Request-Id 的）request id 並寫回回應 header
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimid.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

// GetReqID 取得目前請求的 request id
func GetReqID(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}

// Recover 把 handler 的 panic 轉成 500
func Recover(next http.Handler) http.Handler {
	return chimid.Recoverer(next)
}
