package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"contrastboard/pkg/common"
)

// RequestHeader carries the request id back to clients
const RequestHeader = "X-Request-ID"

// RequestContext copies the chi request id into the request context and
// response headers, and stamps the start time
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := common.WithStartTime(r.Context(), time.Now())
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = common.WithRequestID(ctx, id)
			w.Header().Set(RequestHeader, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BoardContext stores the addressed board for handlers below a
// /boards/{boardID} route
func BoardContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := common.WithBoardID(r.Context(), chi.URLParam(r, "boardID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
