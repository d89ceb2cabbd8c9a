package middleware

import (
	"context"
	"net"
	"net/http"

	apperrors "contrastboard/pkg/errors"
)

// ClientLimiter admits or rejects requests by client address
type ClientLimiter interface {
	Allow(ctx context.Context, addr string) (bool, error)
}

// RateLimit rejects requests over the limiter's budget with 429. It runs
// after RealIP so proxied clients are keyed by their own address.
func RateLimit(limiter ClientLimiter, errs *apperrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientAddr(r))
			if err != nil {
				errs.Handle(w, r, err)
				return
			}
			if !allowed {
				errs.Handle(w, r, apperrors.NewRateLimitedError("too many requests, retry later").WithCode("RATE_LIMITED"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
