package http

import (
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"loan-predictor/apperr"
)

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !limiter.Allow(ip) {
				log.WithFields(log.Fields{
					"request_id": RequestIDFromContext(r.Context()),
					"client":     ip,
				}).Warn("rate limit exceeded")
				writeError(w, r, apperr.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
