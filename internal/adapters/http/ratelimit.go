package httpadapter

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// rateLimitMiddleware applies one global token bucket. Per-client buckets are
// pointless behind the single reverse proxy this service runs under.
func rateLimitMiddleware(rps float64, burst int, next http.Handler) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error: "rate limit exceeded",
				Code:  "RateLimited",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// maxBodyMiddleware caps the request body. Oversized uploads surface as a
// multipart read error in the handler, mapped to 400.
func maxBodyMiddleware(maxBytes int64, next http.Handler) http.Handler {
	if maxBytes <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxBytes {
			w.Header().Set("Content-Length-Limit", strconv.FormatInt(maxBytes, 10))
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: "request body too large",
				Code:  "BodyTooLarge",
			})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		next.ServeHTTP(w, r)
	})
}
