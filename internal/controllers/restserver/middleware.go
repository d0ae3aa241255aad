package restserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/uvsystems/uvcalc/internal/log"
)

// requestIDMiddleware tags every request with an X-Request-ID so log lines
// from one calculation can be correlated. An ID supplied by the caller is
// preserved.
func (c *Controller) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		log.Debugw("handling request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware confines a panic in one request so it cannot take down
// the process or corrupt state visible to concurrent requests. The caller
// gets an opaque 500; the full context goes to the log.
func (c *Controller) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorw("panic while handling request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
