package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/itchan-dev/chanfeed/shared/logger"
)

const RequestIdKey key = 1

const requestLoggerKey key = 2

const requestIdHeader = "X-Request-Id"

// RequestId assigns every request a unique id, echoed in the response
// header and available from the context for log correlation. An id
// supplied by a trusted proxy is reused. A logger tagged with the id
// is stored alongside it; log through RequestLogger to correlate.
func RequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIdHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIdHeader, id)
		ctx := context.WithValue(r.Context(), RequestIdKey, id)
		ctx = context.WithValue(ctx, requestLoggerKey, logger.Log.With("requestId", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestId returns the request id or an empty string.
func GetRequestId(r *http.Request) string {
	id, _ := r.Context().Value(RequestIdKey).(string)
	return id
}

// RequestLogger returns the logger tagged with the request id, or the
// global logger when the request never passed through RequestId.
func RequestLogger(r *http.Request) *slog.Logger {
	if l, ok := r.Context().Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return logger.Log
}
