package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itchan-dev/chanfeed/shared/logger"
)

func TestLoggingCarriesRequestId(t *testing.T) {
	var buf bytes.Buffer
	orig := logger.Log
	logger.Log = slog.New(slog.NewTextHandler(&buf, nil))
	defer func() { logger.Log = orig }()

	handler := RequestId(Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RequestLogger(r).Info("inside handler")
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest("POST", "/v1/channel/messages", nil)
	req.Header.Set("X-Request-Id", "rid-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, "requestId=rid-123")
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, "request handled")
	assert.Contains(t, out, "status=201")
	assert.Equal(t, "rid-123", rec.Header().Get("X-Request-Id"))
}

func TestRequestLoggerWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	assert.Equal(t, logger.Log, RequestLogger(req))
}
