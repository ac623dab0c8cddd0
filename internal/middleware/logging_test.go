package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-assistant/internal/infra/logger"
)

func TestResponseWriterRecordsStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("short and stout"))

	assert.Equal(t, http.StatusTeapot, rw.statusCode)
	assert.Equal(t, 15, rw.size)
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	h := LoggingMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
