package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sales-assistant/internal/infra/logger"
)

func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/healthCheck") {
				next.ServeHTTP(w, r)
				return
			}

			wrappedWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			started := time.Now()

			next.ServeHTTP(wrappedWriter, r)

			fields := logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"remote":   r.RemoteAddr,
				"status":   wrappedWriter.statusCode,
				"bytes":    wrappedWriter.size,
				"duration": time.Since(started).String(),
			}
			if wrappedWriter.statusCode >= http.StatusInternalServerError {
				log.Error("Request failed", fields)
				return
			}
			log.Info("Request served", fields)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}
