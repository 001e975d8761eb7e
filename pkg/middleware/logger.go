package middleware

import (
	"net/http"
	"time"

	"github.com/andrianfauzi/warungku/pkg/logger"
	"github.com/andrianfauzi/warungku/pkg/reqid"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logger injects a request-scoped logger into the context and emits one
// access-log line per request.
func Logger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			log := logger.L.With(
				"request_id", reqid.FromCtx(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			ctx := logger.InjectLogger(r.Context(), log)

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r.WithContext(ctx))

			log.Info("request completed",
				"status", rw.status,
				"bytes", rw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", r.RemoteAddr,
			)
		})
	}
}
