package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/andrianfauzi/warungku/pkg/logger"
	"github.com/andrianfauzi/warungku/pkg/response"
)

// Recovery converts handler panics into a 500 response instead of
// tearing down the connection.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithCtx(r.Context()).Error("panic recovered",
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					response.Error(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
