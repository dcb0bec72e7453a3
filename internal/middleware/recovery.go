package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the error response for a recovered panic. The API
// layer plugs in its JSON error body here.
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery converts in-handler panics into a logged error response so a
// single bad request cannot take the whole server down.
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						slog.Any("error", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					handler(w, r, rec)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
