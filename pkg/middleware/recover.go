package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/reqscope/pkg/logger"
	"github.com/shashiranjanraj/reqscope/pkg/reqid"
)

// ErrPanic wraps the value recovered from a panicking handler.
var ErrPanic = errors.New("handler panicked")

// Recovery catches panics in downstream handlers, logs the stack trace and
// hands an ErrPanic rejection to reject, which replies with a 500.
//
// Aborts (http.ErrAbortHandler) and a missing request ID binding are not
// recovered: both must end the response.
//
//	r.Use(middleware.Recovery(r.Reject))
func Recovery(reject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && (errors.Is(err, http.ErrAbortHandler) || errors.Is(err, reqid.ErrUnbound)) {
					panic(rec)
				}
				logger.L.ErrorContext(r.Context(), "panic recovered",
					"error", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				reject(w, r, fmt.Errorf("%w: %v", ErrPanic, rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
