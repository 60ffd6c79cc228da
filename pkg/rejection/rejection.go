// Package rejection classifies errors returned by the routing pipeline and
// turns them into JSON error replies that carry the current request ID.
//
//	{"code": 400, "message": "DIVIDE_BY_ZERO", "request_id": "internal-…"}
package rejection

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/reqscope/pkg/logger"
	"github.com/shashiranjanraj/reqscope/pkg/reqid"
	"github.com/shashiranjanraj/reqscope/pkg/response"
)

// Known rejections.
var (
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrDivideByZero     = errors.New("divide by zero")
	ErrTooManyRequests  = errors.New("too many requests")
)

// HeaderError reports a required request header that is absent or unusable.
type HeaderError struct {
	Name string
	Err  error // nil when the header is missing
}

func (e *HeaderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("missing request header %q", e.Name)
	}
	return fmt.Sprintf("invalid request header %q: %v", e.Name, e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// Missing reports whether the header was absent rather than malformed.
func (e *HeaderError) Missing() bool { return e.Err == nil }

// MissingHeader returns the rejection for an absent required header.
func MissingHeader(name string) error { return &HeaderError{Name: name} }

// InvalidHeader returns the rejection for a header that failed to parse.
func InvalidHeader(name string, err error) error { return &HeaderError{Name: name, Err: err} }

// Body is the JSON shape of every error reply.
type Body struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// Classify maps err to a status code and a short message code. ok is false
// for rejections this package does not know about.
func Classify(err error) (status int, message string, ok bool) {
	var headerErr *HeaderError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", true
	case errors.Is(err, ErrDivideByZero):
		return http.StatusBadRequest, "DIVIDE_BY_ZERO", true
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", true
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, "TOO_MANY_REQUESTS", true
	case errors.As(err, &headerErr):
		if headerErr.Missing() {
			return http.StatusBadRequest, "MISSING_HEADER", true
		}
		return http.StatusBadRequest, "INVALID_HEADER", true
	default:
		return http.StatusInternalServerError, "UNHANDLED_REJECTION", false
	}
}

// Handle writes the JSON error reply for err. It must run inside a context
// with a bound request ID.
func Handle(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status, message, ok := Classify(err)
	if !ok {
		logger.L.WarnContext(ctx, "unhandled rejection", "error", err)
	}

	response.JSON(w, status, Body{
		Code:      status,
		Message:   message,
		RequestID: reqid.Current(ctx).String(),
	})
}
