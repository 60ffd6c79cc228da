package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/shashiranjanraj/reqscope/pkg/reqid"
	"github.com/shashiranjanraj/reqscope/pkg/response"
)

const (
	// DefaultBodyKey is the top-level key inserted into rewritten bodies.
	DefaultBodyKey = "taskLocals"
	// DefaultNote is the static note stored next to the ID.
	DefaultNote = "this data is injected after the service ran"
)

// Body rewrite failures. Each one aborts the response.
var (
	ErrBodyNotUTF8   = errors.New("response body is not valid UTF-8")
	ErrBodyNotJSON   = errors.New("response body is not valid JSON")
	ErrBodyNotObject = errors.New("response body is not a JSON object")
)

// Observer is notified about adapter events.
type Observer interface {
	ObserveID(id reqid.ID)
	ObserveRewriteFailure(reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveID(reqid.ID)           {}
func (nopObserver) ObserveRewriteFailure(string) {}

// TaskLocals is the value inserted under the body key. Fields are in sorted
// key order, like the rest of the rewritten body.
type TaskLocals struct {
	RequestID reqid.ID `json:"RequestIdInstance"`
	Note      string   `json:"note"`
}

// Adapter is an http.Handler that wraps the routing pipeline.
type Adapter struct {
	next     http.Handler
	log      *slog.Logger
	observer Observer
	note     string
	bodyKey  string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for per-request and failure logs.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// WithObserver sets the event observer, e.g. metrics.Pipeline{}.
func WithObserver(o Observer) Option {
	return func(a *Adapter) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithNote overrides DefaultNote. An empty note keeps the default.
func WithNote(note string) Option {
	return func(a *Adapter) {
		if note != "" {
			a.note = note
		}
	}
}

// WithBodyKey overrides DefaultBodyKey.
func WithBodyKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.bodyKey = key
		}
	}
}

// New wraps next.
func New(next http.Handler, opts ...Option) *Adapter {
	a := &Adapter{
		next:     next,
		log:      slog.Default(),
		observer: nopObserver{},
		note:     DefaultNote,
		bodyKey:  DefaultBodyKey,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := reqid.FromHeader(r.Header)
	a.observer.ObserveID(id)

	ctx := reqid.Bind(r.Context(), id)
	a.log.InfoContext(ctx, "current request id", "scope", id.Scope().String(), "data", id.Data())

	buf := newBufferedResponse()
	a.next.ServeHTTP(buf, r.WithContext(ctx))

	buf.header.Set(reqid.Header, reqid.Current(ctx).String())

	body, err := a.rewrite(ctx, buf.body.Bytes())
	if err != nil {
		a.abort(ctx, r, err)
	}
	buf.header.Set("Content-Length", strconv.Itoa(len(body)))

	dst := w.Header()
	for k, v := range buf.header {
		dst[k] = v
	}
	w.WriteHeader(buf.statusCode())
	_, _ = w.Write(body)
}

// abort logs err and stops response production. Nothing has been written to
// the client yet, so net/http closes the connection.
func (a *Adapter) abort(ctx context.Context, r *http.Request, err error) {
	a.log.ErrorContext(ctx, "response aborted", "error", err, "method", r.Method, "path", r.URL.Path)
	a.observer.ObserveRewriteFailure(failureReason(err))
	panic(http.ErrAbortHandler)
}

// rewrite inserts the bound ID into a JSON object body and re-encodes it.
func (a *Adapter) rewrite(ctx context.Context, body []byte) ([]byte, error) {
	if !utf8.Valid(body) {
		return nil, ErrBodyNotUTF8
	}

	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	obj[a.bodyKey] = TaskLocals{Note: a.note, RequestID: reqid.Current(ctx)}

	out, err := response.Pretty(obj)
	if err != nil {
		return nil, fmt.Errorf("encode rewritten body: %w", err)
	}
	return out, nil
}

// decodeObject parses exactly one JSON object. Numbers keep their literal form.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyNotJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after value", ErrBodyNotJSON)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrBodyNotObject, v)
	}
	return obj, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrBodyNotUTF8):
		return "not_utf8"
	case errors.Is(err, ErrBodyNotJSON):
		return "not_json"
	case errors.Is(err, ErrBodyNotObject):
		return "not_object"
	default:
		return "encode"
	}
}
