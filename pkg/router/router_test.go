package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/reqscope/pkg/rejection"
	"github.com/shashiranjanraj/reqscope/pkg/router"
)

type recorded struct {
	err error
}

func newRouter(t *testing.T) (*router.Router, *recorded) {
	t.Helper()
	got := &recorded{}
	r := router.New(func(w http.ResponseWriter, _ *http.Request, err error) {
		got.err = err
		w.WriteHeader(http.StatusTeapot)
	})
	return r, got
}

func serve(r *router.Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_HandlerReply(t *testing.T) {
	r, got := newRouter(t)
	r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	})

	rec := serve(r, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, got.err)
}

func TestRouter_Rejections(t *testing.T) {
	boom := errors.New("boom")
	r, got := newRouter(t)
	r.Get("/fail", "fail", func(http.ResponseWriter, *http.Request) error { return boom })

	rec := serve(r, http.MethodGet, "/fail")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got.err, boom)

	serve(r, http.MethodGet, "/nowhere")
	assert.ErrorIs(t, got.err, rejection.ErrNotFound)

	serve(r, http.MethodPost, "/fail")
	assert.ErrorIs(t, got.err, rejection.ErrMethodNotAllowed)
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	r, _ := newRouter(t)
	var order []string
	mw := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}
	r.Use(mw("global"))
	api := r.Group("/api", mw("group"))
	api.Get("/x", "x", func(w http.ResponseWriter, _ *http.Request) error {
		order = append(order, "handler")
		return nil
	}, mw("route"))

	serve(r, http.MethodGet, "/api/x")
	assert.Equal(t, []string{"global", "group", "route", "handler"}, order)
}

func TestRouter_NamedRoutes(t *testing.T) {
	r, _ := newRouter(t)
	noop := func(http.ResponseWriter, *http.Request) error { return nil }
	r.Get("/math/{num}", "math.divide", noop)
	r.Group("api").Group("/v1/").Post("items", "items.create", noop)
	r.Get("/anon", "", noop)

	path, ok := r.Path("math.divide")
	require.True(t, ok)
	assert.Equal(t, "/math/{num}", path)

	u, err := r.URL("math.divide", map[string]string{"num": "4"})
	require.NoError(t, err)
	assert.Equal(t, "/math/4", u)

	_, err = r.URL("math.divide", nil)
	assert.ErrorContains(t, err, "missing parameters")
	_, err = r.URL("nope", nil)
	assert.ErrorContains(t, err, "not found")

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodPost, Path: "/api/v1/items", Name: "items.create"},
		{Method: http.MethodGet, Path: "/math/{num}", Name: "math.divide"},
	}, r.Routes())
}
