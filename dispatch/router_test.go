package dispatch

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coregx/relattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body+" "+Pattern(r))
	}
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	rt, err := NewRouter(relattice.DefaultConfig())
	require.NoError(t, err)

	// Registration order is deliberately least specific first.
	require.NoError(t, rt.Handle(`/api/.*`, echo("api")))
	require.NoError(t, rt.Handle(`/api/users`, echo("users")))
	require.NoError(t, rt.Handle(`/web/.*`, echo("web")))
	require.NoError(t, rt.Handle(`/x/.*`, echo("x")))
	require.NoError(t, rt.Handle(`.*/y`, echo("y")))
	return rt
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouterServeHTTP(t *testing.T) {
	rt := newTestRouter(t)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/api/users/42", http.StatusOK, "users /api/users"},
		{"/API/USERS", http.StatusOK, "users /api/users"},
		{"/api/orders", http.StatusOK, "api /api/.*"},
		{"/web/index.html", http.StatusOK, "web /web/.*"},
		{"/nothing", http.StatusNotFound, "404 page not found\n"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(rt, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestRouterConflict(t *testing.T) {
	rt := newTestRouter(t)

	rec := serve(rt, "/x/y")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ambiguous match")

	_, _, err := rt.Route("/x/y")
	assert.True(t, errors.Is(err, relattice.ErrAmbiguousMatch))
}

func TestRouterNotFoundHandler(t *testing.T) {
	rt := newTestRouter(t)
	rt.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	assert.Equal(t, http.StatusTeapot, serve(rt, "/nothing").Code)
}

func TestRouterHandleReplaces(t *testing.T) {
	rt := newTestRouter(t)
	require.NoError(t, rt.Handle(`/api/users`, echo("v2")))

	assert.Equal(t, 5, rt.Lattice().Len())
	assert.Equal(t, "v2 /api/users", serve(rt, "/api/users").Body.String())
}

func TestRouterHandleInvalid(t *testing.T) {
	rt := newTestRouter(t)

	err := rt.HandleFunc(`/a/(`, func(http.ResponseWriter, *http.Request) {})
	var perr *relattice.PatternError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, 5, rt.Lattice().Len())

	h, expr, err := rt.Route("/a/(")
	assert.NoError(t, err)
	assert.Nil(t, h)
	assert.Empty(t, expr)
}

func TestPatternOutsideRouter(t *testing.T) {
	assert.Empty(t, Pattern(httptest.NewRequest(http.MethodGet, "/", nil)))
}
