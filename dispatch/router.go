// Package dispatch routes HTTP requests by the most specific regular
// expression matching their path.
//
// Patterns are kept in a relattice lattice, so registration order does not
// matter: "/api/users" wins over "/api/.*" for /api/users/42 no matter which
// was added first. Two equally specific matches are a conflict.
package dispatch

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/coregx/relattice"
	"github.com/rs/zerolog"
)

type contextKey int

const patternKey contextKey = iota

// Pattern returns the expression that routed r, or "" outside a routed
// handler.
func Pattern(r *http.Request) string {
	p, _ := r.Context().Value(patternKey).(string)
	return p
}

// Router is an http.Handler dispatching on the request path. It is safe for
// concurrent use; handlers may be added while serving.
type Router struct {
	lattice *relattice.SafeLattice
	logger  zerolog.Logger

	mu       sync.RWMutex
	handlers map[string]http.Handler

	// NotFound handles requests no pattern matches. Default: http.NotFound.
	NotFound http.Handler
}

// NewRouter returns an empty router whose lattice uses cfg.
func NewRouter(cfg relattice.Config) (*Router, error) {
	l, err := relattice.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Router{
		lattice:  relattice.NewSafe(l),
		logger:   cfg.Logger,
		handlers: make(map[string]http.Handler),
	}, nil
}

// Lattice returns the lattice behind the router.
func (rt *Router) Lattice() *relattice.SafeLattice { return rt.lattice }

// Handle registers h for expr. Registering an expression again replaces its
// handler.
func (rt *Router) Handle(expr string, h http.Handler) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, ok := rt.handlers[expr]; !ok {
		if _, err := rt.lattice.Insert(expr); err != nil {
			return err
		}
	}
	rt.handlers[expr] = h
	return nil
}

// HandleFunc registers f for expr.
func (rt *Router) HandleFunc(expr string, f func(http.ResponseWriter, *http.Request)) error {
	return rt.Handle(expr, http.HandlerFunc(f))
}

// Route returns the handler and expression for path. It returns an
// *relattice.AmbiguousMatchError when several patterns are equally specific,
// and a nil handler when none matches.
func (rt *Router) Route(path string) (http.Handler, string, error) {
	m, err := rt.lattice.MatchStrings(path, true)
	if err != nil || len(m) == 0 {
		return nil, "", err
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.handlers[m[0]], m[0], nil
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, expr, err := rt.Route(r.URL.Path)

	var amb *relattice.AmbiguousMatchError
	switch {
	case errors.As(err, &amb):
		rt.logger.Warn().Str("path", r.URL.Path).Strs("patterns", amb.Expressions).Msg("ambiguous route")
		http.Error(w, amb.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	case h == nil:
		rt.logger.Debug().Str("path", r.URL.Path).Msg("no route")
		if rt.NotFound != nil {
			rt.NotFound.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	rt.logger.Debug().Str("path", r.URL.Path).Str("pattern", expr).Msg("routed")
	h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), patternKey, expr)))
}
