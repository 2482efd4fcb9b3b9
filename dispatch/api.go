package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/coregx/relattice"
	"github.com/gorilla/mux"
)

// Match is one element of a match response.
type Match struct {
	Name       string `json:"name,omitempty"`
	Expression string `json:"expression"`
}

// MatchResponse is the body of GET /v1/match.
type MatchResponse struct {
	Text    string  `json:"text"`
	Matches []Match `json:"matches"`
	Error   string  `json:"error,omitempty"`
}

// Node is one root of GET /v1/roots with the subsets recorded for it (see
// relattice.Element.Subsets).
type Node struct {
	Expression string   `json:"expression"`
	Subsets    []string `json:"subsets"`
}

// PatternRequest is the body of POST /v1/patterns.
type PatternRequest struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// PatternResponse answers a successful POST /v1/patterns.
type PatternResponse struct {
	ID         relattice.ID `json:"id"`
	Name       string       `json:"name,omitempty"`
	Expression string       `json:"expression"`
}

// API serves a lattice over HTTP:
//
//	GET  /v1/match?text=...&strict=true   most specific matches
//	GET  /v1/roots                        roots and their subsets
//	POST /v1/patterns                     insert {"name": ..., "expr": ...}
//	GET  /route/...                       the pattern the path routes to
type API struct {
	router *Router

	mu    sync.RWMutex
	names map[string]string
}

// NewAPI returns an API over router with patterns registered in order.
func NewAPI(router *Router, patterns []Match) (*API, error) {
	a := &API{router: router, names: make(map[string]string, len(patterns))}
	for _, p := range patterns {
		if err := a.add(p.Expression, p.Name); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Handler returns the mux serving the API.
func (a *API) Handler() http.Handler {
	m := mux.NewRouter()
	m.HandleFunc("/v1/match", a.match).Methods(http.MethodGet)
	m.HandleFunc("/v1/roots", a.roots).Methods(http.MethodGet)
	m.HandleFunc("/v1/patterns", a.insert).Methods(http.MethodPost)
	m.PathPrefix("/route/").Handler(http.StripPrefix("/route", a.router)).Methods(http.MethodGet)
	return m
}

func (a *API) add(expr, name string) error {
	err := a.router.HandleFunc(expr, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Match{Name: a.name(expr), Expression: Pattern(r)})
	})
	if err != nil {
		return err
	}
	a.mu.Lock()
	if _, ok := a.names[expr]; !ok || name != "" {
		a.names[expr] = name
	}
	a.mu.Unlock()
	return nil
}

func (a *API) name(expr string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.names[expr]
}

func (a *API) matches(exprs []string) []Match {
	out := make([]Match, len(exprs))
	for i, e := range exprs {
		out[i] = Match{Name: a.name(e), Expression: e}
	}
	return out
}

func (a *API) match(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("text")
	strict := false
	if s := q.Get("strict"); s != "" {
		var err error
		if strict, err = strconv.ParseBool(s); err != nil {
			http.Error(w, "strict: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	got, err := a.router.Lattice().MatchStrings(text, strict)
	var amb *relattice.AmbiguousMatchError
	switch {
	case errors.As(err, &amb):
		writeJSON(w, http.StatusConflict, MatchResponse{Text: text, Matches: a.matches(amb.Expressions), Error: amb.Error()})
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, MatchResponse{Text: text, Matches: a.matches(got)})
	}
}

func (a *API) roots(w http.ResponseWriter, _ *http.Request) {
	var out []Node
	a.router.Lattice().View(func(l *relattice.Lattice) {
		out = make([]Node, 0, len(l.Roots()))
		for _, root := range l.Roots() {
			out = append(out, Node{Expression: root.Expression(), Subsets: relattice.Expressions(root.Subsets())})
		}
	})
	writeJSON(w, http.StatusOK, out)
}

func (a *API) insert(w http.ResponseWriter, r *http.Request) {
	var req PatternRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Expr) == "" {
		http.Error(w, "expr is required", http.StatusBadRequest)
		return
	}

	if err := a.add(req.Expr, req.Name); err != nil {
		var perr *relattice.PatternError
		var ierr *relattice.InsertError
		if errors.As(err, &perr) || errors.As(err, &ierr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	elems := a.router.Lattice().Lookup(req.Expr)
	writeJSON(w, http.StatusCreated, PatternResponse{
		ID:         elems[len(elems)-1].ID(),
		Name:       a.name(req.Expr),
		Expression: req.Expr,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	_ = enc.Encode(v)
}
