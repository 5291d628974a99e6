// Package npmtest runs an in-memory npm registry for tests.
package npmtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Registry is a fake npm registry serving fixed packuments.
type Registry struct {
	*httptest.Server

	// Token, when set, is required as a bearer token on every request.
	Token string

	mu       sync.Mutex
	docs     map[string]any
	requests map[string]int
	authSeen map[string]string
	rawPaths []string
}

// New starts a registry serving docs (package name to packument) and closes
// it when the test ends.
func New(t testing.TB, docs map[string]any) *Registry {
	t.Helper()
	r := &Registry{
		docs:     docs,
		requests: make(map[string]int),
		authSeen: make(map[string]string),
	}

	router := chi.NewRouter()
	router.Get("/{name}", r.serve)
	router.Get("/{scope}/{name}", r.serveScoped)
	r.Server = httptest.NewServer(router)
	t.Cleanup(r.Server.Close)
	return r
}

func (r *Registry) serve(w http.ResponseWriter, req *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(req, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.respond(w, req, name)
}

// serveScoped answers "/@scope/name", which clients send when they forget
// to encode the slash. Real registries reject it, so this does too.
func (r *Registry) serveScoped(w http.ResponseWriter, req *http.Request) {
	r.record(req, chi.URLParam(req, "scope")+"/"+chi.URLParam(req, "name"))
	http.Error(w, "unencoded scoped name", http.StatusBadRequest)
}

func (r *Registry) respond(w http.ResponseWriter, req *http.Request, name string) {
	r.record(req, name)

	if r.Token != "" && req.Header.Get("Authorization") != "Bearer "+r.Token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	r.mu.Lock()
	doc, ok := r.docs[name]
	r.mu.Unlock()
	if !ok {
		http.Error(w, `{"error":"Not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func (r *Registry) record(req *http.Request, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[name]++
	r.authSeen[name] = req.Header.Get("Authorization")
	r.rawPaths = append(r.rawPaths, req.URL.EscapedPath())
}

// Requests returns how often name was requested.
func (r *Registry) Requests(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[name]
}

// Authorization returns the Authorization header of the last request for name.
func (r *Registry) Authorization(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authSeen[name]
}

// Paths returns the escaped request paths in arrival order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.rawPaths...)
}

// BaseURL returns the registry base URL with a trailing slash, as package
// managers write it.
func (r *Registry) BaseURL() string {
	return strings.TrimSuffix(r.Server.URL, "/") + "/"
}

// Packument builds a minimal registry document.
func Packument(name, latest string, deps map[string]string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "The " + name + " package",
		"dist-tags":   map[string]string{"latest": latest},
		"versions": map[string]any{
			latest: map[string]any{"dependencies": deps},
		},
		"time": map[string]string{
			"created":  "2015-01-01T00:00:00.000Z",
			"modified": "2024-06-01T12:00:00.000Z",
		},
		"maintainers": []map[string]string{{"name": "someone"}},
	}
}
