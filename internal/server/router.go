package server

import (
	"net/http"
	"slices"
	"strings"
)

// Mux implements [Router] on top of [http.ServeMux] method patterns.
//
// Middleware wraps each registered route. Requests the mux rejects itself (404, 405) bypass it.
type Mux struct {
	mux         *http.ServeMux
	middlewares []Middleware
	routes      []string
}

// NewMux creates an empty [Mux].
func NewMux() *Mux {
	return &Mux{mux: http.NewServeMux()}
}

// Use appends middleware. The first one added is the outermost.
func (m *Mux) Use(middleware ...Middleware) {
	m.middlewares = append(m.middlewares, middleware...)
}

// Handle registers handler for method on path.
//
// Other methods on the same path get 405 with an Allow header. GET also answers HEAD.
func (m *Mux) Handle(method, path string, handler http.Handler) {
	pattern := strings.ToUpper(method) + " " + path
	m.mux.Handle(pattern, m.Apply(handler))
	m.routes = append(m.routes, pattern)
}

// Handler registers handler on every path it reports, for all methods.
func (m *Mux) Handler(handler Handler) {
	wrapped := m.Apply(handler)
	for _, route := range handler.Routes() {
		m.mux.Handle(route, wrapped)
		m.routes = append(m.routes, route)
	}
}

// Routes returns the registered patterns in registration order.
func (m *Mux) Routes() []string {
	return slices.Clone(m.routes)
}

func (m *Mux) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.mux.ServeHTTP(w, req)
}

// Apply wraps handler with the registered middleware.
func (m *Mux) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for _, mw := range slices.Backward(m.middlewares) {
		wrapped = mw(wrapped)
	}
	return wrapped
}
