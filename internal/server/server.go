// Package server provides the loopback HTTP plumbing for the login flow.
//
// During login a temporary server runs on the configured localhost address,
// receives the single authorization callback, and hands the code to the auth
// session for the exchange. The handler never talks to the token endpoint
// itself: redeeming the code belongs to the session lifecycle.
package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an HTTP handler that knows its own routes.
type Handler interface {
	http.Handler
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines HTTP routing with middleware support.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}
