// Package handlers is the HTTP surface of the origination backend: the route
// gate, the auth endpoints, the public catalog, and the account/back-office
// areas.
package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"lendgate/internal/auth"
	"lendgate/internal/docs"
	"lendgate/internal/store"
)

// Options wires dependencies and runtime behaviour into the HTTP layer.
type Options struct {
	Service *auth.Service
	Store   *store.Store
	Gate    *auth.Gate

	// Docs is optional; document endpoints respond 503 when unset.
	Docs *docs.Store

	AllowedOrigins []string
	CookieDomain   string
	CookieSecure   bool

	// Trace optionally wraps the router with the otel handler.
	Trace func(http.Handler) http.Handler

	Log zerolog.Logger
}

// API holds the handler dependencies.
type API struct {
	svc  *auth.Service
	db   *store.Store
	gate *auth.Gate
	docs *docs.Store
	opts Options
	log  zerolog.Logger
}

// New validates options and builds the API layer.
func New(opts Options) (*API, error) {
	if opts.Service == nil {
		return nil, errors.New("handlers: auth service is required")
	}
	if opts.Store == nil {
		return nil, errors.New("handlers: store is required")
	}
	if opts.Gate == nil {
		opts.Gate = auth.NewGate("")
	}

	return &API{
		svc:  opts.Service,
		db:   opts.Store,
		gate: opts.Gate,
		docs: opts.Docs,
		opts: opts,
		log:  opts.Log,
	}, nil
}
