package middleware

import "github.com/aretw0/scientist/pkg/ports"

// Middleware allows wrapping a Journal to add behavior.
type Middleware func(ports.Journal) ports.Journal

// Chain wraps journal with middlewares. The first middleware is the outermost.
func Chain(journal ports.Journal, mws ...Middleware) ports.Journal {
	for i := len(mws) - 1; i >= 0; i-- {
		journal = mws[i](journal)
	}
	return journal
}
