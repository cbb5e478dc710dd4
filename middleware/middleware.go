package middleware

import (
	"context"

	"github.com/glimte/bossbus-go/contracts"
)

// Next invokes the remainder of the middleware chain, ending at the bus
// operation the chain was built around.
type Next func(ctx context.Context, msg contracts.Message) (any, error)

// Middleware performs actions before or after message handling. A middleware
// decides for each message whether it applies; messages it does not apply to
// are passed through untouched.
type Middleware interface {
	// Applicable reports whether this middleware acts on the message.
	Applicable(msg contracts.Message) bool

	// Handle processes the message and calls next to continue the chain.
	Handle(ctx context.Context, msg contracts.Message, next Next) (any, error)
}

// Chain composes middlewares around a terminal bus invocation. The first
// middleware is outermost: invoking the returned Next runs middlewares[0]
// first, and post-processing unwinds in reverse order.
func Chain(terminal Next, middlewares ...Middleware) Next {
	next := terminal
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw := middlewares[i]
		inner := next
		next = func(ctx context.Context, msg contracts.Message) (any, error) {
			return mw.Handle(ctx, msg, inner)
		}
	}
	return next
}
