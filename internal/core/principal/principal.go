// Package principal carries the authenticated caller through a request context.
package principal

import (
	"context"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

type ctxKey struct{}

// WithPrincipal returns a copy of ctx that carries p.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Current returns the principal attached to ctx, or nil for anonymous requests.
func Current(ctx context.Context) *domain.Principal {
	p, ok := ctx.Value(ctxKey{}).(domain.Principal)
	if !ok {
		return nil
	}
	return &p
}
