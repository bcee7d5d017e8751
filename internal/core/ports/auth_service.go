package ports

import (
	"context"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Customer, error)
	// Refresh issues a fresh token for the principal attached to ctx.
	Refresh(ctx context.Context) (string, error)
}
