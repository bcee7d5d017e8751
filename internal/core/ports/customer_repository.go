package ports

import (
	"context"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	// FindByID returns domain.ErrCustomerNotFound when no customer has the id.
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	// FindByEmail returns domain.ErrCustomerNotFound when no customer has the email.
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// Create persists the customer and its addresses as a single unit of work
	// and returns the stored record with identifiers assigned.
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	// Update stores the mutable fields (name, email) of an existing customer.
	Update(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	// DeleteByID fails with domain.ErrIntegrityViolation while orders still
	// reference the customer.
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]*domain.Customer, error)
	// FindPage applies the request's sort field and direction as given; an
	// unknown sort field fails with domain.ErrInvalidSortField.
	FindPage(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Customer], error)
}
