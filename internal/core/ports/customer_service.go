package ports

import (
	"context"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

// NewCustomerInput carries everything needed to register a customer together
// with its first address and up to three phones.
type NewCustomerInput struct {
	Name     string
	Email    string
	Document string
	Type     int
	Password string

	Street     string
	Number     string
	Complement string
	District   string
	ZipCode    string
	CityID     int64

	Phone1 string
	Phone2 string // optional
	Phone3 string // optional
}

// UpdateCustomerInput holds the only fields that can change after registration.
type UpdateCustomerInput struct {
	Name  string
	Email string
}

// ListCustomersInput carries the raw paging parameters of the page endpoint.
// Direction is validated by the service, SortField by the repository.
type ListCustomersInput struct {
	Page      int
	Size      int
	SortField string
	Direction string
}

// CustomerService defines the customer use cases. The caller's principal is
// read from ctx.
type CustomerService interface {
	Find(ctx context.Context, id int64) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Insert(ctx context.Context, input NewCustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id int64, input UpdateCustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*domain.Customer, error)
	ListPage(ctx context.Context, input ListCustomersInput) (*domain.Page[*domain.Customer], error)
	// UploadProfilePicture normalizes the upload and stores it under the
	// caller's key, returning the storage locator.
	UploadProfilePicture(ctx context.Context, upload domain.UploadedImage) (string, error)
}
