package handler

import (
	"time"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type newCustomerRequest struct {
	Name     string `json:"name"     validate:"required,min=5,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Document string `json:"document" validate:"required,numeric,min=11,max=14"`
	Type     int    `json:"type"     validate:"required,oneof=1 2"`
	Password string `json:"password" validate:"required"`

	Street     string `json:"street"     validate:"required"`
	Number     string `json:"number"     validate:"required"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	ZipCode    string `json:"zip_code"   validate:"required"`
	CityID     int64  `json:"city_id"    validate:"required,gt=0"`

	Phone1 string `json:"phone1" validate:"required"`
	Phone2 string `json:"phone2"`
	Phone3 string `json:"phone3"`
}

type updateCustomerRequest struct {
	Name  string `json:"name"  validate:"required,min=5,max=120"`
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

type addressResponse struct {
	ID         int64  `json:"id"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	ZipCode    string `json:"zip_code"`
	CityID     int64  `json:"city_id"`
}

type customerResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Document  string            `json:"document"`
	Type      int               `json:"type"`
	Roles     []string          `json:"roles"`
	Addresses []addressResponse `json:"addresses"`
	Phones    []string          `json:"phones"`
	CreatedAt time.Time         `json:"created_at"`
}

// customerSummary is the listing shape: no addresses, phones or document.
type customerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type customerPageResponse struct {
	Content       []customerSummary `json:"content"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
}

type tokenResponse struct {
	Token    string           `json:"token"`
	Customer *customerSummary `json:"customer,omitempty"`
}

// --- Mappers ---

func toCustomerResponse(c *domain.Customer) customerResponse {
	roles := make([]string, len(c.Roles))
	for i, r := range c.Roles {
		roles[i] = string(r)
	}
	addresses := make([]addressResponse, len(c.Addresses))
	for i, a := range c.Addresses {
		addresses[i] = addressResponse{
			ID:         a.ID,
			Street:     a.Street,
			Number:     a.Number,
			Complement: a.Complement,
			District:   a.District,
			ZipCode:    a.ZipCode,
			CityID:     a.CityID,
		}
	}
	phones := c.Phones
	if phones == nil {
		phones = []string{}
	}
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Document:  c.Document,
		Type:      int(c.Type),
		Roles:     roles,
		Addresses: addresses,
		Phones:    phones,
		CreatedAt: c.CreatedAt,
	}
}

func toCustomerSummary(c *domain.Customer) customerSummary {
	return customerSummary{ID: c.ID, Name: c.Name, Email: c.Email}
}

func toCustomerSummaries(cs []*domain.Customer) []customerSummary {
	out := make([]customerSummary, len(cs))
	for i, c := range cs {
		out[i] = toCustomerSummary(c)
	}
	return out
}
