package domain

import (
	"fmt"
	"time"
)

// CustomerType distinguishes individuals from companies.
type CustomerType int

const (
	CustomerIndividual CustomerType = 1
	CustomerCompany    CustomerType = 2
)

// ParseCustomerType validates a numeric customer type code.
func ParseCustomerType(code int) (CustomerType, error) {
	switch CustomerType(code) {
	case CustomerIndividual, CustomerCompany:
		return CustomerType(code), nil
	}
	return 0, fmt.Errorf("%w: invalid customer type %d", ErrValidation, code)
}

func (t CustomerType) String() string {
	switch t {
	case CustomerIndividual:
		return "PESSOAFISICA"
	case CustomerCompany:
		return "PESSOAJURIDICA"
	default:
		return "UNKNOWN"
	}
}

// Address is a postal address owned by a customer.
type Address struct {
	ID         int64  `json:"id" bson:"id"`
	Street     string `json:"street" bson:"street"`
	Number     string `json:"number" bson:"number"`
	Complement string `json:"complement,omitempty" bson:"complement,omitempty"`
	District   string `json:"district" bson:"district"`
	ZipCode    string `json:"zip_code" bson:"zip_code"`
	CityID     int64  `json:"city_id" bson:"city_id"`
}

// Customer is the aggregate root for customer accounts. Addresses are persisted
// together with the customer.
type Customer struct {
	ID           int64        `json:"id" bson:"_id"`
	Name         string       `json:"name" bson:"name"`
	Email        string       `json:"email" bson:"email"`
	Document     string       `json:"document" bson:"document"`
	Type         CustomerType `json:"type" bson:"type"`
	PasswordHash string       `json:"-" bson:"password_hash"`
	Roles        []Role       `json:"roles" bson:"roles"`
	Addresses    []Address    `json:"addresses" bson:"addresses"`
	Phones       []string     `json:"phones" bson:"phones"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// Principal returns the identity this customer authenticates as.
func (c *Customer) Principal() Principal {
	return NewPrincipal(c.ID, c.Email, c.Roles...)
}
