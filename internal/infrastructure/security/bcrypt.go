package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/cursomc/commerce-api/internal/core/ports"
)

var _ ports.PasswordEncoder = (*BcryptEncoder)(nil)

// BcryptEncoder hashes passwords with bcrypt.
type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder uses bcrypt.DefaultCost when cost is out of range.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{cost: cost}
}

func (e *BcryptEncoder) Encode(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), e.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (e *BcryptEncoder) Matches(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
