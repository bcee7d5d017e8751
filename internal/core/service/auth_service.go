package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/ports"
	"github.com/cursomc/commerce-api/internal/core/principal"
)

// AuthService implements login and token refresh.
type AuthService struct {
	repo      ports.CustomerRepository
	encoder   ports.PasswordEncoder
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.CustomerRepository, encoder ports.PasswordEncoder, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, encoder: encoder, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Customer, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	customer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.encoder.Matches(customer.PasswordHash, password) {
		s.log.Info().Int64("customer_id", customer.ID).Msg("login rejected: wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(customer.Principal())
	if err != nil {
		return "", nil, err
	}
	return token, customer, nil
}

// Refresh issues a new token for the principal already attached to ctx.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	p := principal.Current(ctx)
	if p == nil {
		return "", fmt.Errorf("refresh token: %w", domain.ErrUnauthenticated)
	}
	return s.generateToken(*p)
}

func (s *AuthService) generateToken(p domain.Principal) (string, error) {
	roles := make([]string, 0, len(p.Roles()))
	for _, r := range p.Roles() {
		roles = append(roles, string(r))
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(p.ID, 10),
		"username": p.Username,
		"roles":    roles,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
