package principal

import (
	"context"
	"testing"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

func TestCurrent_Anonymous(t *testing.T) {
	if p := Current(context.Background()); p != nil {
		t.Fatalf("expected nil principal, got %+v", p)
	}
}

func TestCurrent_RoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), domain.NewPrincipal(5, "a@x.com", domain.RoleAdmin))

	p := Current(ctx)
	if p == nil {
		t.Fatal("expected principal")
	}
	if p.ID != 5 || p.Username != "a@x.com" || !p.HasRole(domain.RoleAdmin) {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	ctx := WithPrincipal(context.Background(), domain.NewPrincipal(5, "a@x.com"))

	p := Current(ctx)
	p.ID = 99

	if Current(ctx).ID != 5 {
		t.Fatal("mutating the returned principal must not affect the context")
	}
}
