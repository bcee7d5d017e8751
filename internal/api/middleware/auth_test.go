package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/principal"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth("secret")(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	signed := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":      "5",
		"username": "a@x.com",
		"roles":    []string{"REGULAR", "ADMIN"},
	})

	called := false
	rec := runAuth(t, "Bearer "+signed, func(c echo.Context) error {
		called = true
		p := principal.Current(c.Request().Context())
		if p == nil {
			t.Fatalf("principal not set")
		}
		if p.ID != 5 || p.Username != "a@x.com" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		if !p.HasRole(domain.RoleAdmin) || !p.HasRole(domain.RoleRegular) {
			t.Fatalf("roles not set: %v", p.Roles())
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeaderIsAnonymous(t *testing.T) {
	called := false
	rec := runAuth(t, "", func(c echo.Context) error {
		called = true
		if principal.Current(c.Request().Context()) != nil {
			t.Fatalf("expected anonymous request")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("anonymous requests must reach the handler, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := map[string]string{
		"invalid header format": "Token abc",
		"garbage token":         "Bearer not-a-jwt",
		"wrong secret": "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
			"sub": "5", "username": "a@x.com",
		}),
		"wrong algorithm": "Bearer " + signToken(t, jwt.SigningMethodHS384, []byte("secret"), jwt.MapClaims{
			"sub": "5", "username": "a@x.com",
		}),
		"missing subject": "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
			"username": "a@x.com",
		}),
		"non-numeric subject": "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
			"sub": "alice", "username": "a@x.com",
		}),
		"expired": "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
			"sub": "5", "username": "a@x.com", "exp": 1,
		}),
	}

	for name, header := range cases {
		rec := runAuth(t, header, func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", name)
			return nil
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestPrincipalFromClaims_IgnoresUnknownRoles(t *testing.T) {
	p, ok := principalFromClaims(jwt.MapClaims{
		"sub":      "9",
		"username": "x@x.com",
		"roles":    []interface{}{"ROLE_CLIENTE", "SUPERUSER", 42},
	})
	if !ok {
		t.Fatal("expected claims to be accepted")
	}
	roles := p.Roles()
	if len(roles) != 1 || roles[0] != domain.RoleRegular {
		t.Fatalf("unexpected roles: %v", roles)
	}
}
