package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, email, password string) (string, *domain.Customer, error)
	refreshFn func(ctx context.Context) (string, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Customer, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context) (string, error) {
	return s.refreshFn(ctx)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Customer, error) {
			if email != "a@x.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.Customer{ID: 5, Name: "Alice Souza", Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAuthorization); got != "Bearer token123" {
		t.Fatalf("unexpected Authorization header %q", got)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Customer == nil || resp.Customer.ID != 5 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("response must not expose password data")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Customer, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"bad"}`), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Customer, error) {
			t.Fatal("service must not be called")
			return "", nil, nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":`), httptest.NewRecorder())
	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"not-an-email","password":""}`), httptest.NewRecorder())
	err = handler.Login(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "email must be a valid email") || !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		refreshFn: func(ctx context.Context) (string, error) { return "fresh", nil },
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/refresh_token", nil), rec)

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(echo.HeaderAuthorization) != "Bearer fresh" {
		t.Fatalf("unexpected Authorization header %q", rec.Header().Get(echo.HeaderAuthorization))
	}
}

func TestAuthHandler_Refresh_Anonymous(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		refreshFn: func(ctx context.Context) (string, error) { return "", domain.ErrUnauthenticated },
	})

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/refresh_token", nil), httptest.NewRecorder())
	if err := handler.Refresh(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
