package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/cookie"
	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/middleware"
)

func withToken(r *http.Request, token string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.CustomerTokenContextKey, token)
	return r.WithContext(ctx)
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.TokenCookieName {
			return c
		}
	}
	return nil
}

func TestAuthRegister(t *testing.T) {
	client := commerce.NewMockClient()
	h := NewAuthHandler(client, cookie.NewConfig("", false), nil)

	body := strings.NewReader(`{
		"email": "ada@example.com",
		"password": "correct-horse-battery",
		"first_name": "Ada",
		"last_name": "Lovelace"
	}`)
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	set := tokenCookie(rec)
	if set == nil {
		t.Fatal("expected auth token cookie")
	}
	if !set.HttpOnly {
		t.Error("token cookie must be http-only")
	}
	if !strings.Contains(rec.Body.String(), "ada@example.com") {
		t.Error("expected customer in response")
	}

	// Registering the same email again conflicts.
	body = strings.NewReader(`{
		"email": "ada@example.com",
		"password": "correct-horse-battery",
		"first_name": "Ada",
		"last_name": "Lovelace"
	}`)
	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != domain.ECONFLICT {
		t.Errorf("code = %q, want %q", code, domain.ECONFLICT)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	client := commerce.NewMockClient()
	h := NewAuthHandler(client, cookie.NewConfig("", false), nil)

	tests := []struct {
		name string
		body string
	}{
		{"short password", `{"email":"a@b.com","password":"short","first_name":"A","last_name":"B"}`},
		{"bad email", `{"email":"not-an-email","password":"long-enough-pass","first_name":"A","last_name":"B"}`},
		{"missing name", `{"email":"a@b.com","password":"long-enough-pass"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if tokenCookie(rec) != nil {
				t.Error("no cookie should be set on validation failure")
			}
		})
	}
}

func TestAuthLogin(t *testing.T) {
	client := commerce.NewMockClient()
	h := NewAuthHandler(client, cookie.NewConfig("", false), nil)

	body := strings.NewReader(`{"email":"ada@example.com","password":"correct-horse-battery"}`)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if tokenCookie(rec) == nil {
		t.Fatal("expected auth token cookie")
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	client := commerce.NewMockClient()
	client.LoginCustomerFunc = func(ctx context.Context, email, password string) (string, error) {
		return "", domain.ErrInvalidCredentials
	}
	h := NewAuthHandler(client, cookie.NewConfig("", false), nil)

	body := strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code := errorCode(t, rec); code != domain.EUNAUTHORIZED {
		t.Errorf("code = %q, want %q", code, domain.EUNAUTHORIZED)
	}
	if tokenCookie(rec) != nil {
		t.Error("no cookie should be set on failed login")
	}
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	client := commerce.NewMockClient()
	h := NewAuthHandler(client, cookie.NewConfig("", false), nil)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	set := tokenCookie(rec)
	if set == nil || set.MaxAge >= 0 {
		t.Fatal("logout should clear the token cookie")
	}
}

func TestAuthMe(t *testing.T) {
	client := commerce.NewMockClient()
	h := NewAuthHandler(client, cookie.NewConfig("", false), nil)

	req := withToken(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "tok_abc")
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "shopper@example.com") {
		t.Error("expected customer in response")
	}
}

func TestAuthMeExpiredTokenClearsCookie(t *testing.T) {
	client := commerce.NewMockClient()
	client.RetrieveCustomerFunc = func(ctx context.Context, token string) (*domain.Customer, error) {
		return nil, domain.ErrNotAuthenticated
	}
	h := NewAuthHandler(client, cookie.NewConfig("", false), nil)

	req := withToken(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "tok_expired")
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	set := tokenCookie(rec)
	if set == nil || set.MaxAge >= 0 {
		t.Error("dead token cookie should be cleared")
	}
}
