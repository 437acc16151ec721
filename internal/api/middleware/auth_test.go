package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/service"
)

func run(t *testing.T, verifier *service.TokenManager, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Auth(verifier)(next)(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, err
}

func mustNotCall(t *testing.T) echo.HandlerFunc {
	return func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	signed, err := tokens.Issue(&domain.User{ID: "u1", UserName: "alice", Email: "a@x.io", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	called := false
	rec, err := run(t, tokens, "Bearer "+signed, func(c echo.Context) error {
		called = true
		p, ok := Principal(c)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.ID != "u1" || p.UserName != "alice" || p.Role != domain.RoleAdmin {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	signed, _ := tokens.Issue(&domain.User{ID: "u1", Role: domain.RoleUser})

	rec, err := run(t, tokens, "bearer "+signed, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	other, _ := service.NewTokenManager("other", time.Hour).Issue(&domain.User{ID: "u1", Role: domain.RoleUser})

	headers := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"no token":       "Bearer ",
		"garbage":        "Bearer not-a-token",
		"wrong secret":   "Bearer " + other,
	}
	for name, header := range headers {
		rec, _ := run(t, tokens, header, mustNotCall(t))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestAuthMiddleware_MissingSecretIsNotAClientError(t *testing.T) {
	_, err := run(t, service.NewTokenManager("", time.Hour), "Bearer abc", mustNotCall(t))

	if !errors.Is(err, domain.ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret to propagate, got %v", err)
	}
}

func TestPrincipal_Absent(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, ok := Principal(c); ok {
		t.Fatalf("expected no principal")
	}
}
