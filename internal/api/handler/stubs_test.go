package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/whiskerworks/cats-api/internal/api/middleware"
	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/geo"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

// --- User service stub ---

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	listFn     func(ctx context.Context) ([]*domain.User, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
	updateFn   func(ctx context.Context, p *domain.Principal, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn   func(ctx context.Context, p *domain.Principal) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) CreateAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	panic("not used by handlers")
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateSelf(ctx context.Context, p *domain.Principal, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, p, in)
}

func (s *stubUserService) DeleteSelf(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	return s.deleteFn(ctx, p)
}

// --- Cat service stub ---

type stubCatService struct {
	listFn     func(ctx context.Context) ([]ports.CatDetail, error)
	getFn      func(ctx context.Context, id string) (*ports.CatDetail, error)
	listMineFn func(ctx context.Context, p *domain.Principal) ([]ports.CatDetail, error)
	boxFn      func(ctx context.Context, a, b geo.Coordinate) ([]ports.CatDetail, error)
	createFn   func(ctx context.Context, p *domain.Principal, in ports.CreateCatInput) (*ports.CatDetail, error)
	updateFn   func(ctx context.Context, p *domain.Principal, id string, in ports.UpdateCatInput) (*ports.CatDetail, error)
	deleteFn   func(ctx context.Context, p *domain.Principal, id string) (*domain.Cat, error)
}

func (s *stubCatService) List(ctx context.Context) ([]ports.CatDetail, error) {
	return s.listFn(ctx)
}

func (s *stubCatService) Get(ctx context.Context, id string) (*ports.CatDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatService) ListMine(ctx context.Context, p *domain.Principal) ([]ports.CatDetail, error) {
	return s.listMineFn(ctx, p)
}

func (s *stubCatService) ListWithinBox(ctx context.Context, a, b geo.Coordinate) ([]ports.CatDetail, error) {
	return s.boxFn(ctx, a, b)
}

func (s *stubCatService) Create(ctx context.Context, p *domain.Principal, in ports.CreateCatInput) (*ports.CatDetail, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubCatService) Update(ctx context.Context, p *domain.Principal, id string, in ports.UpdateCatInput) (*ports.CatDetail, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubCatService) Delete(ctx context.Context, p *domain.Principal, id string) (*domain.Cat, error) {
	return s.deleteFn(ctx, p, id)
}

// --- Request helpers ---

// fixedVerifier resolves every token to the same principal.
type fixedVerifier struct{ p *domain.Principal }

func (v fixedVerifier) Verify(string) (*domain.Principal, error) { return v.p, nil }

func newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// serveAs runs h behind the Auth middleware with p as the caller.
func serveAs(t *testing.T, c echo.Context, p *domain.Principal, h echo.HandlerFunc) error {
	t.Helper()
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer test")
	return middleware.Auth(fixedVerifier{p: p})(h)(c)
}

var (
	alice = &domain.Principal{ID: "u1", UserName: "alice", Email: "a@x.io", Role: domain.RoleUser}
	bob   = &domain.Principal{ID: "u2", UserName: "bob", Email: "b@x.io", Role: domain.RoleUser}
)

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
