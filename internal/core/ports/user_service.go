package ports

import (
	"context"

	"github.com/whiskerworks/cats-api/internal/core/domain"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	UserName string
	Email    string
	Password string
}

// UpdateUserInput carries a self-update. Empty strings mean "unchanged".
type UpdateUserInput struct {
	UserName string
	Email    string
	Password string
}

// LoginResult is a signed token plus the account it was issued for.
type LoginResult struct {
	Token string
	User  *domain.User
}

// UserService defines use-case operations for accounts.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// CreateAdmin bypasses registration and stores an admin account.
	CreateAdmin(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateSelf(ctx context.Context, p *domain.Principal, in UpdateUserInput) (*domain.User, error)
	// DeleteSelf removes every cat the principal owns, then the account.
	DeleteSelf(ctx context.Context, p *domain.Principal) (*domain.User, error)
}

// TokenVerifier turns a raw bearer token into a principal.
type TokenVerifier interface {
	Verify(raw string) (*domain.Principal, error)
}
