package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/policy"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

const (
	minUserNameLen = 2
	minEmailLen    = 5
	minPasswordLen = 8
)

// UserService implements registration, login and self-service account
// management.
type UserService struct {
	users    ports.UserRepository
	cats     ports.CatRepository
	cache    ports.UserCache
	tokens   *TokenManager
	log      zerolog.Logger
	hashCost int
}

// NewUserService wires the account use cases. cache may be nil.
func NewUserService(
	users ports.UserRepository,
	cats ports.CatRepository,
	cache ports.UserCache,
	tokens *TokenManager,
	log zerolog.Logger,
) *UserService {
	if cache == nil {
		cache = noopCache{}
	}
	return &UserService{
		users:    users,
		cats:     cats,
		cache:    cache,
		tokens:   tokens,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleUser)
}

func (s *UserService) CreateAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	name := strings.TrimSpace(in.UserName)
	email := normalizeEmail(in.Email)
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		UserName:     name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user created")
	return created, nil
}

// Login verifies the password and issues a session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get reads through the cache.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := s.cache.Get(ctx, id); ok {
		return u, nil
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	s.cache.Set(ctx, u)
	return u, nil
}

// UpdateSelf changes the principal's own account. Role is not updatable.
func (s *UserService) UpdateSelf(ctx context.Context, p *domain.Principal, in ports.UpdateUserInput) (*domain.User, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := policy.Authorize(p, policy.ActionUpdate, p.ID); err != nil {
		return nil, err
	}

	var upd ports.UserUpdate
	if name := strings.TrimSpace(in.UserName); name != "" {
		if err := validateUserName(name); err != nil {
			return nil, err
		}
		upd.UserName = &name
	}
	if email := normalizeEmail(in.Email); email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		upd.Email = &email
	}
	if in.Password != "" {
		hash, err := s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidArgument)
	}

	updated, err := s.users.Update(ctx, p.ID, upd)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.cache.Invalidate(ctx, p.ID)

	s.log.Info().Str("user_id", p.ID).Msg("user updated")
	return updated, nil
}

// DeleteSelf deletes the principal's cats first and the account only once
// that succeeded. A failure after the cascade leaves an account with no cats.
func (s *UserService) DeleteSelf(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := policy.Authorize(p, policy.ActionDelete, p.ID); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	removed, err := s.cats.DeleteAllByOwner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("delete user: cascade: %w", err)
	}

	deleted, err := s.users.Delete(ctx, p.ID)
	if err != nil {
		s.log.Error().Err(err).
			Str("user_id", p.ID).
			Int64("cats_removed", removed).
			Msg("user delete failed after cascade")
		return nil, fmt.Errorf("delete user: %w", err)
	}
	s.cache.Invalidate(ctx, p.ID)

	s.log.Info().Str("user_id", p.ID).Int64("cats_removed", removed).Msg("user deleted")
	return deleted, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUserName(name string) error {
	if utf8.RuneCountInString(name) < minUserNameLen {
		return fmt.Errorf("%w: user_name must be at least %d characters", domain.ErrInvalidArgument, minUserNameLen)
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) < minEmailLen {
		return fmt.Errorf("%w: email must be at least %d characters", domain.ErrInvalidArgument, minEmailLen)
	}
	// ParseAddress also accepts "Name <addr>"; only a bare address is stored.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrInvalidArgument)
	}
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.User, bool) { return nil, false }
func (noopCache) Set(context.Context, *domain.User)                {}
func (noopCache) Invalidate(context.Context, string)               {}
