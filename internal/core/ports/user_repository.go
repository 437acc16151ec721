package ports

import (
	"context"

	"github.com/whiskerworks/cats-api/internal/core/domain"
)

// UserUpdate carries the fields a user may change. Nil fields are left as is.
type UserUpdate struct {
	UserName     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.UserName == nil && u.Email == nil && u.PasswordHash == nil
}

// UserRepository defines persistence operations for user accounts.
// Lookups of unknown or malformed ids return domain.ErrUserNotFound.
type UserRepository interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}

// UserCache is a read-through cache in front of UserRepository.FindByID.
// Cached users never carry a password hash.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, id string)
}
