package ports

import (
	"context"
	"time"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/geo"
)

// CatUpdate carries the fields to change on a cat. Nil fields are left as is.
type CatUpdate struct {
	Name      *string
	Weight    *float64
	OwnerID   *string
	Filename  *string
	Birthdate *time.Time
	Location  *domain.Location
}

// CatRepository defines persistence operations for cats. Every method is a
// single-document operation except DeleteAllByOwner.
// Lookups of unknown or malformed ids return domain.ErrCatNotFound.
type CatRepository interface {
	FindAll(ctx context.Context) ([]*domain.Cat, error)
	FindByID(ctx context.Context, id string) (*domain.Cat, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Cat, error)
	// FindWithinPolygon returns cats whose location lies inside the polygon
	// or on its boundary.
	FindWithinPolygon(ctx context.Context, poly geo.Polygon) ([]*domain.Cat, error)
	Create(ctx context.Context, cat *domain.Cat) (*domain.Cat, error)
	Update(ctx context.Context, id string, update CatUpdate) (*domain.Cat, error)
	Delete(ctx context.Context, id string) (*domain.Cat, error)
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}
