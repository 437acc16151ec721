package ports

import (
	"context"
	"time"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/geo"
)

// CreateCatInput carries all data needed to create a cat for the caller.
type CreateCatInput struct {
	Name      string
	Weight    float64
	Filename  string
	Birthdate time.Time
	Lon       float64
	Lat       float64
}

// UpdateCatInput carries a partial cat update. Nil fields are unchanged.
type UpdateCatInput struct {
	Name      *string
	Weight    *float64
	OwnerID   *string
	Filename  *string
	Birthdate *time.Time
	Lon       *float64
	Lat       *float64
}

// CatDetail is a cat with its owner joined when the owner still exists.
type CatDetail struct {
	Cat   *domain.Cat
	Owner *domain.User
}

// CatService defines use-case operations for cats.
type CatService interface {
	List(ctx context.Context) ([]CatDetail, error)
	Get(ctx context.Context, id string) (*CatDetail, error)
	ListMine(ctx context.Context, p *domain.Principal) ([]CatDetail, error)
	ListWithinBox(ctx context.Context, a, b geo.Coordinate) ([]CatDetail, error)
	Create(ctx context.Context, p *domain.Principal, in CreateCatInput) (*CatDetail, error)
	Update(ctx context.Context, p *domain.Principal, id string, in UpdateCatInput) (*CatDetail, error)
	Delete(ctx context.Context, p *domain.Principal, id string) (*domain.Cat, error)
}
