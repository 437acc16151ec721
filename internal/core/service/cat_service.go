package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/geo"
	"github.com/whiskerworks/cats-api/internal/core/policy"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

const minCatNameLen = 2

type CatService struct {
	cats   ports.CatRepository
	users  ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCatService(cats ports.CatRepository, users ports.UserRepository, logger zerolog.Logger) *CatService {
	return &CatService{cats: cats, users: users, logger: logger, now: time.Now}
}

func (s *CatService) List(ctx context.Context) ([]ports.CatDetail, error) {
	cats, err := s.cats.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	return s.withOwners(ctx, cats)
}

func (s *CatService) Get(ctx context.Context, id string) (*ports.CatDetail, error) {
	cat, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cat: %w", err)
	}
	return s.detail(ctx, cat)
}

// ListMine returns the cats owned by the principal.
func (s *CatService) ListMine(ctx context.Context, p *domain.Principal) ([]ports.CatDetail, error) {
	if err := policy.Authorize(p, policy.ActionReadOwn, ""); err != nil {
		return nil, err
	}
	cats, err := s.cats.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list own cats: %w", err)
	}
	return s.withOwners(ctx, cats)
}

// ListWithinBox returns cats inside the rectangle spanned by two opposite
// corners, boundary included.
func (s *CatService) ListWithinBox(ctx context.Context, a, b geo.Coordinate) ([]ports.CatDetail, error) {
	poly, err := geo.Build(a, b)
	if err != nil {
		return nil, err
	}
	if poly.Bounds().Degenerate() {
		s.logger.Debug().Interface("bounds", poly.Bounds()).Msg("degenerate bounding box")
	}

	cats, err := s.cats.FindWithinPolygon(ctx, poly)
	if err != nil {
		return nil, fmt.Errorf("list cats in box: %w", err)
	}
	return s.withOwners(ctx, cats)
}

// Create stores a cat owned by the principal.
func (s *CatService) Create(ctx context.Context, p *domain.Principal, in ports.CreateCatInput) (*ports.CatDetail, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}

	name := strings.TrimSpace(in.Name)
	if err := validateCatName(name); err != nil {
		return nil, err
	}
	if err := validateWeight(in.Weight); err != nil {
		return nil, err
	}
	if err := validateBirthdate(in.Birthdate); err != nil {
		return nil, err
	}
	if err := (geo.Coordinate{Lat: in.Lat, Lon: in.Lon}).Validate(); err != nil {
		return nil, err
	}

	owner, err := s.requireOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.cats.Create(ctx, &domain.Cat{
		Name:      name,
		Weight:    in.Weight,
		OwnerID:   p.ID,
		Filename:  in.Filename,
		Birthdate: in.Birthdate.UTC(),
		Location:  domain.NewLocation(in.Lon, in.Lat),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("owner", p.ID).Msg("failed to create cat")
		return nil, fmt.Errorf("create cat: %w", err)
	}

	s.logger.Info().Str("cat_id", created.ID).Str("owner", p.ID).Msg("cat created")
	return &ports.CatDetail{Cat: created, Owner: owner}, nil
}

// Update applies a partial update after the owner-or-admin check.
func (s *CatService) Update(ctx context.Context, p *domain.Principal, id string, in ports.UpdateCatInput) (*ports.CatDetail, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}

	current, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update cat: %w", err)
	}
	if err := policy.Authorize(p, policy.ActionUpdate, current.OwnerID); err != nil {
		s.logger.Warn().Str("cat_id", id).Str("principal", p.ID).Msg("cat update denied")
		return nil, err
	}

	upd, err := s.buildUpdate(ctx, p, current, in)
	if err != nil {
		return nil, err
	}

	updated, err := s.cats.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update cat: %w", err)
	}

	s.logger.Info().Str("cat_id", id).Str("principal", p.ID).Bool("admin", p.IsAdmin()).Msg("cat updated")
	return s.detail(ctx, updated)
}

// Delete removes a cat after the owner-or-admin check.
func (s *CatService) Delete(ctx context.Context, p *domain.Principal, id string) (*domain.Cat, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}

	current, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete cat: %w", err)
	}
	if err := policy.Authorize(p, policy.ActionDelete, current.OwnerID); err != nil {
		s.logger.Warn().Str("cat_id", id).Str("principal", p.ID).Msg("cat delete denied")
		return nil, err
	}

	deleted, err := s.cats.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete cat: %w", err)
	}

	s.logger.Info().Str("cat_id", id).Str("principal", p.ID).Bool("admin", p.IsAdmin()).Msg("cat deleted")
	return deleted, nil
}

func (s *CatService) buildUpdate(ctx context.Context, p *domain.Principal, current *domain.Cat, in ports.UpdateCatInput) (ports.CatUpdate, error) {
	var upd ports.CatUpdate

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateCatName(name); err != nil {
			return upd, err
		}
		upd.Name = &name
	}
	if in.Weight != nil {
		if err := validateWeight(*in.Weight); err != nil {
			return upd, err
		}
		upd.Weight = in.Weight
	}
	if in.Birthdate != nil {
		if err := validateBirthdate(*in.Birthdate); err != nil {
			return upd, err
		}
		bd := in.Birthdate.UTC()
		upd.Birthdate = &bd
	}
	if in.Filename != nil {
		upd.Filename = in.Filename
	}
	if in.Lon != nil || in.Lat != nil {
		lon, lat := current.Location.Lon(), current.Location.Lat()
		if in.Lon != nil {
			lon = *in.Lon
		}
		if in.Lat != nil {
			lat = *in.Lat
		}
		if err := (geo.Coordinate{Lat: lat, Lon: lon}).Validate(); err != nil {
			return upd, err
		}
		loc := domain.NewLocation(lon, lat)
		upd.Location = &loc
	}
	if in.OwnerID != nil && *in.OwnerID != current.OwnerID {
		if err := policy.Authorize(p, policy.ActionChangeOwner, current.OwnerID); err != nil {
			return upd, err
		}
		if _, err := s.requireOwner(ctx, *in.OwnerID); err != nil {
			return upd, err
		}
		upd.OwnerID = in.OwnerID
	}

	if upd == (ports.CatUpdate{}) {
		return upd, fmt.Errorf("%w: nothing to update", domain.ErrInvalidArgument)
	}
	return upd, nil
}

// requireOwner loads the user a cat is (or will be) assigned to.
func (s *CatService) requireOwner(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: owner %s does not exist", domain.ErrInvalidArgument, id)
		}
		return nil, fmt.Errorf("load owner: %w", err)
	}
	return u, nil
}

func (s *CatService) detail(ctx context.Context, cat *domain.Cat) (*ports.CatDetail, error) {
	details, err := s.withOwners(ctx, []*domain.Cat{cat})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// withOwners joins each cat with its owner in one batched lookup. Cats whose
// owner no longer exists are returned with a nil Owner.
func (s *CatService) withOwners(ctx context.Context, cats []*domain.Cat) ([]ports.CatDetail, error) {
	out := make([]ports.CatDetail, len(cats))
	if len(cats) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(cats))
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		if _, ok := seen[c.OwnerID]; ok {
			continue
		}
		seen[c.OwnerID] = struct{}{}
		ids = append(ids, c.OwnerID)
	}

	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}
	byID := make(map[string]*domain.User, len(owners))
	for _, u := range owners {
		byID[u.ID] = u
	}

	for i, c := range cats {
		out[i] = ports.CatDetail{Cat: c, Owner: byID[c.OwnerID]}
	}
	return out, nil
}

func validateCatName(name string) error {
	if utf8.RuneCountInString(name) < minCatNameLen {
		return fmt.Errorf("%w: cat_name must be at least %d characters", domain.ErrInvalidArgument, minCatNameLen)
	}
	return nil
}

func validateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return fmt.Errorf("%w: weight must be a positive number", domain.ErrInvalidArgument)
	}
	return nil
}

func validateBirthdate(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: birthdate is required", domain.ErrInvalidArgument)
	}
	return nil
}
