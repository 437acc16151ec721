package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/geo"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	seq       int
	deleteErr error
	findCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.findCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.seq)
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.UserName != nil {
		u.UserName = *upd.UserName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (*domain.User, error) {
	if r.deleteErr != nil {
		return nil, r.deleteErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return u, nil
}

// seed inserts a user directly, bypassing hashing.
func (r *stubUserRepo) seed(id, name string, role domain.Role) *domain.User {
	u := &domain.User{ID: id, UserName: name, Email: strings.ToLower(name) + "@x.io", Role: role, PasswordHash: "hash"}
	r.users[id] = u
	return cloneUser(u)
}

// ---------------------------------------------------------------------------
// In-memory cat repository
// ---------------------------------------------------------------------------

type stubCatRepo struct {
	cats       map[string]*domain.Cat
	seq        int
	cascadeErr error
	writes     int
}

func newStubCatRepo() *stubCatRepo {
	return &stubCatRepo{cats: make(map[string]*domain.Cat)}
}

func cloneCat(c *domain.Cat) *domain.Cat {
	clone := *c
	clone.Location.Coordinates = append([]float64(nil), c.Location.Coordinates...)
	return &clone
}

func (r *stubCatRepo) sorted(keep func(*domain.Cat) bool) []*domain.Cat {
	out := []*domain.Cat{}
	for _, c := range r.cats {
		if keep(c) {
			out = append(out, cloneCat(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubCatRepo) FindAll(_ context.Context) ([]*domain.Cat, error) {
	return r.sorted(func(*domain.Cat) bool { return true }), nil
}

func (r *stubCatRepo) FindByID(_ context.Context, id string) (*domain.Cat, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	return cloneCat(c), nil
}

func (r *stubCatRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Cat, error) {
	return r.sorted(func(c *domain.Cat) bool { return c.OwnerID == ownerID }), nil
}

// FindWithinPolygon mirrors the Mongo range query.
func (r *stubCatRepo) FindWithinPolygon(_ context.Context, poly geo.Polygon) ([]*domain.Cat, error) {
	return r.sorted(func(c *domain.Cat) bool {
		return poly.Contains(c.Location.Lon(), c.Location.Lat())
	}), nil
}

func (r *stubCatRepo) Create(_ context.Context, cat *domain.Cat) (*domain.Cat, error) {
	r.writes++
	r.seq++
	c := cloneCat(cat)
	c.ID = fmt.Sprintf("c%02d", r.seq)
	r.cats[c.ID] = cloneCat(c)
	return c, nil
}

func (r *stubCatRepo) Update(_ context.Context, id string, upd ports.CatUpdate) (*domain.Cat, error) {
	r.writes++
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Weight != nil {
		c.Weight = *upd.Weight
	}
	if upd.OwnerID != nil {
		c.OwnerID = *upd.OwnerID
	}
	if upd.Filename != nil {
		c.Filename = *upd.Filename
	}
	if upd.Birthdate != nil {
		c.Birthdate = *upd.Birthdate
	}
	if upd.Location != nil {
		c.Location = *upd.Location
	}
	return cloneCat(c), nil
}

func (r *stubCatRepo) Delete(_ context.Context, id string) (*domain.Cat, error) {
	r.writes++
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	delete(r.cats, id)
	return c, nil
}

func (r *stubCatRepo) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	if r.cascadeErr != nil {
		return 0, r.cascadeErr
	}
	r.writes++
	var n int64
	for id, c := range r.cats {
		if c.OwnerID == ownerID {
			delete(r.cats, id)
			n++
		}
	}
	return n, nil
}

// seed inserts a cat at lon/lat owned by ownerID.
func (r *stubCatRepo) seed(id, ownerID string, lon, lat float64) {
	r.cats[id] = &domain.Cat{ID: id, Name: "cat-" + id, Weight: 4, OwnerID: ownerID, Location: domain.NewLocation(lon, lat)}
}

// ---------------------------------------------------------------------------
// Recording cache
// ---------------------------------------------------------------------------

type stubCache struct {
	items       map[string]*domain.User
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{items: make(map[string]*domain.User)}
}

func (c *stubCache) Get(_ context.Context, id string) (*domain.User, bool) {
	u, ok := c.items[id]
	return cloneUser(u), ok
}

func (c *stubCache) Set(_ context.Context, u *domain.User) {
	c.items[u.ID] = cloneUser(u)
}

func (c *stubCache) Invalidate(_ context.Context, id string) {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
}
