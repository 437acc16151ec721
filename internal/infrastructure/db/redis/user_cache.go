package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

const (
	defaultUserTTL = 5 * time.Minute
	breakerName    = "redis-user-cache"
)

// UserCache stores users by id as JSON. Redis errors never reach callers:
// they degrade to cache misses, and a circuit breaker stops hitting Redis
// while it is failing.
// Key format: user:<id>
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[[]byte]
	log    zerolog.Logger
}

var _ ports.UserCache = (*UserCache)(nil)

// cachedUser is the stored shape. It has no password field.
type cachedUser struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("cache circuit breaker state change")
		},
	})

	return &UserCache{client: client, ttl: ttl, cb: cb, log: log}
}

func (c *UserCache) Get(ctx context.Context, id string) (*domain.User, bool) {
	raw, err := c.cb.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, c.key(id)).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Str("user_id", id).Msg("user cache read failed")
		}
		return nil, false
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("dropping corrupt cache entry")
		c.Invalidate(ctx, id)
		return nil, false
	}

	return &domain.User{
		ID:        cu.ID,
		UserName:  cu.UserName,
		Email:     cu.Email,
		Role:      domain.Role(cu.Role),
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, true
}

func (c *UserCache) Set(ctx context.Context, u *domain.User) {
	raw, err := json.Marshal(cachedUser{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	if err != nil {
		return
	}

	_, err = c.cb.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, c.key(u.ID), raw, c.ttl).Err()
	})
	if err != nil {
		c.log.Debug().Err(err).Str("user_id", u.ID).Msg("user cache write failed")
	}
}

func (c *UserCache) Invalidate(ctx context.Context, id string) {
	_, err := c.cb.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, c.key(id)).Err()
	})
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}
}

// State reports the breaker state. The readiness probe shows the cache as
// degraded while it is not closed.
func (c *UserCache) State() gobreaker.State {
	return c.cb.State()
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}
