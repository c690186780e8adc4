package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ayursutra-backend/pkg/logging"
)

// RosterCacheKey holds the JSON encoded roster snapshot.
const RosterCacheKey = "doctors:roster"

// CachedRepository serves List from a redis snapshot and falls through to the
// wrapped repository on a miss or any redis failure.
type CachedRepository struct {
	next   Repository
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedRepository wraps next with a redis roster cache.
func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{next: next, redis: client, ttl: ttl, logger: logger}
}

// List returns the cached roster, refreshing it from the store on a miss.
func (c *CachedRepository) List(ctx context.Context) ([]Doctor, error) {
	raw, err := c.redis.Get(ctx, RosterCacheKey).Bytes()
	switch {
	case err == nil:
		var doctors []Doctor
		jsonErr := json.Unmarshal(raw, &doctors)
		if jsonErr == nil {
			return doctors, nil
		}
		c.logger.Warn("roster cache corrupt", "error", jsonErr)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("roster cache read failed", "error", err)
	}

	doctors, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doctors)
	if err == nil {
		err = c.redis.Set(ctx, RosterCacheKey, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("roster cache write failed", "error", err)
	}
	return doctors, nil
}

// Create stores the doctor and drops the cached roster.
func (c *CachedRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	d, err := c.next.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx)
	return d, nil
}

// GetByID is not cached.
func (c *CachedRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return c.next.GetByID(ctx, id)
}

// Invalidate removes the roster snapshot.
func (c *CachedRepository) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, RosterCacheKey).Err(); err != nil {
		c.logger.Warn("roster cache invalidate failed", "error", err)
	}
}
