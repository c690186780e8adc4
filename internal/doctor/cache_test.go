package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ayursutra-backend/pkg/logging"
)

type countingRepository struct {
	*InMemoryRepository
	listCalls int
	listErr   error
}

func (c *countingRepository) List(ctx context.Context) ([]Doctor, error) {
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.InMemoryRepository.List(ctx)
}

func newCachedFixture(t *testing.T) (*CachedRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingRepository{InMemoryRepository: NewInMemoryRepository(
		Doctor{ID: "d1", Name: "Dr. Mehta", Specialty: "Skin Care", Therapy: "Panchakarma"},
	)}
	return NewCachedRepository(inner, client, time.Minute, logging.Discard()), inner, mr
}

func TestCachedRepository_ListCachesRoster(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.listCalls)
	assert.True(t, mr.Exists(RosterCacheKey))
	assert.Equal(t, time.Minute, mr.TTL(RosterCacheKey))
}

func TestCachedRepository_CreateInvalidates(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	_, err := repo.List(ctx)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &CreateDoctorRequest{Name: "Dr. Rao", Specialty: "Joint Pain", Therapy: "Abhyanga"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(RosterCacheKey))

	doctors, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, doctors, 2)
	assert.Equal(t, 2, inner.listCalls)
}

func TestCachedRepository_CorruptEntryIsRefreshed(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	require.NoError(t, mr.Set(RosterCacheKey, "{not json"))

	doctors, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, doctors, 1)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedRepository_RedisDownFallsThrough(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	mr.Close()

	doctors, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, doctors, 1)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedRepository_StoreErrorPropagates(t *testing.T) {
	repo, inner, _ := newCachedFixture(t)
	inner.listErr = errors.New("db down")

	_, err := repo.List(context.Background())

	assert.EqualError(t, err, "db down")
}
