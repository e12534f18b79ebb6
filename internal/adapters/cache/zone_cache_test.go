package cache

import (
	"context"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/ports"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisZoneCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisZoneCache(client, ttl), mr
}

func testZone(code string) domain.Zone {
	return domain.Zone{
		PostalCode:  code,
		ZoneName:    "Braga",
		District:    "Sumur Bandung",
		Subdistrict: "Braga",
		Geometry: orb.Polygon{orb.Ring{
			{107.60, -6.92}, {107.62, -6.92}, {107.62, -6.90}, {107.60, -6.90}, {107.60, -6.92},
		}},
		AreaKm2: 4.9,
	}
}

type countingZoneRepo struct {
	zones map[string]domain.Zone
	calls [][]string
	err   error
}

func (r *countingZoneRepo) ListZones(ctx context.Context, postalCodes []string) (ports.ZoneScan, error) {
	r.calls = append(r.calls, postalCodes)
	if r.err != nil {
		return ports.ZoneScan{}, r.err
	}
	scan := ports.ZoneScan{Zones: []domain.Zone{}}
	for _, code := range postalCodes {
		if z, ok := r.zones[code]; ok {
			scan.Zones = append(scan.Zones, z)
		}
	}
	return scan, nil
}

func TestRedisZoneCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 10*time.Minute)

	require.NoError(t, c.PutMany(ctx, []domain.Zone{testZone("40111"), testZone("40112")}))

	got, err := c.GetMany(ctx, []string{"40111", " 40111 ", "40113", ""})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, testZone("40111"), got["40111"])

	assert.True(t, mr.Exists("zone:40112"))
	assert.Equal(t, 10*time.Minute, mr.TTL("zone:40111"))
}

func TestRedisZoneCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, c.PutMany(ctx, []domain.Zone{testZone("40111")}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, []string{"40111"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisZoneCacheIgnoresUnreadableEntries(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, mr.Set("zone:40111", "{not json"))

	got, err := c.GetMany(ctx, []string{"40111"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisZoneCacheRejectsZoneWithoutGeometry(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	z := testZone("40111")
	z.Geometry = nil
	assert.Error(t, c.PutMany(context.Background(), []domain.Zone{z}))
}

func TestCachedZoneRepositoryFillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	repo := &countingZoneRepo{zones: map[string]domain.Zone{
		"40111": testZone("40111"),
		"40112": testZone("40112"),
	}}
	cached := NewCachedZoneRepository(repo, c)

	scan, err := cached.ListZones(ctx, []string{"40112", "40111"})
	require.NoError(t, err)
	require.Len(t, scan.Zones, 2)
	assert.Equal(t, "40111", scan.Zones[0].PostalCode)
	assert.True(t, mr.Exists("zone:40111"))

	scan, err = cached.ListZones(ctx, []string{"40111", "40112", "40113"})
	require.NoError(t, err)
	assert.Len(t, scan.Zones, 2)

	require.Len(t, repo.calls, 2)
	assert.True(t, slices.Equal(repo.calls[1], []string{"40113"}), "only the miss goes to the repository, got %v", repo.calls[1])
}

func TestCachedZoneRepositorySurvivesCacheOutage(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	repo := &countingZoneRepo{zones: map[string]domain.Zone{"40111": testZone("40111")}}
	cached := NewCachedZoneRepository(repo, c)

	mr.Close()

	scan, err := cached.ListZones(ctx, []string{"40111"})
	require.NoError(t, err)
	assert.Len(t, scan.Zones, 1)
}

func TestCachedZoneRepositoryPropagatesRepositoryErrors(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	boom := errors.New("db down")
	cached := NewCachedZoneRepository(&countingZoneRepo{err: boom}, c)

	_, err := cached.ListZones(context.Background(), []string{"40111"})
	assert.ErrorIs(t, err, boom)
}

func TestCachedZoneRepositoryEmptyListBypassesCache(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	repo := &countingZoneRepo{zones: map[string]domain.Zone{}}
	cached := NewCachedZoneRepository(repo, c)

	_, err := cached.ListZones(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, repo.calls, 1)
	assert.Nil(t, repo.calls[0])
}
