package cache

import (
	"context"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/redis/go-redis/v9"
)

const zoneKeyPrefix = "zone:"

// Cached form of a zone; the geometry is kept as GeoJSON.
type zoneEntry struct {
	PostalCode  string            `json:"postal_code"`
	ZoneName    string            `json:"zone_name"`
	District    string            `json:"district"`
	Subdistrict string            `json:"subdistrict"`
	Geometry    *geojson.Geometry `json:"geometry"`
	AreaKm2     float64           `json:"area_km2"`
}

// RedisZoneCache caches zone reference rows keyed by postal code.
// Entries expire after TTL; a zero TTL keeps them until evicted.
type RedisZoneCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisZoneCache(client *redis.Client, ttl time.Duration) *RedisZoneCache {
	return &RedisZoneCache{Client: client, TTL: ttl}
}

func zoneKey(postalCode string) string {
	return zoneKeyPrefix + postalCode
}

// Fetch cached zones for the given postal codes. Missing and unreadable
// entries are left out of the result.
func (c *RedisZoneCache) GetMany(
	ctx context.Context,
	postalCodes []string,
) (_ map[string]domain.Zone, err error) {
	defer obs.Time(ctx, "zone.cache.GetMany")(&err)

	if c.Client == nil {
		return nil, errors.New("zone cache: client is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(postalCodes))
	keys := make([]string, 0, len(postalCodes))
	for _, code := range postalCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		uniq = append(uniq, code)
		keys = append(keys, zoneKey(code))
	}

	if len(keys) == 0 {
		return map[string]domain.Zone{}, nil
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get zone cache: mget: %w", err)
	}

	out := make(map[string]domain.Zone, len(uniq))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var e zoneEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.Geometry == nil {
			slog.WarnContext(ctx, "zone cache entry unreadable", "key", keys[i], "error", err)
			continue
		}
		out[uniq[i]] = domain.Zone{
			PostalCode:  e.PostalCode,
			ZoneName:    e.ZoneName,
			District:    e.District,
			Subdistrict: e.Subdistrict,
			Geometry:    e.Geometry.Geometry(),
			AreaKm2:     e.AreaKm2,
		}
	}

	return out, nil
}

// Store zones in the cache in one pipeline.
func (c *RedisZoneCache) PutMany(ctx context.Context, zones []domain.Zone) error {
	if c.Client == nil {
		return errors.New("zone cache: client is nil")
	}

	if len(zones) == 0 {
		return nil
	}

	pipe := c.Client.Pipeline()
	for _, z := range zones {
		if strings.TrimSpace(z.PostalCode) == "" {
			return fmt.Errorf("insert zone cache: empty postal code key")
		}
		if z.Geometry == nil {
			return fmt.Errorf("insert zone cache: zone %s has no geometry", z.PostalCode)
		}

		b, err := json.Marshal(zoneEntry{
			PostalCode:  z.PostalCode,
			ZoneName:    z.ZoneName,
			District:    z.District,
			Subdistrict: z.Subdistrict,
			Geometry:    geojson.NewGeometry(z.Geometry),
			AreaKm2:     z.AreaKm2,
		})
		if err != nil {
			return fmt.Errorf("insert zone cache zone=%s: encode: %w", z.PostalCode, err)
		}
		pipe.Set(ctx, zoneKey(z.PostalCode), b, c.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert zone cache: exec pipeline: %w", err)
	}
	return nil
}
