package cache

import (
	"context"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/platform/obs"
	"delivery-analytics-service/internal/ports"
	"log/slog"
	"sort"
	"strings"
)

// CachedZoneRepository serves zone reads from a ZoneCache and falls back to
// the backing repository for misses. Cache failures are logged and ignored;
// the backing repository remains the source of truth.
type CachedZoneRepository struct {
	Repo  ports.ZoneRepository
	Cache ports.ZoneCache
}

func NewCachedZoneRepository(repo ports.ZoneRepository, cache ports.ZoneCache) *CachedZoneRepository {
	return &CachedZoneRepository{Repo: repo, Cache: cache}
}

// ListZones returns zones for postalCodes. An empty list is not cached and
// goes straight to the backing repository.
func (c *CachedZoneRepository) ListZones(ctx context.Context, postalCodes []string) (ports.ZoneScan, error) {
	codes := normalize(postalCodes)
	if len(codes) == 0 {
		return c.Repo.ListZones(ctx, nil)
	}

	cached, err := c.Cache.GetMany(ctx, codes)
	if err != nil {
		slog.WarnContext(ctx, "zone cache read failed", "error", err)
		cached = map[string]domain.Zone{}
	}

	missing := make([]string, 0, len(codes))
	zones := make([]domain.Zone, 0, len(codes))
	for _, code := range codes {
		if z, ok := cached[code]; ok {
			zones = append(zones, z)
			continue
		}
		missing = append(missing, code)
	}
	obs.ZoneCacheLookups.WithLabelValues("hit").Add(float64(len(zones)))
	obs.ZoneCacheLookups.WithLabelValues("miss").Add(float64(len(missing)))

	scan := ports.ZoneScan{}
	if len(missing) > 0 {
		fetched, err := c.Repo.ListZones(ctx, missing)
		if err != nil {
			return ports.ZoneScan{}, err
		}
		scan.Skipped = fetched.Skipped

		if err := c.Cache.PutMany(ctx, fetched.Zones); err != nil {
			slog.WarnContext(ctx, "zone cache write failed", "zones", len(fetched.Zones), "error", err)
		}
		zones = append(zones, fetched.Zones...)
	}

	sort.Slice(zones, func(i, j int) bool { return zones[i].PostalCode < zones[j].PostalCode })
	scan.Zones = zones
	return scan, nil
}

// Unique non-empty postal codes in sorted order.
func normalize(postalCodes []string) []string {
	seen := make(map[string]struct{}, len(postalCodes))
	out := make([]string, 0, len(postalCodes))
	for _, code := range postalCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
