package ports

import (
	"context"
	"delivery-analytics-service/internal/domain"
)

// Result of a zone read. Rows whose stored geometry could not be decoded
// are left out of Zones and counted in Skipped.
type ZoneScan struct {
	Zones   []domain.Zone
	Skipped int
}

// Port: read-only access to zone reference data.
type ZoneRepository interface {
	// Return zones for the given postal codes; an empty list returns every zone.
	ListZones(ctx context.Context, postalCodes []string) (ZoneScan, error)
}

// Port: cache of zone reference rows keyed by postal code.
// Only raw reference data is cached, never derived analytics.
type ZoneCache interface {
	GetMany(ctx context.Context, postalCodes []string) (map[string]domain.Zone, error)
	PutMany(ctx context.Context, zones []domain.Zone) error
}
