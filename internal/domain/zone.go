package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Zone is a postal-code-bounded service area. One polygon per postal code.
// Geometry is a Polygon or MultiPolygon in WGS84 (lon, lat) order.
type Zone struct {
	PostalCode  string
	ZoneName    string
	District    string
	Subdistrict string
	Geometry    orb.Geometry
	AreaKm2     float64
}

// ValidateGeometry returns ErrInvalidGeometry unless the zone carries a
// polygonal geometry whose rings are closed, have at least four points,
// and whose vertices are all valid coordinates.
func (z Zone) ValidateGeometry() error {
	switch g := z.Geometry.(type) {
	case nil:
		return fmt.Errorf("zone %s: missing geometry: %w", z.PostalCode, ErrInvalidGeometry)
	case orb.Polygon:
		return validatePolygon(z.PostalCode, g)
	case orb.MultiPolygon:
		if len(g) == 0 {
			return fmt.Errorf("zone %s: empty multipolygon: %w", z.PostalCode, ErrInvalidGeometry)
		}
		for _, p := range g {
			if err := validatePolygon(z.PostalCode, p); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("zone %s: unsupported geometry %s: %w", z.PostalCode, g.GeoJSONType(), ErrInvalidGeometry)
	}
}

func validatePolygon(key string, p orb.Polygon) error {
	if len(p) == 0 {
		return fmt.Errorf("zone %s: empty polygon: %w", key, ErrInvalidGeometry)
	}

	for i, ring := range p {
		if len(ring) < 4 {
			return fmt.Errorf("zone %s: ring %d has %d points: %w", key, i, len(ring), ErrInvalidGeometry)
		}
		if ring[0] != ring[len(ring)-1] {
			return fmt.Errorf("zone %s: ring %d is not closed: %w", key, i, ErrInvalidGeometry)
		}
		for _, pt := range ring {
			c := Coordinates{Lon: pt.Lon(), Lat: pt.Lat()}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("zone %s: ring %d: %v: %w", key, i, err, ErrInvalidGeometry)
			}
		}
	}

	return nil
}
