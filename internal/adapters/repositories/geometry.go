package repositories

import (
	"database/sql"
	"delivery-analytics-service/internal/domain"
	"fmt"
	"math"

	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// Raw zone row as read from either backend.
type zoneRow struct {
	postalCode  string
	zoneName    string
	district    string
	subdistrict string
	geometry    sql.NullString
	areaKm2     sql.NullFloat64
}

// toZone decodes the stored GeoJSON. The area is derived from the geometry
// when the backend did not compute it.
func (r zoneRow) toZone() (domain.Zone, error) {
	z := domain.Zone{
		PostalCode:  r.postalCode,
		ZoneName:    r.zoneName,
		District:    r.district,
		Subdistrict: r.subdistrict,
	}

	if !r.geometry.Valid || r.geometry.String == "" {
		return z, fmt.Errorf("zone %s: no stored geometry: %w", r.postalCode, domain.ErrInvalidGeometry)
	}

	g, err := geojson.UnmarshalGeometry([]byte(r.geometry.String))
	if err != nil {
		return z, fmt.Errorf("zone %s: decode geometry: %v: %w", r.postalCode, err, domain.ErrInvalidGeometry)
	}
	z.Geometry = g.Geometry()

	if err := z.ValidateGeometry(); err != nil {
		return z, err
	}

	if r.areaKm2.Valid {
		z.AreaKm2 = r.areaKm2.Float64
	} else {
		z.AreaKm2 = math.Abs(geo.Area(z.Geometry)) / 1e6
	}
	return z, nil
}
