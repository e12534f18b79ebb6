package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (WGS84, degrees).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports ErrInvalidCoordinate when latitude is outside [-90, 90],
// longitude is outside [-180, 180], or either value is NaN.
// Values are never clamped.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]: %w", c.Lat, ErrInvalidCoordinate)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]: %w", c.Lon, ErrInvalidCoordinate)
	}
	return nil
}
