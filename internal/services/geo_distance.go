package services

import (
	"delivery-analytics-service/internal/domain"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between a and b.
// Out-of-range coordinates are a caller error and are reported, not clamped.
func DistanceKm(a, b domain.Coordinates) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("distance: origin: %w", err)
	}
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("distance: destination: %w", err)
	}

	return haversineKm(a, b), nil
}

func haversineKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h marginally above 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}
