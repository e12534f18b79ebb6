package services

import (
	"delivery-analytics-service/internal/domain"
	"slices"
	"strings"
	"time"
)

// BuildRoute orders one officer's events for one day into a Route.
//
// The route is the as-occurred sequence: events are sorted by timestamp, and
// events sharing a timestamp (rapid successive scans) are ordered by connote
// so the result never depends on input order. No reordering for distance is
// attempted.
//
// Events with invalid coordinates are skipped and counted in Route.Skipped.
// When no valid events remain the route is returned with NoData set.
// The caller is responsible for filtering events to one officer and one day.
func BuildRoute(events []domain.DeliveryEvent) domain.Route {
	valid := make([]domain.DeliveryEvent, 0, len(events))
	skipped := 0
	for _, ev := range events {
		if err := ev.Coordinate.Validate(); err != nil {
			skipped++
			continue
		}
		valid = append(valid, ev)
	}

	if len(valid) == 0 {
		return domain.Route{
			Stops:   []domain.RouteStop{},
			NoData:  true,
			Skipped: skipped,
		}
	}

	slices.SortStableFunc(valid, compareEvents)

	stops := make([]domain.RouteStop, len(valid))
	total := 0.0
	for i, ev := range valid {
		stop := domain.RouteStop{Event: ev}
		if i > 0 {
			prev := valid[i-1]
			stop.GapMinutes = ev.EventTimestamp.Sub(prev.EventTimestamp).Minutes()
			// Coordinates were validated above, so the unchecked form is safe.
			stop.LegKm = haversineKm(prev.Coordinate, ev.Coordinate)
		}
		total += stop.LegKm
		stop.CumulativeKm = total
		stops[i] = stop
	}

	first := valid[0]
	y, m, d := first.EventTimestamp.Date()

	return domain.Route{
		OfficerID:       first.OfficerID,
		Date:            time.Date(y, m, d, 0, 0, 0, 0, first.EventTimestamp.Location()),
		Stops:           stops,
		TotalDistanceKm: total,
		Skipped:         skipped,
	}
}

// Ascending by timestamp; ties broken by connote for a deterministic order.
func compareEvents(a, b domain.DeliveryEvent) int {
	if c := a.EventTimestamp.Compare(b.EventTimestamp); c != 0 {
		return c
	}
	return strings.Compare(a.Connote, b.Connote)
}
