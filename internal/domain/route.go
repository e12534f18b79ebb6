package domain

import "time"

// Represents a single stop in an as-occurred delivery route.
// GapMinutes is the time since the previous stop (0 for the first stop),
// LegKm the great-circle distance from the previous stop.
type RouteStop struct {
	Event        DeliveryEvent
	GapMinutes   float64
	LegKm        float64
	CumulativeKm float64
}

// Represents the time-ordered sequence of one officer's delivery events for one day.
// A Route is derived data: it is recomputed per request and never persisted or
// mutated in place.
//
// NoData distinguishes "nothing happened" from a route that was built from
// events. When NoData is set TotalDistanceKm carries no meaning; use Distance.
type Route struct {
	OfficerID       string
	Date            time.Time
	Stops           []RouteStop
	TotalDistanceKm float64
	NoData          bool
	// Skipped counts input events dropped for invalid coordinates.
	Skipped int
}

// Distance returns the total route distance and false when the route has no data.
func (r Route) Distance() (float64, bool) {
	if r.NoData {
		return 0, false
	}
	return r.TotalDistanceKm, true
}

// GapMinutes returns the per-stop gaps in route order.
func (r Route) GapMinutes() []float64 {
	out := make([]float64, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.GapMinutes)
	}
	return out
}

// Events returns the events that made it onto the route, in route order.
// Skipped events are not included.
func (r Route) Events() []DeliveryEvent {
	out := make([]DeliveryEvent, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.Event)
	}
	return out
}

// Coordinates returns the stop coordinates in route order.
func (r Route) Coordinates() []Coordinates {
	out := make([]Coordinates, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.Event.Coordinate)
	}
	return out
}

// Duration is the elapsed time between the first and the last stop.
func (r Route) Duration() time.Duration {
	if len(r.Stops) < 2 {
		return 0
	}
	return r.Stops[len(r.Stops)-1].Event.EventTimestamp.Sub(r.Stops[0].Event.EventTimestamp)
}
