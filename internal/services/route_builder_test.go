package services

import (
	"delivery-analytics-service/internal/domain"
	"math"
	"testing"
	"time"
)

// ~1 km of latitude in degrees on a 6371 km sphere.
const kmLat = 1 / (2 * math.Pi * EarthRadiusKm / 360)

func at(hh, mm, ss int) time.Time {
	return time.Date(2025, 10, 31, hh, mm, ss, 0, time.UTC)
}

func event(connote string, ts time.Time, lat, lon float64) domain.DeliveryEvent {
	return domain.DeliveryEvent{
		Connote:        connote,
		OfficerID:      "560001308",
		OfficeID:       "4040E",
		Product:        "PKH",
		Status:         "DELIVERED",
		EventTimestamp: ts,
		Coordinate:     domain.Coordinates{Lat: lat, Lon: lon},
	}
}

func TestBuildRouteNoData(t *testing.T) {
	route := BuildRoute(nil)

	if !route.NoData {
		t.Fatal("expected NoData for empty input")
	}
	if _, ok := route.Distance(); ok {
		t.Fatal("expected distance to be absent for empty input")
	}
	if len(route.Stops) != 0 {
		t.Fatalf("stops = %d, want 0", len(route.Stops))
	}
}

func TestBuildRouteSingleEvent(t *testing.T) {
	route := BuildRoute([]domain.DeliveryEvent{event("P1", at(16, 30, 5), -6.90641, 107.61761)})

	if route.NoData {
		t.Fatal("single event route must not be NoData")
	}
	d, ok := route.Distance()
	if !ok || d != 0 {
		t.Fatalf("distance = %v (ok=%v), want 0", d, ok)
	}
	gaps := route.GapMinutes()
	if len(gaps) != 1 || gaps[0] != 0 {
		t.Fatalf("gaps = %v, want [0]", gaps)
	}
	if route.OfficerID != "560001308" {
		t.Fatalf("officer = %q, want 560001308", route.OfficerID)
	}
}

func TestBuildRouteThreeStops(t *testing.T) {
	lat, lon := -6.90641, 107.61761
	a := event("P1", at(16, 30, 5), lat, lon)
	b := event("P2", at(16, 45, 0), lat+kmLat, lon)
	c := event("P3", at(17, 0, 0), lat+2*kmLat, lon)

	// Input order must not matter.
	route := BuildRoute([]domain.DeliveryEvent{c, a, b})

	if len(route.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(route.Stops))
	}
	for i, want := range []string{"P1", "P2", "P3"} {
		if got := route.Stops[i].Event.Connote; got != want {
			t.Fatalf("stop %d = %q, want %q", i, got, want)
		}
	}

	wantGaps := []float64{0, 14 + 55.0/60, 15}
	for i, g := range route.GapMinutes() {
		if math.Abs(g-wantGaps[i]) > 1e-9 {
			t.Fatalf("gap %d = %v, want %v", i, g, wantGaps[i])
		}
	}

	leg1, _ := DistanceKm(a.Coordinate, b.Coordinate)
	leg2, _ := DistanceKm(b.Coordinate, c.Coordinate)
	if math.Abs(leg1-1) > 1e-6 || math.Abs(leg2-1) > 1e-6 {
		t.Fatalf("legs = %v, %v, want ~1 km each", leg1, leg2)
	}

	total, ok := route.Distance()
	if !ok {
		t.Fatal("distance absent")
	}
	if math.Abs(total-(leg1+leg2)) > 1e-9 {
		t.Fatalf("distance = %v, want %v", total, leg1+leg2)
	}
	if math.Abs(route.Stops[2].CumulativeKm-total) > 1e-9 {
		t.Fatalf("cumulative = %v, want %v", route.Stops[2].CumulativeKm, total)
	}
	if route.Duration() != 29*time.Minute+55*time.Second {
		t.Fatalf("duration = %v, want 29m55s", route.Duration())
	}
}

func TestBuildRouteTieBreakByConnote(t *testing.T) {
	ts := at(10, 0, 0)
	x := event("P0003", ts, -6.9, 107.6)
	y := event("P0001", ts, -6.91, 107.61)
	z := event("P0002", ts, -6.92, 107.62)

	orders := [][]domain.DeliveryEvent{
		{x, y, z},
		{z, y, x},
		{y, x, z},
	}

	for _, in := range orders {
		route := BuildRoute(in)
		for i, want := range []string{"P0001", "P0002", "P0003"} {
			if got := route.Stops[i].Event.Connote; got != want {
				t.Fatalf("stop %d = %q, want %q", i, got, want)
			}
		}
		for i, g := range route.GapMinutes() {
			if g != 0 {
				t.Fatalf("gap %d = %v, want 0 for equal timestamps", i, g)
			}
		}
	}
}

func TestBuildRouteSkipsInvalidCoordinates(t *testing.T) {
	good := event("P1", at(9, 0, 0), -6.9, 107.6)
	bad := event("P2", at(9, 5, 0), -95, 107.6)

	route := BuildRoute([]domain.DeliveryEvent{good, bad})
	if route.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", route.Skipped)
	}
	if len(route.Stops) != 1 {
		t.Fatalf("stops = %d, want 1", len(route.Stops))
	}

	onlyBad := BuildRoute([]domain.DeliveryEvent{bad})
	if !onlyBad.NoData || onlyBad.Skipped != 1 {
		t.Fatalf("NoData = %v, skipped = %d, want true, 1", onlyBad.NoData, onlyBad.Skipped)
	}
}

func TestBuildRouteDoesNotMutateInput(t *testing.T) {
	in := []domain.DeliveryEvent{
		event("P2", at(12, 0, 0), -6.9, 107.6),
		event("P1", at(11, 0, 0), -6.91, 107.61),
	}
	BuildRoute(in)
	if in[0].Connote != "P2" || in[1].Connote != "P1" {
		t.Fatalf("input reordered: %q, %q", in[0].Connote, in[1].Connote)
	}
}
