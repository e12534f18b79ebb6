package services

import (
	"context"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/ports"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

type memEvents struct {
	events []domain.DeliveryEvent
	calls  int
}

func (m *memEvents) ListOfficerEvents(ctx context.Context, officerID string, day time.Time) ([]domain.DeliveryEvent, error) {
	m.calls++
	from, to := ports.DayBounds(day)
	out := []domain.DeliveryEvent{}
	for _, ev := range m.events {
		if ev.OfficerID == officerID && !ev.EventTimestamp.Before(from) && ev.EventTimestamp.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memEvents) ListEvents(ctx context.Context, f ports.EventFilter) ([]domain.DeliveryEvent, error) {
	m.calls++
	out := []domain.DeliveryEvent{}
	for _, ev := range m.events {
		if ev.OfficeID != f.OfficeID || ev.EventTimestamp.Before(f.From) || !ev.EventTimestamp.Before(f.To) {
			continue
		}
		if len(f.PostalCodes) > 0 && !slices.Contains(f.PostalCodes, ev.PostalCode) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (m *memEvents) InsertEvents(ctx context.Context, events []domain.DeliveryEvent) (int, error) {
	n := 0
	for _, ev := range events {
		if slices.ContainsFunc(m.events, func(e domain.DeliveryEvent) bool { return e.Connote == ev.Connote }) {
			continue
		}
		m.events = append(m.events, ev)
		n++
	}
	return n, nil
}

type memZones struct {
	zones     []domain.Zone
	requested [][]string
}

func (m *memZones) ListZones(ctx context.Context, postalCodes []string) (ports.ZoneScan, error) {
	m.requested = append(m.requested, postalCodes)
	out := []domain.Zone{}
	for _, z := range m.zones {
		if len(postalCodes) == 0 || slices.Contains(postalCodes, z.PostalCode) {
			out = append(out, z)
		}
	}
	return ports.ZoneScan{Zones: out}, nil
}

type memOfficers map[string]domain.Officer

func (m memOfficers) GetOfficer(ctx context.Context, id string) (domain.Officer, error) {
	o, ok := m[id]
	if !ok {
		return domain.Officer{}, fmt.Errorf("officer %q: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (m memOfficers) ListOfficers(ctx context.Context, officeID string) ([]domain.Officer, error) {
	out := []domain.Officer{}
	for _, o := range m {
		if o.OfficeID == officeID {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b domain.Officer) int {
		if a.OfficerID < b.OfficerID {
			return -1
		}
		if a.OfficerID > b.OfficerID {
			return 1
		}
		return 0
	})
	return out, nil
}

func newTestDashboard() (*Dashboard, *memEvents, *memZones) {
	e1 := event("P2510300003418", at(16, 30, 5), -6.90641, 107.61761)
	e1.PostalCode = "40111"
	e2 := event("P2510300003419", at(16, 45, 0), -6.9060791, 107.6178093)
	e2.PostalCode = "40111"
	e2.Status = "FAILED_RECIPIENT_ABSENT"
	e3 := event("P2510300003420", at(17, 0, 0), -6.91, 107.62)
	e3.PostalCode = "40112"
	other := event("P2511020000001", time.Date(2025, 11, 2, 14, 32, 26, 0, time.UTC), -6.9, 107.6)
	other.PostalCode = "40111"

	events := &memEvents{events: []domain.DeliveryEvent{e1, e2, e3, other}}
	zones := &memZones{zones: []domain.Zone{
		zone("40111", "Braga", box(107.60, -6.92, 0.02)),
		zone("40112", "Merdeka", box(107.62, -6.92, 0.02)),
		zone("40113", "Cikapundung", box(107.64, -6.92, 0.02)),
	}}
	officers := memOfficers{
		"560001308": {OfficerID: "560001308", Name: "Widi", OfficeID: "4040E"},
		"560009999": {OfficerID: "560009999", Name: "Mario", OfficeID: "4050A"},
	}
	colors, _ := NewZoneColorAssigner(DefaultPalette)

	return &Dashboard{
		Events:   events,
		Zones:    zones,
		Officers: officers,
		Colors:   colors,
		Style:    DefaultRenderStyle,
	}, events, zones
}

func TestNewDashboardDefaults(t *testing.T) {
	d, err := NewDashboard(&memEvents{}, &memZones{}, memOfficers{}, nil, RenderStyle{FailureColor: "#aa0000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Colors.Size() != len(DefaultPalette) {
		t.Fatalf("palette size = %d, want %d", d.Colors.Size(), len(DefaultPalette))
	}
	if d.Style.SuccessColor != DefaultRenderStyle.SuccessColor || d.Style.FailureColor != "#aa0000" {
		t.Fatalf("style = %+v", d.Style)
	}

	d, err = NewDashboard(&memEvents{}, &memZones{}, memOfficers{}, []string{"#111111", "#222222"}, RenderStyle{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Colors.Size() != 2 {
		t.Fatalf("palette size = %d, want 2", d.Colors.Size())
	}
}

func TestDashboardOfficerRoute(t *testing.T) {
	d, _, zones := newTestDashboard()
	session := domain.Session{Username: "dc-admin", OfficeID: "4040E"}

	view, err := d.OfficerRoute(context.Background(), session, "560001308", at(8, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Route.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(view.Route.Stops))
	}
	if view.Summary.SuccessCount != 2 || view.Summary.FailureCount != 1 {
		t.Fatalf("summary = %+v", view.Summary)
	}
	if len(view.Render.ZoneLayer.Features) != 2 {
		t.Fatalf("zone features = %d, want 2", len(view.Render.ZoneLayer.Features))
	}
	if got := zones.requested[0]; !slices.Equal(got, []string{"40111", "40112"}) {
		t.Fatalf("requested zones = %v, want [40111 40112]", got)
	}
	if !view.Date.Equal(time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", view.Date)
	}
}

func TestDashboardOfficerRouteSummaryMatchesStops(t *testing.T) {
	d, events, zones := newTestDashboard()
	bad := event("P2510300003499", at(16, 50, 0), 95, 107.6)
	bad.PostalCode = "40113"
	bad.Status = "FAILED_X"
	events.events = append(events.events, bad)
	session := domain.Session{OfficeID: "4040E"}

	view, err := d.OfficerRoute(context.Background(), session, "560001308", at(8, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Route.Skipped != 1 || view.Render.SkippedEvents != 1 {
		t.Fatalf("skipped = %d/%d, want 1", view.Route.Skipped, view.Render.SkippedEvents)
	}
	if view.Summary.TotalCount != len(view.Route.Stops) {
		t.Fatalf("summary total %d != route stops %d", view.Summary.TotalCount, len(view.Route.Stops))
	}
	if view.Render.Totals.Total != len(view.Render.RouteLayer.Markers) {
		t.Fatalf("totals %d != markers %d", view.Render.Totals.Total, len(view.Render.RouteLayer.Markers))
	}
	if view.Summary.FailureCount != 1 {
		t.Fatalf("failures = %d, want 1", view.Summary.FailureCount)
	}
	// The skipped event's zone is not drawn.
	if got := zones.requested[0]; !slices.Equal(got, []string{"40111", "40112"}) {
		t.Fatalf("requested zones = %v, want [40111 40112]", got)
	}
}

func TestDashboardOfficerRouteAllSkippedIsNoData(t *testing.T) {
	d, events, _ := newTestDashboard()
	events.events = []domain.DeliveryEvent{event("P2510300003499", at(16, 50, 0), 95, 107.6)}
	session := domain.Session{OfficeID: "4040E"}

	view, err := d.OfficerRoute(context.Background(), session, "560001308", at(8, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Render.NoData || view.Summary.TotalCount != 0 || view.Render.SkippedEvents != 1 {
		t.Fatalf("view = %+v / %+v", view.Summary, view.Render)
	}
}

func TestDashboardOfficerRouteNoData(t *testing.T) {
	d, _, zones := newTestDashboard()
	session := domain.Session{OfficeID: "4040E"}

	view, err := d.OfficerRoute(context.Background(), session, "560001308", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Route.NoData || !view.Render.NoData {
		t.Fatal("expected a no-data view")
	}
	if len(zones.requested) != 0 {
		t.Fatalf("zones requested for an empty day: %v", zones.requested)
	}
}

func TestDashboardOfficerRouteScopedToSessionOffice(t *testing.T) {
	d, _, _ := newTestDashboard()
	session := domain.Session{OfficeID: "4040E"}

	_, err := d.OfficerRoute(context.Background(), session, "560009999", at(8, 0, 0))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	_, err = d.OfficerRoute(context.Background(), session, "missing", at(8, 0, 0))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDashboardRecomputesEveryCall(t *testing.T) {
	d, events, _ := newTestDashboard()
	session := domain.Session{OfficeID: "4040E"}
	ctx := context.Background()

	first, err := d.OfficerRoute(ctx, session, "560001308", at(8, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	late := event("P2510300003421", at(17, 30, 0), -6.915, 107.625)
	late.PostalCode = "40112"
	if _, err := d.Ingest(ctx, session, []domain.DeliveryEvent{late}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	second, err := d.OfficerRoute(ctx, session, "560001308", at(8, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Route.Stops) != 3 || len(second.Route.Stops) != 4 {
		t.Fatalf("stops = %d then %d, want 3 then 4", len(first.Route.Stops), len(second.Route.Stops))
	}
	if events.calls != 2 {
		t.Fatalf("repository calls = %d, want 2", events.calls)
	}
}

func TestDashboardZonePerformance(t *testing.T) {
	d, _, _ := newTestDashboard()
	session := domain.Session{OfficeID: "4040E"}

	view, err := d.ZonePerformance(context.Background(), session, ZonePerformanceRequest{
		From: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Summary.TotalCount != 3 {
		t.Fatalf("total = %d, want 3", view.Summary.TotalCount)
	}
	braga := view.ByZone["40111"]
	if braga.TotalCount != 2 || braga.SuccessCount != 1 || braga.FailureCount != 1 {
		t.Fatalf("40111 summary = %+v", braga)
	}
	if len(view.Render.RouteLayer.Markers) != 0 {
		t.Fatal("zone performance must not carry a route layer")
	}
	if len(view.Render.ZoneLayer.Features) != 2 {
		t.Fatalf("zone features = %d, want 2", len(view.Render.ZoneLayer.Features))
	}
}

func TestDashboardZonePerformanceRejectsEmptyRange(t *testing.T) {
	d, _, _ := newTestDashboard()
	day := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)

	_, err := d.ZonePerformance(context.Background(), domain.Session{OfficeID: "4040E"}, ZonePerformanceRequest{From: day, To: day})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDashboardIngestIsIdempotent(t *testing.T) {
	d, _, _ := newTestDashboard()
	ctx := context.Background()
	session := domain.Session{OfficeID: "4040E"}

	ev := event("P2510300009999", at(18, 0, 0), -6.9, 107.6)
	n, err := d.Ingest(ctx, session, []domain.DeliveryEvent{ev})
	if err != nil || n != 1 {
		t.Fatalf("first ingest = %d, %v, want 1, nil", n, err)
	}
	n, err = d.Ingest(ctx, session, []domain.DeliveryEvent{ev})
	if err != nil || n != 0 {
		t.Fatalf("second ingest = %d, %v, want 0, nil", n, err)
	}

	bad := ev
	bad.Connote = "P2510300010000"
	bad.Coordinate.Lon = 200
	if _, err := d.Ingest(ctx, session, []domain.DeliveryEvent{bad}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	foreign := ev
	foreign.Connote = "P2510300010001"
	foreign.OfficeID = "4050A"
	if _, err := d.Ingest(ctx, session, []domain.DeliveryEvent{foreign}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
