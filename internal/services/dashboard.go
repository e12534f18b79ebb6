package services

import (
	"context"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/platform/obs"
	"delivery-analytics-service/internal/ports"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Dashboard assembles the views shown to branch staff. Every call fetches a
// fresh snapshot through the repositories and recomputes all derived data;
// nothing is memoized between calls, so a Dashboard is safe for concurrent use.
type Dashboard struct {
	Events     ports.EventRepository
	Zones      ports.ZoneRepository
	Officers   ports.OfficerRepository
	Colors     *ZoneColorAssigner
	Classifier domain.StatusClassifier
	Style      RenderStyle
}

// NewDashboard wires a Dashboard from its repositories and display settings.
// An empty palette falls back to DefaultPalette and empty style colors fall
// back to DefaultRenderStyle.
func NewDashboard(
	events ports.EventRepository,
	zones ports.ZoneRepository,
	officers ports.OfficerRepository,
	palette []string,
	style RenderStyle,
) (*Dashboard, error) {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	colors, err := NewZoneColorAssigner(palette)
	if err != nil {
		return nil, err
	}

	if style.SuccessColor == "" {
		style.SuccessColor = DefaultRenderStyle.SuccessColor
	}
	if style.FailureColor == "" {
		style.FailureColor = DefaultRenderStyle.FailureColor
	}

	return &Dashboard{
		Events:   events,
		Zones:    zones,
		Officers: officers,
		Colors:   colors,
		Style:    style,
	}, nil
}

type OfficerRouteView struct {
	Officer domain.Officer
	Date    time.Time
	Route   domain.Route
	Summary domain.PerformanceSummary
	Render  domain.RenderData
}

type ZonePerformanceRequest struct {
	From        time.Time
	To          time.Time
	PostalCodes []string
}

type ZonePerformanceView struct {
	OfficeID string
	From     time.Time
	To       time.Time
	Summary  domain.PerformanceSummary
	// Per postal code summaries, keyed by postal code.
	ByZone map[string]domain.PerformanceSummary
	Render domain.RenderData
}

// OfficerRoute builds the route view of one officer for the calendar day of day.
// The officer must belong to the session's office.
func (d *Dashboard) OfficerRoute(
	ctx context.Context,
	session domain.Session,
	officerID string,
	day time.Time,
) (_ *OfficerRouteView, err error) {
	defer obs.Time(ctx, "dashboard.OfficerRoute")(&err)

	officerID = strings.TrimSpace(officerID)
	if officerID == "" {
		return nil, fmt.Errorf("officer route: officer id must not be empty: %w", domain.ErrInvalidInput)
	}

	officer, err := d.Officers.GetOfficer(ctx, officerID)
	if err != nil {
		return nil, fmt.Errorf("officer route: get officer %q: %w", officerID, err)
	}
	if !session.CanView(officer.OfficeID) {
		return nil, fmt.Errorf("officer route: officer %q is outside office %q: %w", officerID, session.OfficeID, domain.ErrForbidden)
	}

	events, err := d.Events.ListOfficerEvents(ctx, officerID, day)
	if err != nil {
		return nil, fmt.Errorf("officer route: list events: %w", err)
	}
	// Stop times are shown in the location of the requested day.
	for i := range events {
		events[i].EventTimestamp = events[i].EventTimestamp.In(day.Location())
	}

	route := BuildRoute(events)
	route.OfficerID = officerID
	route.Date, _ = ports.DayBounds(day)

	// The summary and the zone layer cover the stops on the map only.
	routed := route.Events()
	zones, err := d.zonesFor(ctx, postalCodesOf(routed))
	if err != nil {
		return nil, fmt.Errorf("officer route: %w", err)
	}

	summary := Summarize(routed, d.Classifier)
	render := Render(RenderInput{
		Route:      &route,
		Summary:    summary,
		Zones:      zones.Zones,
		Colors:     d.Colors,
		Classifier: d.Classifier,
		Style:      d.Style,
	})
	render.SkippedZones += zones.Skipped

	d.report(ctx, "officer_route", render)

	return &OfficerRouteView{
		Officer: officer,
		Date:    route.Date,
		Route:   route,
		Summary: summary,
		Render:  render,
	}, nil
}

// ZonePerformance summarizes the session office's events over [From, To),
// optionally limited to some postal codes, and renders the touched zones.
func (d *Dashboard) ZonePerformance(
	ctx context.Context,
	session domain.Session,
	req ZonePerformanceRequest,
) (_ *ZonePerformanceView, err error) {
	defer obs.Time(ctx, "dashboard.ZonePerformance")(&err)

	if session.OfficeID == "" {
		return nil, fmt.Errorf("zone performance: session has no office: %w", domain.ErrForbidden)
	}
	if req.From.IsZero() || req.To.IsZero() || !req.To.After(req.From) {
		return nil, fmt.Errorf("zone performance: range [%s, %s) is empty: %w",
			req.From.Format(time.DateOnly), req.To.Format(time.DateOnly), domain.ErrInvalidInput)
	}

	events, err := d.Events.ListEvents(ctx, ports.EventFilter{
		OfficeID:    session.OfficeID,
		PostalCodes: req.PostalCodes,
		From:        req.From,
		To:          req.To,
	})
	if err != nil {
		return nil, fmt.Errorf("zone performance: list events: %w", err)
	}

	keys := req.PostalCodes
	if len(keys) == 0 {
		keys = postalCodesOf(events)
	}
	zones, err := d.zonesFor(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("zone performance: %w", err)
	}

	byZoneEvents := make(map[string][]domain.DeliveryEvent)
	for _, ev := range events {
		byZoneEvents[ev.PostalCode] = append(byZoneEvents[ev.PostalCode], ev)
	}
	byZone := make(map[string]domain.PerformanceSummary, len(byZoneEvents))
	for code, evs := range byZoneEvents {
		byZone[code] = Summarize(evs, d.Classifier)
	}

	summary := Summarize(events, d.Classifier)
	render := Render(RenderInput{
		Summary:    summary,
		Zones:      zones.Zones,
		Colors:     d.Colors,
		Classifier: d.Classifier,
		Style:      d.Style,
	})
	render.SkippedZones += zones.Skipped

	d.report(ctx, "zone_performance", render)

	return &ZonePerformanceView{
		OfficeID: session.OfficeID,
		From:     req.From,
		To:       req.To,
		Summary:  summary,
		ByZone:   byZone,
		Render:   render,
	}, nil
}

// ListOfficers returns the officers of the session's office.
func (d *Dashboard) ListOfficers(ctx context.Context, session domain.Session) ([]domain.Officer, error) {
	if session.OfficeID == "" {
		return nil, fmt.Errorf("list officers: session has no office: %w", domain.ErrForbidden)
	}

	officers, err := d.Officers.ListOfficers(ctx, session.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}
	return officers, nil
}

// Ingest stores events idempotently. Every event is validated before any
// write and must belong to the session's office.
func (d *Dashboard) Ingest(ctx context.Context, session domain.Session, events []domain.DeliveryEvent) (int, error) {
	if session.OfficeID == "" {
		return 0, fmt.Errorf("ingest: session has no office: %w", domain.ErrForbidden)
	}
	if len(events) == 0 {
		return 0, nil
	}

	errs := make([]error, 0)
	for _, ev := range events {
		if !session.CanView(ev.OfficeID) {
			return 0, fmt.Errorf("ingest: event %s belongs to office %q: %w", ev.Connote, ev.OfficeID, domain.ErrForbidden)
		}
		if err := ev.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return 0, fmt.Errorf("ingest: %w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}

	n, err := d.Events.InsertEvents(ctx, events)
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}

	obs.EventsIngested.Add(float64(n))
	return n, nil
}

func (d *Dashboard) zonesFor(ctx context.Context, postalCodes []string) (ports.ZoneScan, error) {
	// An empty list would mean "all zones" to the repository.
	if len(postalCodes) == 0 {
		return ports.ZoneScan{Zones: []domain.Zone{}}, nil
	}

	scan, err := d.Zones.ListZones(ctx, postalCodes)
	if err != nil {
		return ports.ZoneScan{}, fmt.Errorf("list zones: %w", err)
	}
	return scan, nil
}

func (d *Dashboard) report(ctx context.Context, view string, render domain.RenderData) {
	result := "ok"
	if render.NoData {
		result = "no_data"
	}
	obs.ViewsTotal.WithLabelValues(view, result).Inc()

	if render.SkippedEvents > 0 || render.SkippedZones > 0 {
		obs.SkippedRecords.WithLabelValues("event").Add(float64(render.SkippedEvents))
		obs.SkippedRecords.WithLabelValues("zone").Add(float64(render.SkippedZones))
		slog.WarnContext(ctx, "records skipped for invalid geometry",
			"view", view,
			"skipped_events", render.SkippedEvents,
			"skipped_zones", render.SkippedZones,
		)
	}
}

// Unique non-empty postal codes in sorted order.
func postalCodesOf(events []domain.DeliveryEvent) []string {
	seen := make(map[string]struct{}, len(events))
	out := make([]string, 0)
	for _, ev := range events {
		code := strings.TrimSpace(ev.PostalCode)
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
