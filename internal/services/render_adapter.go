package services

import (
	"delivery-analytics-service/internal/domain"
	"fmt"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// RenderStyle holds the marker colors for success and non-success stops.
type RenderStyle struct {
	SuccessColor string
	FailureColor string
}

var DefaultRenderStyle = RenderStyle{SuccessColor: "green", FailureColor: "red"}

// RenderInput is everything a dashboard view hands to Render.
// Route may be nil for views without a route layer.
type RenderInput struct {
	Route      *domain.Route
	Summary    domain.PerformanceSummary
	Zones      []domain.Zone
	Colors     *ZoneColorAssigner
	Classifier domain.StatusClassifier
	Style      RenderStyle
}

// Render converts a route, its summary and zone geometry into the rendering
// contract in a single batch. It performs no I/O and the same input always
// yields the same output.
//
// Zones failing geometry validation are left out and counted in SkippedZones.
func Render(in RenderInput) domain.RenderData {
	colors := in.Colors
	if colors == nil {
		colors = defaultColors()
	}
	classifier := in.Classifier
	if classifier == nil {
		classifier = domain.DefaultClassifier
	}
	style := in.Style
	if style.SuccessColor == "" {
		style.SuccessColor = DefaultRenderStyle.SuccessColor
	}
	if style.FailureColor == "" {
		style.FailureColor = DefaultRenderStyle.FailureColor
	}

	out := domain.RenderData{
		RouteLayer: domain.RouteLayer{
			Polyline: []domain.LatLon{},
			Markers:  []domain.Marker{},
		},
	}

	out.ZoneLayer, out.SkippedZones = zoneLayer(in.Zones, colors)

	if in.Route != nil {
		out.RouteLayer = routeLayer(*in.Route, classifier, style)
		out.SkippedEvents = in.Route.Skipped
	}

	out.SummaryTable, out.Totals = summaryTable(in.Summary)
	out.NoData = in.Summary.NoData() && (in.Route == nil || in.Route.NoData)

	return out
}

func zoneLayer(zones []domain.Zone, colors *ZoneColorAssigner) (*geojson.FeatureCollection, int) {
	fc := geojson.NewFeatureCollection()
	skipped := 0

	for _, z := range zones {
		if err := z.ValidateGeometry(); err != nil {
			skipped++
			continue
		}

		f := geojson.NewFeature(z.Geometry)
		f.Properties["postalCode"] = z.PostalCode
		f.Properties["zoneName"] = z.ZoneName
		f.Properties["district"] = z.District
		f.Properties["subdistrict"] = z.Subdistrict
		f.Properties["areaKm2"] = z.AreaKm2
		f.Properties["fillColor"] = colors.ColorFor(z.PostalCode)
		f.Properties["tooltip"] = fmt.Sprintf(
			"%s (%s) - %s/%s, %.2f km²",
			z.ZoneName, z.PostalCode, z.District, z.Subdistrict, z.AreaKm2,
		)
		fc.Append(f)
	}

	return fc, skipped
}

func routeLayer(route domain.Route, classifier domain.StatusClassifier, style RenderStyle) domain.RouteLayer {
	layer := domain.RouteLayer{
		Polyline: make([]domain.LatLon, 0, len(route.Stops)),
		Markers:  make([]domain.Marker, 0, len(route.Stops)),
	}

	for _, c := range route.Coordinates() {
		layer.Polyline = append(layer.Polyline, domain.LatLon{Lat: c.Lat, Lon: c.Lon})
	}

	for i, s := range route.Stops {
		ev := s.Event

		color := style.FailureColor
		if classifier.Classify(ev.Status) == domain.OutcomeSuccess {
			color = style.SuccessColor
		}

		layer.Markers = append(layer.Markers, domain.Marker{
			Lat:         ev.Coordinate.Lat,
			Lon:         ev.Coordinate.Lon,
			StatusColor: color,
			TooltipText: fmt.Sprintf("%d. %s - %s", i+1, ev.Connote, ev.Status),
			PopupFields: popupFields(s),
		})
	}

	return layer
}

func popupFields(s domain.RouteStop) []domain.PopupField {
	ev := s.Event

	cod := "NONCOD"
	if ev.IsCOD {
		cod = "COD " + strconv.FormatFloat(ev.CODAmount, 'f', -1, 64)
	}

	return []domain.PopupField{
		{Label: "Connote", Value: ev.Connote},
		{Label: "Recipient", Value: ev.Recipient},
		{Label: "Address", Value: ev.Address},
		{Label: "Product", Value: ev.Product},
		{Label: "Status", Value: ev.Status},
		{Label: "Time", Value: ev.EventTimestamp.Format("15:04:05")},
		{Label: "Gap (min)", Value: strconv.FormatFloat(s.GapMinutes, 'f', 1, 64)},
		{Label: "COD", Value: cod},
		{Label: "Note", Value: ev.Note},
	}
}

func summaryTable(s domain.PerformanceSummary) ([]domain.SummaryRow, domain.SummaryRow) {
	products := s.ProductRows()
	rows := make([]domain.SummaryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, domain.SummaryRow{
			Product:    p.Product,
			Success:    p.Success,
			Failure:    p.Failure,
			Total:      p.Total,
			SuccessPct: p.SuccessPct(),
			FailurePct: p.FailurePct(),
		})
	}

	totals := domain.SummaryRow{
		Product:    "TOTAL",
		Success:    s.SuccessCount,
		Failure:    s.FailureCount,
		Total:      s.TotalCount,
		SuccessPct: s.SuccessPct(),
		FailurePct: s.FailurePct(),
	}

	return rows, totals
}

func defaultColors() *ZoneColorAssigner {
	c, _ := NewZoneColorAssigner(DefaultPalette)
	return c
}
