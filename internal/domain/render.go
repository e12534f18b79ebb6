package domain

import "github.com/paulmach/orb/geojson"

// Data contract consumed by the map-rendering collaborator and the summary panel.
// Values are built in one batch and not modified afterwards.

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type PopupField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Marker struct {
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	StatusColor string       `json:"status_color"`
	TooltipText string       `json:"tooltip_text"`
	PopupFields []PopupField `json:"popup_fields"`
}

type RouteLayer struct {
	Polyline []LatLon `json:"polyline"`
	Markers  []Marker `json:"markers"`
}

type SummaryRow struct {
	Product    string  `json:"product"`
	Success    int     `json:"success"`
	Failure    int     `json:"failure"`
	Total      int     `json:"total"`
	SuccessPct float64 `json:"success_pct"`
	FailurePct float64 `json:"failure_pct"`
}

type RenderData struct {
	ZoneLayer     *geojson.FeatureCollection `json:"zone_layer"`
	RouteLayer    RouteLayer                 `json:"route_layer"`
	SummaryTable  []SummaryRow               `json:"summary_table"`
	Totals        SummaryRow                 `json:"totals"`
	NoData        bool                       `json:"no_data"`
	SkippedEvents int                        `json:"skipped_events"`
	SkippedZones  int                        `json:"skipped_zones"`
}

// Err returns ErrDataUnavailable when the view was computed over no data.
// A no-data view is still well formed and safe to render.
func (d RenderData) Err() error {
	if d.NoData {
		return ErrDataUnavailable
	}
	return nil
}
