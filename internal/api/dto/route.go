package dto

import (
	"delivery-analytics-service/internal/domain"
	"time"
)

type OfficerResponse struct {
	OfficerID string `json:"officer_id"`
	Name      string `json:"name"`
	OfficeID  string `json:"office_id"`
}

type ListOfficersResponse struct {
	Officers []OfficerResponse `json:"officers"`
}

type RouteStopResponse struct {
	Seq            int       `json:"seq"`
	Connote        string    `json:"connote"`
	Product        string    `json:"product"`
	Status         string    `json:"status"`
	Recipient      string    `json:"recipient"`
	Address        string    `json:"address"`
	PostalCode     string    `json:"postal_code"`
	IsCOD          bool      `json:"is_cod"`
	CODAmount      float64   `json:"cod_amount"`
	Note           string    `json:"note,omitempty"`
	EventTimestamp time.Time `json:"event_timestamp"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	GapMinutes     float64   `json:"gap_minutes"`
	LegKm          float64   `json:"leg_km"`
	CumulativeKm   float64   `json:"cumulative_km"`
}

type OfficerRouteResponse struct {
	Officer OfficerResponse `json:"officer"`
	Date    string          `json:"date"`
	// Null when the officer has no events on the date.
	TotalDistanceKm *float64            `json:"total_distance_km"`
	DurationMinutes float64             `json:"duration_minutes"`
	Stops           []RouteStopResponse `json:"stops"`
	Summary         SummaryResponse     `json:"summary"`
	Map             domain.RenderData   `json:"map"`
}

func NewOfficerResponse(o domain.Officer) OfficerResponse {
	return OfficerResponse{OfficerID: o.OfficerID, Name: o.Name, OfficeID: o.OfficeID}
}

func NewOfficerRouteResponse(
	officer domain.Officer,
	date time.Time,
	route domain.Route,
	summary domain.PerformanceSummary,
	render domain.RenderData,
) OfficerRouteResponse {
	res := OfficerRouteResponse{
		Officer:         NewOfficerResponse(officer),
		Date:            date.Format(time.DateOnly),
		DurationMinutes: route.Duration().Minutes(),
		Stops:           make([]RouteStopResponse, 0, len(route.Stops)),
		Summary:         NewSummaryResponse(summary),
		Map:             render,
	}
	if km, ok := route.Distance(); ok {
		res.TotalDistanceKm = &km
	}

	for i, s := range route.Stops {
		ev := s.Event
		res.Stops = append(res.Stops, RouteStopResponse{
			Seq:            i + 1,
			Connote:        ev.Connote,
			Product:        ev.Product,
			Status:         ev.Status,
			Recipient:      ev.Recipient,
			Address:        ev.Address,
			PostalCode:     ev.PostalCode,
			IsCOD:          ev.IsCOD,
			CODAmount:      ev.CODAmount,
			Note:           ev.Note,
			EventTimestamp: ev.EventTimestamp,
			Lat:            ev.Coordinate.Lat,
			Lon:            ev.Coordinate.Lon,
			GapMinutes:     s.GapMinutes,
			LegKm:          s.LegKm,
			CumulativeKm:   s.CumulativeKm,
		})
	}
	return res
}
