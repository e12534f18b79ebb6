package dto

import (
	"delivery-analytics-service/internal/domain"
	"sort"
	"time"
)

type ProductSummaryResponse struct {
	Product    string  `json:"product"`
	Total      int     `json:"total"`
	Success    int     `json:"success"`
	Failure    int     `json:"failure"`
	SuccessPct float64 `json:"success_pct"`
	FailurePct float64 `json:"failure_pct"`
}

type SummaryResponse struct {
	Total      int                      `json:"total"`
	Success    int                      `json:"success"`
	Failure    int                      `json:"failure"`
	SuccessPct float64                  `json:"success_pct"`
	FailurePct float64                  `json:"failure_pct"`
	ByProduct  []ProductSummaryResponse `json:"by_product"`
}

type ZoneSummaryResponse struct {
	PostalCode string          `json:"postal_code"`
	Summary    SummaryResponse `json:"summary"`
}

type ZonePerformanceResponse struct {
	OfficeID string                `json:"office_id"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Summary  SummaryResponse       `json:"summary"`
	Zones    []ZoneSummaryResponse `json:"zones"`
	Map      domain.RenderData     `json:"map"`
}

func NewSummaryResponse(s domain.PerformanceSummary) SummaryResponse {
	res := SummaryResponse{
		Total:      s.TotalCount,
		Success:    s.SuccessCount,
		Failure:    s.FailureCount,
		SuccessPct: s.SuccessPct(),
		FailurePct: s.FailurePct(),
		ByProduct:  make([]ProductSummaryResponse, 0, len(s.ByProduct)),
	}
	for _, p := range s.ProductRows() {
		res.ByProduct = append(res.ByProduct, ProductSummaryResponse{
			Product:    p.Product,
			Total:      p.Total,
			Success:    p.Success,
			Failure:    p.Failure,
			SuccessPct: p.SuccessPct(),
			FailurePct: p.FailurePct(),
		})
	}
	return res
}

// NewZonePerformanceResponse lists per-zone summaries ordered by postal code.
func NewZonePerformanceResponse(
	officeID string,
	from, to time.Time,
	summary domain.PerformanceSummary,
	byZone map[string]domain.PerformanceSummary,
	render domain.RenderData,
) ZonePerformanceResponse {
	res := ZonePerformanceResponse{
		OfficeID: officeID,
		From:     from.Format(time.DateOnly),
		To:       to.Format(time.DateOnly),
		Summary:  NewSummaryResponse(summary),
		Zones:    make([]ZoneSummaryResponse, 0, len(byZone)),
		Map:      render,
	}

	codes := make([]string, 0, len(byZone))
	for code := range byZone {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		res.Zones = append(res.Zones, ZoneSummaryResponse{
			PostalCode: code,
			Summary:    NewSummaryResponse(byZone[code]),
		})
	}
	return res
}
