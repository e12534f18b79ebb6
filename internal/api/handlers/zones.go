package handlers

import (
	"delivery-analytics-service/internal/api/dto"
	"delivery-analytics-service/internal/services"
	"net/http"
	"strings"
	"time"
)

type ZoneHandler struct {
	Dashboard DashboardService
	// Location in which query dates are interpreted.
	Location *time.Location
}

// Performance summarizes the session office's deliveries between the
// inclusive dates from and to, optionally limited by postal_code.
// postal_code may repeat or hold a comma-separated list.
func (h *ZoneHandler) Performance(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, http.StatusUnauthorized, "missing session")
		return
	}

	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}

	q := r.URL.Query()
	from, err := time.ParseInLocation(time.DateOnly, q.Get("from"), loc)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.ParseInLocation(time.DateOnly, q.Get("to"), loc)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		WriteError(w, r, http.StatusBadRequest, "to must not be before from")
		return
	}

	postalCodes := make([]string, 0)
	for _, v := range q["postal_code"] {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				postalCodes = append(postalCodes, code)
			}
		}
	}

	view, err := h.Dashboard.ZonePerformance(r.Context(), session, services.ZonePerformanceRequest{
		From:        from,
		To:          to.AddDate(0, 0, 1),
		PostalCodes: postalCodes,
	})
	if err != nil {
		writeServiceError(w, r, "zone performance", err)
		return
	}

	markNoData(w, view.Render.Err())
	writeJSON(w, r, http.StatusOK, dto.NewZonePerformanceResponse(
		view.OfficeID, view.From, view.To.AddDate(0, 0, -1), view.Summary, view.ByZone, view.Render,
	))
}
