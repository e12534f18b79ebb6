package handlers

import (
	"delivery-analytics-service/internal/api/dto"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type OfficerHandler struct {
	Dashboard DashboardService
	// Location in which route dates are interpreted.
	Location *time.Location
}

// List returns the officers of the session's office.
func (h *OfficerHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, http.StatusUnauthorized, "missing session")
		return
	}

	officers, err := h.Dashboard.ListOfficers(r.Context(), session)
	if err != nil {
		writeServiceError(w, r, "list officers", err)
		return
	}

	res := dto.ListOfficersResponse{Officers: make([]dto.OfficerResponse, 0, len(officers))}
	for _, o := range officers {
		res.Officers = append(res.Officers, dto.NewOfficerResponse(o))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Route returns the as-occurred route of one officer on one date (YYYY-MM-DD).
func (h *OfficerHandler) Route(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, http.StatusUnauthorized, "missing session")
		return
	}

	officerID := strings.TrimSpace(chi.URLParam(r, "officerID"))
	if officerID == "" {
		WriteError(w, r, http.StatusBadRequest, "officer id is required")
		return
	}

	day, err := time.ParseInLocation(time.DateOnly, chi.URLParam(r, "date"), h.location())
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	view, err := h.Dashboard.OfficerRoute(r.Context(), session, officerID, day)
	if err != nil {
		writeServiceError(w, r, "officer route", err)
		return
	}

	markNoData(w, view.Render.Err())
	writeJSON(w, r, http.StatusOK, dto.NewOfficerRouteResponse(view.Officer, view.Date, view.Route, view.Summary, view.Render))
}

func (h *OfficerHandler) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}
