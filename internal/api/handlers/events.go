package handlers

import (
	"delivery-analytics-service/internal/api/dto"
	"encoding/json"
	"io"
	"net/http"
)

const maxIngestBody = 10 << 20

type EventHandler struct {
	Dashboard DashboardService
}

// Ingest stores a batch of delivery events for the session's office. Events
// whose connote is already stored are counted as duplicates; an invalid event
// rejects the whole batch.
func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, http.StatusUnauthorized, "missing session")
		return
	}

	var req dto.IngestEventsRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		WriteError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}
	if len(req.Events) == 0 {
		WriteError(w, r, http.StatusBadRequest, "events must not be empty")
		return
	}

	inserted, err := h.Dashboard.Ingest(r.Context(), session, req.Events)
	if err != nil {
		writeServiceError(w, r, "ingest events", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.IngestEventsResponse{
		Received:   len(req.Events),
		Inserted:   inserted,
		Duplicates: len(req.Events) - inserted,
	})
}
