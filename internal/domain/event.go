package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeliveryEvent is a single geotagged scan of a shipment by a delivery officer.
// Connote uniquely identifies the event and is the ingestion idempotency key.
// Events are immutable from the analytics point of view; status may change
// upstream but is never rewritten here.
type DeliveryEvent struct {
	Connote        string      `json:"connote"`
	OfficerID      string      `json:"officer_id"`
	OfficeID       string      `json:"office_id"`
	RegionID       string      `json:"region_id"`
	Product        string      `json:"product"`
	ShipmentType   string      `json:"shipment_type"`
	IsCOD          bool        `json:"is_cod"`
	CODAmount      float64     `json:"cod_amount"`
	WeightKg       float64     `json:"weight_kg"`
	Recipient      string      `json:"recipient"`
	Address        string      `json:"address"`
	PostalCode     string      `json:"postal_code"`
	Status         string      `json:"status"`
	Note           string      `json:"note,omitempty"`
	EventTimestamp time.Time   `json:"event_timestamp"`
	Coordinate     Coordinates `json:"coordinate"`
}

// Validate checks the invariants required before an event is stored.
func (e DeliveryEvent) Validate() error {
	if strings.TrimSpace(e.Connote) == "" {
		return fmt.Errorf("event: connote must not be empty: %w", ErrInvalidInput)
	}
	if e.EventTimestamp.IsZero() {
		return fmt.Errorf("event %s: event_timestamp must be set: %w", e.Connote, ErrInvalidInput)
	}
	if err := e.Coordinate.Validate(); err != nil {
		return fmt.Errorf("event %s: %w", e.Connote, err)
	}
	return nil
}

// Officer is the delivery courier a route belongs to.
type Officer struct {
	OfficerID string `json:"officer_id"`
	Name      string `json:"name"`
	OfficeID  string `json:"office_id"`
}

// Session carries the identity of the staff member viewing a dashboard.
// It is passed explicitly to the services that need it.
type Session struct {
	Username string
	OfficeID string
}

// CanView reports whether the session may see data of the given office.
func (s Session) CanView(officeID string) bool {
	return s.OfficeID != "" && s.OfficeID == officeID
}
