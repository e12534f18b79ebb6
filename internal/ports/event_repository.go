package ports

import (
	"context"
	"delivery-analytics-service/internal/domain"
	"time"
)

// Filter for range queries over delivery events. From is inclusive, To exclusive.
// An empty PostalCodes list matches every postal code.
type EventFilter struct {
	OfficeID    string
	PostalCodes []string
	From        time.Time
	To          time.Time
}

// Port: a boundary for reading and ingesting DeliveryEvent records.
// Every call returns a fresh snapshot; implementations never cache derived results.
type EventRepository interface {
	// Return the events of one officer on the calendar day containing day,
	// in the location of day.
	ListOfficerEvents(ctx context.Context, officerID string, day time.Time) ([]domain.DeliveryEvent, error)
	// Return events matching the filter.
	ListEvents(ctx context.Context, filter EventFilter) ([]domain.DeliveryEvent, error)
	// Store events, ignoring any whose connote is already stored.
	// Returns the number of newly stored events.
	InsertEvents(ctx context.Context, events []domain.DeliveryEvent) (int, error)
}

// DayBounds returns [start of day, start of next day) for day in its own location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
