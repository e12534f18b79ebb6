package ports

import (
	"context"
	"delivery-analytics-service/internal/domain"
)

// Port: read-only access to officer reference data.
type OfficerRepository interface {
	// Return the officer or an error wrapping domain.ErrNotFound.
	GetOfficer(ctx context.Context, officerID string) (domain.Officer, error)
	// Return the officers of one office ordered by officer id.
	ListOfficers(ctx context.Context, officeID string) ([]domain.Officer, error)
}
