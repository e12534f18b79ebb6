package handlers

import (
	"context"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/services"
	"time"
)

// DashboardService is the slice of the dashboard used by the HTTP layer.
type DashboardService interface {
	OfficerRoute(ctx context.Context, session domain.Session, officerID string, day time.Time) (*services.OfficerRouteView, error)
	ZonePerformance(ctx context.Context, session domain.Session, req services.ZonePerformanceRequest) (*services.ZonePerformanceView, error)
	ListOfficers(ctx context.Context, session domain.Session) ([]domain.Officer, error)
	Ingest(ctx context.Context, session domain.Session, events []domain.DeliveryEvent) (int, error)
}
