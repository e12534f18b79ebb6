package repositories

import (
	"database/sql"
	platformdb "delivery-analytics-service/internal/platform/db"
	"delivery-analytics-service/internal/ports"
	"fmt"
)

// Set groups the repositories backed by one database pool.
type Set struct {
	Events   ports.EventRepository
	Zones    ports.ZoneRepository
	Officers ports.OfficerRepository
}

// NewSet returns the repositories for driver over db.
func NewSet(db *sql.DB, driver string) (Set, error) {
	switch driver {
	case platformdb.DriverPostgres:
		return Set{
			Events:   NewPostgresEventRepository(db),
			Zones:    NewPostgresZoneRepository(db),
			Officers: NewPostgresOfficerRepository(db),
		}, nil
	case platformdb.DriverSqlite:
		return Set{
			Events:   NewSqliteEventRepository(db),
			Zones:    NewSqliteZoneRepository(db),
			Officers: NewSqliteOfficerRepository(db),
		}, nil
	default:
		return Set{}, fmt.Errorf("repositories: unsupported driver %q", driver)
	}
}
