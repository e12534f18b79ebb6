package repositories

import (
	"context"
	"database/sql"
	"delivery-analytics-service/internal/domain"
	platformdb "delivery-analytics-service/internal/platform/db"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// InitSchema initializes the schema for the given driver.
func InitSchema(ctx context.Context, db *sql.DB, driver string) error {
	switch driver {
	case platformdb.DriverPostgres:
		return InitPostgresSchema(ctx, db)
	case platformdb.DriverSqlite:
		return InitSqliteSchema(ctx, db)
	default:
		return fmt.Errorf("init schema: unsupported driver %q", driver)
	}
}

type OfficerSeed struct {
	OfficerID string `json:"officer_id"`
	Name      string `json:"name"`
	OfficeID  string `json:"office_id"`
}

// ZoneSeed carries the zone geometry as raw GeoJSON; it is validated when read.
type ZoneSeed struct {
	PostalCode  string          `json:"postal_code"`
	ZoneName    string          `json:"zone_name"`
	District    string          `json:"district"`
	Subdistrict string          `json:"subdistrict"`
	Geometry    json.RawMessage `json:"geometry"`
}

type Seed struct {
	Officers []OfficerSeed          `json:"officers"`
	Zones    []ZoneSeed             `json:"zones"`
	Events   []domain.DeliveryEvent `json:"events"`
}

type seedQueries struct {
	officer string
	zone    string
}

var (
	sqliteSeedQueries = seedQueries{
		officer: `
		INSERT OR REPLACE INTO petugas (id_petugas, nama, id_kantor)
		VALUES (?, ?, ?);
		`,
		zone: `
		INSERT OR REPLACE INTO zona_kodepos (kodepos, nama_zona, kecamatan, kelurahan, geom)
		VALUES (?, ?, ?, ?, ?);
		`,
	}
	postgresSeedQueries = seedQueries{
		officer: `
		INSERT INTO petugas (id_petugas, nama, id_kantor)
		VALUES ($1, $2, $3)
		ON CONFLICT (id_petugas) DO UPDATE
		SET nama = EXCLUDED.nama,
			id_kantor = EXCLUDED.id_kantor;
		`,
		zone: `
		INSERT INTO zona_kodepos (kodepos, nama_zona, kecamatan, kelurahan, geom)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromGeoJSON($5), 4326))
		ON CONFLICT (kodepos) DO UPDATE
		SET nama_zona = EXCLUDED.nama_zona,
			kecamatan = EXCLUDED.kecamatan,
			kelurahan = EXCLUDED.kelurahan,
			geom = EXCLUDED.geom;
		`,
	}
)

// SeedFromJSON loads reference data and events from a JSON file.
// Officers and zones are upserted; events are inserted idempotently.
// It returns the number of newly stored events.
func SeedFromJSON(ctx context.Context, db *sql.DB, driver, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return 0, fmt.Errorf("seed: parse json: %w", err)
	}

	repos, err := NewSet(db, driver)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	queries := sqliteSeedQueries
	if driver == platformdb.DriverPostgres {
		queries = postgresSeedQueries
	}

	if err := seedReference(ctx, db, queries, seed); err != nil {
		return 0, err
	}

	n, err := repos.Events.InsertEvents(ctx, seed.Events)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return n, nil
}

func seedReference(ctx context.Context, db *sql.DB, q seedQueries, seed Seed) error {
	for i, o := range seed.Officers {
		if strings.TrimSpace(o.OfficerID) == "" || strings.TrimSpace(o.OfficeID) == "" {
			return fmt.Errorf("seed officers: officer at index %d needs officer_id and office_id", i)
		}
	}
	for i, z := range seed.Zones {
		if strings.TrimSpace(z.PostalCode) == "" {
			return fmt.Errorf("seed zones: zone at index %d: postal_code cannot be empty", i)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	officerStmt, err := tx.PrepareContext(ctx, q.officer)
	if err != nil {
		return fmt.Errorf("seed officers: prepare insert: %w", err)
	}
	defer officerStmt.Close()

	for _, o := range seed.Officers {
		if _, err := officerStmt.ExecContext(ctx, strings.TrimSpace(o.OfficerID), o.Name, strings.TrimSpace(o.OfficeID)); err != nil {
			return fmt.Errorf("seed officers: insert id_petugas=%s: %w", o.OfficerID, err)
		}
	}

	zoneStmt, err := tx.PrepareContext(ctx, q.zone)
	if err != nil {
		return fmt.Errorf("seed zones: prepare insert: %w", err)
	}
	defer zoneStmt.Close()

	for _, z := range seed.Zones {
		var geom any
		if len(z.Geometry) > 0 && string(z.Geometry) != "null" {
			geom = string(z.Geometry)
		}
		if _, err := zoneStmt.ExecContext(ctx, strings.TrimSpace(z.PostalCode), z.ZoneName, z.District, z.Subdistrict, geom); err != nil {
			return fmt.Errorf("seed zones: insert kodepos=%s: %w", z.PostalCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}
	return nil
}
