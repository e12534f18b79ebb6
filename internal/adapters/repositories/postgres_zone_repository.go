package repositories

import (
	"context"
	"database/sql"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/platform/obs"
	"delivery-analytics-service/internal/ports"
	"errors"
	"fmt"
	"log/slog"
)

// Postgres/PostGIS implementation of the ZoneRepository port.
// Geometry is read as GeoJSON and the area is computed on the geography.
type PostgresZoneRepository struct{ DB *sql.DB }

func NewPostgresZoneRepository(db *sql.DB) *PostgresZoneRepository {
	return &PostgresZoneRepository{DB: db}
}

func (p *PostgresZoneRepository) ListZones(ctx context.Context, postalCodes []string) (_ ports.ZoneScan, err error) {
	defer obs.Time(ctx, "postgres.ListZones")(&err)

	if p.DB == nil {
		return ports.ZoneScan{}, errors.New("postgres zone repository: DB is nil")
	}

	args := []any{}
	where := ""
	if codes := uniqueTrimmed(postalCodes); len(codes) > 0 {
		where = "WHERE kodepos = ANY($1::text[])"
		args = append(args, codes)
	}

	q := `
	SELECT
		kodepos,
		nama_zona,
		kecamatan,
		kelurahan,
		ST_AsGeoJSON(geom),
		ST_Area(geom::geography) / 1e6
	FROM zona_kodepos
	` + where + `
	ORDER BY kodepos;
	`

	rows, err := p.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return ports.ZoneScan{}, fmt.Errorf("list zones: query zona_kodepos table: %w", err)
	}
	defer rows.Close()

	scan := ports.ZoneScan{Zones: make([]domain.Zone, 0, 16)}
	for rows.Next() {
		var r zoneRow
		err := rows.Scan(&r.postalCode, &r.zoneName, &r.district, &r.subdistrict, &r.geometry, &r.areaKm2)
		if err != nil {
			return ports.ZoneScan{}, fmt.Errorf("list zones: scan row: %w", err)
		}

		z, err := r.toZone()
		if err != nil {
			slog.WarnContext(ctx, "zone skipped", "postal_code", r.postalCode, "error", err)
			scan.Skipped++
			continue
		}
		scan.Zones = append(scan.Zones, z)
	}

	if err := rows.Err(); err != nil {
		return ports.ZoneScan{}, fmt.Errorf("list zones: row iteration: %w", err)
	}
	return scan, nil
}
