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

// SQLite-backed implementation of the ZoneRepository port.
// Zone geometry is stored as GeoJSON text; the area is derived on read.
type SqliteZoneRepository struct{ DB *sql.DB }

func NewSqliteZoneRepository(db *sql.DB) *SqliteZoneRepository {
	return &SqliteZoneRepository{DB: db}
}

func (s *SqliteZoneRepository) ListZones(ctx context.Context, postalCodes []string) (_ ports.ZoneScan, err error) {
	defer obs.Time(ctx, "sqlite.ListZones")(&err)

	if s.DB == nil {
		return ports.ZoneScan{}, errors.New("sqlite zone repository: DB is nil")
	}

	args := make([]any, 0, len(postalCodes))
	where := ""
	if codes := uniqueTrimmed(postalCodes); len(codes) > 0 {
		where = fmt.Sprintf("WHERE kodepos IN (%s)", placeholders(len(codes)))
		for _, c := range codes {
			args = append(args, c)
		}
	}

	q := fmt.Sprintf(`
	SELECT kodepos, nama_zona, kecamatan, kelurahan, geom
	FROM zona_kodepos
	%s
	ORDER BY kodepos;
	`, where)

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return ports.ZoneScan{}, fmt.Errorf("list zones: query zona_kodepos table: %w", err)
	}
	defer rows.Close()

	scan := ports.ZoneScan{Zones: make([]domain.Zone, 0, len(args))}
	for rows.Next() {
		var r zoneRow
		if err := rows.Scan(&r.postalCode, &r.zoneName, &r.district, &r.subdistrict, &r.geometry); err != nil {
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
