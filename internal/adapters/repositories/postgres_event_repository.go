package repositories

import (
	"context"
	"database/sql"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/platform/obs"
	"delivery-analytics-service/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"
)

const postgresEventColumns = `
	connote, id_petugas, id_kantor, id_regional, produk, jenis_kiriman,
	is_cod, nominal_cod, berat_kg, penerima, alamat_penerima,
	kodepos_penerima, status_antaran, keterangan, waktu_kejadian,
	ST_Y(geom), ST_X(geom)
`

// Postgres/PostGIS implementation of the EventRepository port.
type PostgresEventRepository struct{ DB *sql.DB }

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{DB: db}
}

func (p *PostgresEventRepository) ListOfficerEvents(
	ctx context.Context,
	officerID string,
	day time.Time,
) (_ []domain.DeliveryEvent, err error) {
	defer obs.Time(ctx, "postgres.ListOfficerEvents")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres event repository: DB is nil")
	}

	from, to := ports.DayBounds(day)
	q := `
	SELECT ` + postgresEventColumns + `
	FROM titikan_antaran
	WHERE id_petugas = $1
		AND waktu_kejadian >= $2
		AND waktu_kejadian < $3
	ORDER BY waktu_kejadian, connote;
	`
	return p.query(ctx, "list officer events", q, officerID, from, to)
}

func (p *PostgresEventRepository) ListEvents(
	ctx context.Context,
	filter ports.EventFilter,
) (_ []domain.DeliveryEvent, err error) {
	defer obs.Time(ctx, "postgres.ListEvents")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres event repository: DB is nil")
	}

	args := []any{filter.OfficeID, filter.From, filter.To}
	postalClause := ""
	if codes := uniqueTrimmed(filter.PostalCodes); len(codes) > 0 {
		postalClause = "AND kodepos_penerima = ANY($4::text[])"
		args = append(args, codes)
	}

	q := `
	SELECT ` + postgresEventColumns + `
	FROM titikan_antaran
	WHERE id_kantor = $1
		AND waktu_kejadian >= $2
		AND waktu_kejadian < $3
		` + postalClause + `
	ORDER BY waktu_kejadian, connote;
	`
	return p.query(ctx, "list events", q, args...)
}

// InsertEvents stores events in one transaction, skipping connotes already stored.
func (p *PostgresEventRepository) InsertEvents(
	ctx context.Context,
	events []domain.DeliveryEvent,
) (_ int, err error) {
	defer obs.Time(ctx, "postgres.InsertEvents")(&err)

	if p.DB == nil {
		return 0, errors.New("postgres event repository: DB is nil")
	}
	if err := validateEvents(events); err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("insert events: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO titikan_antaran (
		connote, id_petugas, id_kantor, id_regional, produk, jenis_kiriman,
		is_cod, nominal_cod, berat_kg, penerima, alamat_penerima,
		kodepos_penerima, status_antaran, keterangan, waktu_kejadian, geom
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		ST_SetSRID(ST_Point($16, $17), 4326)
	)
	ON CONFLICT (connote) DO NOTHING;
	`)
	if err != nil {
		return 0, fmt.Errorf("insert events: prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		res, err := stmt.ExecContext(ctx,
			strings.TrimSpace(e.Connote), e.OfficerID, e.OfficeID, e.RegionID, e.Product, e.ShipmentType,
			e.IsCOD, e.CODAmount, e.WeightKg, e.Recipient, e.Address,
			strings.TrimSpace(e.PostalCode), e.Status, e.Note, e.EventTimestamp,
			e.Coordinate.Lon, e.Coordinate.Lat,
		)
		if err != nil {
			return 0, fmt.Errorf("insert events: connote=%s: %w", e.Connote, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert events: rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insert events: commit tx: %w", err)
	}
	return inserted, nil
}

func (p *PostgresEventRepository) query(ctx context.Context, op, q string, args ...any) ([]domain.DeliveryEvent, error) {
	rows, err := p.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query titikan_antaran table: %w", op, err)
	}
	defer rows.Close()

	events := make([]domain.DeliveryEvent, 0, 64)
	for rows.Next() {
		var e domain.DeliveryEvent
		err := rows.Scan(
			&e.Connote, &e.OfficerID, &e.OfficeID, &e.RegionID, &e.Product, &e.ShipmentType,
			&e.IsCOD, &e.CODAmount, &e.WeightKg, &e.Recipient, &e.Address,
			&e.PostalCode, &e.Status, &e.Note, &e.EventTimestamp,
			&e.Coordinate.Lat, &e.Coordinate.Lon,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}
	return events, nil
}
