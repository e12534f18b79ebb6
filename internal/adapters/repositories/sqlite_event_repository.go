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

const sqliteEventColumns = `
	connote, id_petugas, id_kantor, id_regional, produk, jenis_kiriman,
	is_cod, nominal_cod, berat_kg, penerima, alamat_penerima,
	kodepos_penerima, status_antaran, keterangan, waktu_kejadian, lat, lon
`

// SQLite-backed implementation of the EventRepository port.
type SqliteEventRepository struct{ DB *sql.DB }

func NewSqliteEventRepository(db *sql.DB) *SqliteEventRepository {
	return &SqliteEventRepository{DB: db}
}

func (s *SqliteEventRepository) ListOfficerEvents(
	ctx context.Context,
	officerID string,
	day time.Time,
) (_ []domain.DeliveryEvent, err error) {
	defer obs.Time(ctx, "sqlite.ListOfficerEvents")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite event repository: DB is nil")
	}

	from, to := ports.DayBounds(day)
	q := `
	SELECT ` + sqliteEventColumns + `
	FROM titikan_antaran
	WHERE id_petugas = ?
		AND waktu_kejadian >= ?
		AND waktu_kejadian < ?
	ORDER BY waktu_kejadian, connote;
	`
	return s.query(ctx, "list officer events", q, officerID, from.UnixNano(), to.UnixNano())
}

func (s *SqliteEventRepository) ListEvents(
	ctx context.Context,
	filter ports.EventFilter,
) (_ []domain.DeliveryEvent, err error) {
	defer obs.Time(ctx, "sqlite.ListEvents")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite event repository: DB is nil")
	}

	args := []any{filter.OfficeID, filter.From.UnixNano(), filter.To.UnixNano()}
	postalClause := ""
	if codes := uniqueTrimmed(filter.PostalCodes); len(codes) > 0 {
		// SQLite does not support binding slices directly in an IN (...) clause.
		// Only the placeholder structure is interpolated; all values remain parameterized.
		postalClause = fmt.Sprintf("AND kodepos_penerima IN (%s)", placeholders(len(codes)))
		for _, c := range codes {
			args = append(args, c)
		}
	}

	q := fmt.Sprintf(`
	SELECT %s
	FROM titikan_antaran
	WHERE id_kantor = ?
		AND waktu_kejadian >= ?
		AND waktu_kejadian < ?
		%s
	ORDER BY waktu_kejadian, connote;
	`, sqliteEventColumns, postalClause)

	return s.query(ctx, "list events", q, args...)
}

// InsertEvents stores events in one transaction, skipping connotes already stored.
func (s *SqliteEventRepository) InsertEvents(
	ctx context.Context,
	events []domain.DeliveryEvent,
) (_ int, err error) {
	defer obs.Time(ctx, "sqlite.InsertEvents")(&err)

	if s.DB == nil {
		return 0, errors.New("sqlite event repository: DB is nil")
	}
	if err := validateEvents(events); err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("insert events: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO titikan_antaran (`+sqliteEventColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
			strings.TrimSpace(e.PostalCode), e.Status, e.Note, e.EventTimestamp.UnixNano(),
			e.Coordinate.Lat, e.Coordinate.Lon,
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

func (s *SqliteEventRepository) query(ctx context.Context, op, q string, args ...any) ([]domain.DeliveryEvent, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query titikan_antaran table: %w", op, err)
	}
	defer rows.Close()

	events := make([]domain.DeliveryEvent, 0, 64)
	for rows.Next() {
		var e domain.DeliveryEvent
		var ts int64
		err := rows.Scan(
			&e.Connote, &e.OfficerID, &e.OfficeID, &e.RegionID, &e.Product, &e.ShipmentType,
			&e.IsCOD, &e.CODAmount, &e.WeightKg, &e.Recipient, &e.Address,
			&e.PostalCode, &e.Status, &e.Note, &ts, &e.Coordinate.Lat, &e.Coordinate.Lon,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		e.EventTimestamp = time.Unix(0, ts).UTC()
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}
	return events, nil
}

func validateEvents(events []domain.DeliveryEvent) error {
	errs := make([]error, 0)
	for _, e := range events {
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("insert events: %w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// Unique non-empty values in input order.
func uniqueTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ",")
}
