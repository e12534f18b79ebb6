package repositories

import (
	"context"
	"database/sql"
	"delivery-analytics-service/internal/domain"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the OfficerRepository port.
type SqliteOfficerRepository struct{ DB *sql.DB }

func NewSqliteOfficerRepository(db *sql.DB) *SqliteOfficerRepository {
	return &SqliteOfficerRepository{DB: db}
}

func (s *SqliteOfficerRepository) GetOfficer(ctx context.Context, officerID string) (domain.Officer, error) {
	if s.DB == nil {
		return domain.Officer{}, errors.New("sqlite officer repository: DB is nil")
	}

	var o domain.Officer
	err := s.DB.QueryRowContext(ctx, `
	SELECT id_petugas, nama, id_kantor
	FROM petugas
	WHERE id_petugas = ?;
	`, officerID).Scan(&o.OfficerID, &o.Name, &o.OfficeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Officer{}, fmt.Errorf("get officer %q: %w", officerID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Officer{}, fmt.Errorf("get officer %q: %w", officerID, err)
	}
	return o, nil
}

func (s *SqliteOfficerRepository) ListOfficers(ctx context.Context, officeID string) ([]domain.Officer, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite officer repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id_petugas, nama, id_kantor
	FROM petugas
	WHERE id_kantor = ?
	ORDER BY id_petugas;
	`, officeID)
	if err != nil {
		return nil, fmt.Errorf("list officers: query petugas table: %w", err)
	}
	return scanOfficers(rows)
}

func scanOfficers(rows *sql.Rows) ([]domain.Officer, error) {
	defer rows.Close()

	officers := make([]domain.Officer, 0, 16)
	for rows.Next() {
		var o domain.Officer
		if err := rows.Scan(&o.OfficerID, &o.Name, &o.OfficeID); err != nil {
			return nil, fmt.Errorf("list officers: scan row: %w", err)
		}
		officers = append(officers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list officers: row iteration: %w", err)
	}
	return officers, nil
}
