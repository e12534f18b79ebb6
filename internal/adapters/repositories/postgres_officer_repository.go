package repositories

import (
	"context"
	"database/sql"
	"delivery-analytics-service/internal/domain"
	"errors"
	"fmt"
)

// Postgres implementation of the OfficerRepository port.
type PostgresOfficerRepository struct{ DB *sql.DB }

func NewPostgresOfficerRepository(db *sql.DB) *PostgresOfficerRepository {
	return &PostgresOfficerRepository{DB: db}
}

func (p *PostgresOfficerRepository) GetOfficer(ctx context.Context, officerID string) (domain.Officer, error) {
	if p.DB == nil {
		return domain.Officer{}, errors.New("postgres officer repository: DB is nil")
	}

	var o domain.Officer
	err := p.DB.QueryRowContext(ctx, `
	SELECT id_petugas, nama, id_kantor
	FROM petugas
	WHERE id_petugas = $1;
	`, officerID).Scan(&o.OfficerID, &o.Name, &o.OfficeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Officer{}, fmt.Errorf("get officer %q: %w", officerID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Officer{}, fmt.Errorf("get officer %q: %w", officerID, err)
	}
	return o, nil
}

func (p *PostgresOfficerRepository) ListOfficers(ctx context.Context, officeID string) ([]domain.Officer, error) {
	if p.DB == nil {
		return nil, errors.New("postgres officer repository: DB is nil")
	}

	rows, err := p.DB.QueryContext(ctx, `
	SELECT id_petugas, nama, id_kantor
	FROM petugas
	WHERE id_kantor = $1
	ORDER BY id_petugas;
	`, officeID)
	if err != nil {
		return nil, fmt.Errorf("list officers: query petugas table: %w", err)
	}
	return scanOfficers(rows)
}
