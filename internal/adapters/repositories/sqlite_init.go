package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSqliteSchema creates the tables used for local runs and tests.
// Geometry is stored as GeoJSON text and timestamps as unix nanoseconds.
func InitSqliteSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init sqlite schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init sqlite schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOfficersQuery := `
	CREATE TABLE IF NOT EXISTS petugas (
		id_petugas TEXT PRIMARY KEY,
		nama TEXT NOT NULL DEFAULT '',
		id_kantor TEXT NOT NULL
	);
	`

	createZonesQuery := `
	CREATE TABLE IF NOT EXISTS zona_kodepos (
		kodepos TEXT PRIMARY KEY,
		nama_zona TEXT NOT NULL DEFAULT '',
		kecamatan TEXT NOT NULL DEFAULT '',
		kelurahan TEXT NOT NULL DEFAULT '',
		geom TEXT
	);
	`

	createEventsQuery := `
	CREATE TABLE IF NOT EXISTS titikan_antaran (
		connote TEXT PRIMARY KEY,
		id_petugas TEXT NOT NULL,
		id_kantor TEXT NOT NULL,
		id_regional TEXT NOT NULL DEFAULT '',
		produk TEXT NOT NULL DEFAULT '',
		jenis_kiriman TEXT NOT NULL DEFAULT '',
		is_cod INTEGER NOT NULL DEFAULT 0,
		nominal_cod REAL NOT NULL DEFAULT 0,
		berat_kg REAL NOT NULL DEFAULT 0,
		penerima TEXT NOT NULL DEFAULT '',
		alamat_penerima TEXT NOT NULL DEFAULT '',
		kodepos_penerima TEXT NOT NULL DEFAULT '',
		status_antaran TEXT NOT NULL DEFAULT '',
		keterangan TEXT NOT NULL DEFAULT '',
		waktu_kejadian INTEGER NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`

	createOfficerDayIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_titikan_antaran_petugas_waktu
	ON titikan_antaran(id_petugas, waktu_kejadian);
	`

	createOfficeRangeIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_titikan_antaran_kantor_waktu
	ON titikan_antaran(id_kantor, waktu_kejadian);
	`

	statements := []string{
		createOfficersQuery,
		createZonesQuery,
		createEventsQuery,
		createOfficerDayIndexQuery,
		createOfficeRangeIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init sqlite schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init sqlite schema: commit tx: %w", err)
	}

	return nil
}
