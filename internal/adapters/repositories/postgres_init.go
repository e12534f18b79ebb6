package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitPostgresSchema creates the PostGIS extension and the analytics tables.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,
		`
		CREATE TABLE IF NOT EXISTS petugas (
			id_petugas TEXT PRIMARY KEY,
			nama TEXT NOT NULL DEFAULT '',
			id_kantor TEXT NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS zona_kodepos (
			kodepos TEXT PRIMARY KEY,
			nama_zona TEXT NOT NULL DEFAULT '',
			kecamatan TEXT NOT NULL DEFAULT '',
			kelurahan TEXT NOT NULL DEFAULT '',
			geom geometry(Geometry, 4326)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS titikan_antaran (
			connote TEXT PRIMARY KEY,
			id_petugas TEXT NOT NULL,
			id_kantor TEXT NOT NULL,
			id_regional TEXT NOT NULL DEFAULT '',
			produk TEXT NOT NULL DEFAULT '',
			jenis_kiriman TEXT NOT NULL DEFAULT '',
			is_cod BOOLEAN NOT NULL DEFAULT FALSE,
			nominal_cod DOUBLE PRECISION NOT NULL DEFAULT 0,
			berat_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			penerima TEXT NOT NULL DEFAULT '',
			alamat_penerima TEXT NOT NULL DEFAULT '',
			kodepos_penerima TEXT NOT NULL DEFAULT '',
			status_antaran TEXT NOT NULL DEFAULT '',
			keterangan TEXT NOT NULL DEFAULT '',
			waktu_kejadian TIMESTAMPTZ NOT NULL,
			geom geometry(Point, 4326) NOT NULL
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_titikan_antaran_petugas_waktu
		ON titikan_antaran(id_petugas, waktu_kejadian);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_titikan_antaran_kantor_waktu
		ON titikan_antaran(id_kantor, waktu_kejadian);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_zona_kodepos_geom
		ON zona_kodepos USING GIST (geom);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
