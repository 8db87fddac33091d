package postgres

import (
	"context"
	"fmt"
)

// schema es idempotente: se aplica en cada arranque.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL CHECK (role IN ('superadmin', 'admin', 'jefe')),
		department    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		name       TEXT PRIMARY KEY,
		encargado  TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_departments_encargado ON departments (encargado)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		condition         TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'Operativo'
		                  CHECK (status IN ('Operativo', 'En Reparación', 'Fuera de Servicio')),
		location          TEXT NOT NULL DEFAULT '',
		acquisition_value NUMERIC(18,2),
		department        TEXT,
		approved          BOOLEAN NOT NULL DEFAULT false,
		created_by        TEXT NOT NULL DEFAULT '',
		document_path     TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_department ON assets (department)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_created_by ON assets (created_by)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id          BIGSERIAL PRIMARY KEY,
		requester   TEXT NOT NULL,
		department  TEXT NOT NULL,
		encargado   TEXT NOT NULL DEFAULT '',
		fault_type  TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'Pendiente' CHECK (status IN ('Pendiente', 'Resuelto')),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_department ON reports (department)`,
}

// ApplySchema crea las tablas e índices que falten.
func ApplySchema(ctx context.Context, q Querier) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	return nil
}
