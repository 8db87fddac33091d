package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}
