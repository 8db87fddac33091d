package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación de DepartmentRepository sobre PostgreSQL (usable con pool o tx).
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador de departamentos.
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	return r.list(ctx, `SELECT name, encargado, created_at, updated_at FROM departments ORDER BY name`)
}

func (r *DepartmentRepo) GetByName(ctx context.Context, name string) (*entity.Department, error) {
	var d entity.Department
	err := r.q.QueryRow(ctx,
		`SELECT name, encargado, created_at, updated_at FROM departments WHERE name = $1`, name,
	).Scan(&d.Name, &d.Encargado, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// ListByEncargado es la búsqueda inversa que define la jefatura de un usuario.
func (r *DepartmentRepo) ListByEncargado(ctx context.Context, username string) ([]*entity.Department, error) {
	return r.list(ctx,
		`SELECT name, encargado, created_at, updated_at FROM departments WHERE encargado = $1 ORDER BY name`, username)
}

// Upsert crea el departamento o reasigna su encargado. xmax = 0 solo en filas recién insertadas.
func (r *DepartmentRepo) Upsert(ctx context.Context, d *entity.Department) (bool, error) {
	query := `
		INSERT INTO departments (name, encargado)
		VALUES ($1, $2)
		ON CONFLICT (name)
		DO UPDATE SET encargado = EXCLUDED.encargado, updated_at = now()
		RETURNING created_at, updated_at, (xmax = 0) AS inserted`
	var created bool
	if err := r.q.QueryRow(ctx, query, d.Name, d.Encargado).Scan(&d.CreatedAt, &d.UpdatedAt, &created); err != nil {
		return false, fmt.Errorf("upsert department: %w", err)
	}
	return created, nil
}

func (r *DepartmentRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM departments WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DepartmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Department, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var out []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.Name, &d.Encargado, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
