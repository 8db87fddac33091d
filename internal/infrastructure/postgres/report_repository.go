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

var _ repository.ReportRepository = (*ReportRepo)(nil)

const reportColumns = `id, requester, department, encargado, fault_type, description, status, created_at, updated_at`

// ReportRepo implementación de ReportRepository sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Create inserta el reporte y completa ID y fechas desde la base.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	query := `
		INSERT INTO reports (requester, department, encargado, fault_type, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		rep.Requester, rep.Department, rep.Encargado, rep.FaultType, rep.Description, string(rep.Status),
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id int64) (*entity.Report, error) {
	rep, err := scanReport(r.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// List devuelve los reportes más recientes primero.
func (r *ReportRepo) List(ctx context.Context, f repository.ReportFilter) ([]*entity.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE ($1::boolean = false OR department = ANY($2::text[]))
		  AND ($3::text = '' OR status = $3::text)
		ORDER BY created_at DESC, id DESC`
	depts := f.Departments
	if depts == nil {
		depts = []string{}
	}
	rows, err := r.q.Query(ctx, query, f.Scoped, depts, string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	var out []*entity.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id int64, status entity.ReportStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE reports SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReportRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (*entity.Report, error) {
	var rep entity.Report
	var status string
	if err := row.Scan(&rep.ID, &rep.Requester, &rep.Department, &rep.Encargado, &rep.FaultType,
		&rep.Description, &status, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return nil, err
	}
	rep.Status = entity.ReportStatus(status)
	return &rep, nil
}
