package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
)

var _ repository.AssetRepository = (*AssetRepo)(nil)

const assetColumns = `id, title, condition, status, location, acquisition_value, department,
	approved, created_by, document_path, created_at, updated_at`

// AssetRepo implementación de AssetRepository sobre PostgreSQL.
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador de bienes.
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

// Create inserta un bien. El código es la PK: si ya existe -> domain.ErrDuplicate.
func (r *AssetRepo) Create(ctx context.Context, a *entity.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Title, a.Condition, string(a.Status), a.Location, nullDecimal(a.AcquisitionValue),
		nullIfEmpty(a.Department), a.Approved, a.CreatedBy, nullIfEmpty(a.DocumentPath),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	a, err := scanAsset(r.q.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

// List aplica el filtro de alcance en SQL: con Scoped, solo lo creado por CreatedBy
// o lo aprobado de Departments.
func (r *AssetRepo) List(ctx context.Context, f repository.AssetFilter) ([]*entity.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE ($1::boolean = false OR created_by = $2::text OR (approved AND department = ANY($3::text[])))
		  AND ($4::text = '' OR status = $4::text)
		  AND ($5::boolean = false OR approved = false)
		ORDER BY created_at DESC, id`
	depts := f.Departments
	if depts == nil {
		depts = []string{}
	}
	rows, err := r.q.Query(ctx, query, f.Scoped, f.CreatedBy, depts, string(f.Status), f.PendingOnly)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	var out []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update escribe los campos descriptivos. approved y document_path solo cambian
// vía Approve y SetDocument.
func (r *AssetRepo) Update(ctx context.Context, a *entity.Asset) error {
	query := `
		UPDATE assets SET
			title = $2, condition = $3, status = $4, location = $5, acquisition_value = $6,
			department = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.Title, a.Condition, string(a.Status), a.Location, nullDecimal(a.AcquisitionValue),
		nullIfEmpty(a.Department), a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Approve marca approved=true. Si la fila ya estaba aprobada devuelve changed=false.
func (r *AssetRepo) Approve(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE assets SET approved = true, updated_at = $2 WHERE id = $1 AND NOT approved`, id, at)
	if err != nil {
		return false, fmt.Errorf("approve asset: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("approve asset: %w", err)
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}

// SetDocument reemplaza document_path y devuelve el valor anterior en la misma sentencia.
func (r *AssetRepo) SetDocument(ctx context.Context, id, path string, at time.Time) (*string, error) {
	query := `
		UPDATE assets a SET document_path = $2, updated_at = $3
		FROM (SELECT id, document_path FROM assets WHERE id = $1 FOR UPDATE) prev
		WHERE a.id = prev.id
		RETURNING prev.document_path`
	var previous *string
	if err := r.q.QueryRow(ctx, query, id, path, at).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set asset document: %w", err)
	}
	return previous, nil
}

func (r *AssetRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var (
		a      entity.Asset
		status string
		value  decimal.NullDecimal
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Condition, &status, &a.Location, &value,
		&a.Department, &a.Approved, &a.CreatedBy, &a.DocumentPath, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = entity.AssetStatus(status)
	if value.Valid {
		v := value.Decimal
		a.AcquisitionValue = &v
	}
	return &a, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
