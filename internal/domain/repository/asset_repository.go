package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

// AssetFilter acota un listado de bienes.
// Con Scoped=true solo se devuelven filas (aprobadas y de Departments) o creadas por CreatedBy.
type AssetFilter struct {
	Scoped      bool
	Departments []string
	CreatedBy   string
	Status      entity.AssetStatus // vacío = todos
	PendingOnly bool
}

// AssetRepository define el puerto de persistencia para Asset.
type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error // domain.ErrDuplicate si el código existe
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]*entity.Asset, error)
	Update(ctx context.Context, asset *entity.Asset) error // solo campos descriptivos; domain.ErrNotFound si no existe
	Delete(ctx context.Context, id string) error           // domain.ErrNotFound si no existe

	// Approve marca el bien como aprobado. changed=false si ya lo estaba.
	Approve(ctx context.Context, id string, at time.Time) (changed bool, err error)
	// SetDocument enlaza un documento y devuelve la ruta que tenía antes (nil si ninguna).
	SetDocument(ctx context.Context, id, path string, at time.Time) (previous *string, err error)
}
