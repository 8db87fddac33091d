package repository

import (
	"context"

	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

// ReportFilter acota un listado de reportes. Scoped=true limita a Departments.
type ReportFilter struct {
	Scoped      bool
	Departments []string
	Status      entity.ReportStatus // vacío = todos
}

// ReportRepository define el puerto de persistencia para Report.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error // asigna ID y fechas
	GetByID(ctx context.Context, id int64) (*entity.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]*entity.Report, error)
	UpdateStatus(ctx context.Context, id int64, status entity.ReportStatus) error // domain.ErrNotFound si no existe
	Delete(ctx context.Context, id int64) error                                  // domain.ErrNotFound si no existe
}
