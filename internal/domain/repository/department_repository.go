package repository

import (
	"context"

	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

// DepartmentRepository define el puerto de persistencia para Department.
type DepartmentRepository interface {
	List(ctx context.Context) ([]*entity.Department, error)
	GetByName(ctx context.Context, name string) (*entity.Department, error)
	// ListByEncargado devuelve los departamentos donde username figura como encargado.
	ListByEncargado(ctx context.Context, username string) ([]*entity.Department, error)
	// Upsert crea o actualiza por nombre; created indica si la fila es nueva.
	Upsert(ctx context.Context, dept *entity.Department) (created bool, err error)
	Delete(ctx context.Context, name string) error // domain.ErrNotFound si no existe
}
