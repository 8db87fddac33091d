package repository

import (
	"context"

	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error // domain.ErrDuplicate si el username existe
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	CountByRole(ctx context.Context, role entity.Role) (int, error)
	Delete(ctx context.Context, id string) error // domain.ErrNotFound si no existe
}
