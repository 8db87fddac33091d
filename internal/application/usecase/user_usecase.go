package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sibci-api/internal/application/auth"
	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
)

// UserTxRunner ejecuta una función dentro de una transacción con repos de usuarios y departamentos.
// Se usa para crear un jefe y asignarle su departamento de forma atómica.
type UserTxRunner interface {
	RunUsers(ctx context.Context, fn func(users repository.UserRepository, depts repository.DepartmentRepository) error) error
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
	tx   UserTxRunner
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, tx UserTxRunner) *UserUseCase {
	return &UserUseCase{repo: repo, tx: tx}
}

// List lista los usuarios sin hash de contraseña.
func (uc *UserUseCase) List(ctx context.Context, caller policy.Caller) ([]dto.UserResponse, error) {
	if err := policy.Check(caller.Role, policy.UserList); err != nil {
		return nil, err
	}
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// Create crea un usuario. Un admin solo puede crear jefes; el superadmin cualquier rol.
// Si es jefe y trae departamento, el departamento se crea/actualiza con él como encargado
// en la misma transacción.
func (uc *UserUseCase) Create(ctx context.Context, caller policy.Caller, in dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	if err := policy.Check(caller.Role, policy.UserCreate); err != nil {
		return nil, err
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Role)
	}
	if !policy.CanAssignRole(caller.Role, role) {
		return nil, fmt.Errorf("%w: %s no puede crear usuarios con rol %s", domain.ErrForbidden, caller.Role, role)
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son requeridos", domain.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	deptName := strings.TrimSpace(in.Department)
	if role == entity.RoleJefe {
		user.Department = deptName
	}

	var (
		dept     *entity.Department
		previous string
	)
	err = uc.tx.RunUsers(ctx, func(users repository.UserRepository, depts repository.DepartmentRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if role != entity.RoleJefe || deptName == "" {
			return nil
		}
		existing, err := depts.GetByName(ctx, deptName)
		if err != nil {
			return err
		}
		if existing != nil && existing.Encargado != user.Username {
			previous = existing.Encargado
		}
		dept = &entity.Department{Name: deptName, Encargado: user.Username}
		_, err = depts.Upsert(ctx, dept)
		return err
	})
	if err != nil {
		return nil, err
	}
	if previous != "" {
		log.Warn().
			Str("departamento", deptName).
			Str("encargado_anterior", previous).
			Str("encargado_nuevo", user.Username).
			Str("creado_por", caller.Username).
			Msg("departamento reasignado al crear jefe")
	}

	log.Info().
		Str("username", user.Username).
		Str("rol", string(user.Role)).
		Str("creado_por", caller.Username).
		Msg("usuario creado")

	out := &dto.CreateUserResponse{User: toUserResponse(user), PreviousEncargado: previous}
	if dept != nil {
		d := toDepartmentResponse(dept)
		out.Department = &d
	}
	return out, nil
}

// Delete elimina un usuario. Solo el superadmin, y nunca a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, caller policy.Caller, id string) error {
	if err := policy.Check(caller.Role, policy.UserDelete); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	if id == caller.UserID {
		return domain.ErrSelfDelete
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("user_id", id).Str("eliminado_por", caller.Username).Msg("usuario eliminado")
	return nil
}

// EnsureSuperadmin crea el superadmin inicial si no existe ninguno.
func (uc *UserUseCase) EnsureSuperadmin(ctx context.Context, username, password, email string) (bool, error) {
	n, err := uc.repo.CountByRole(ctx, entity.RoleSuperadmin)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, fmt.Errorf("%w: %q existe pero no es superadmin", domain.ErrDuplicate, username)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	now := time.Now()
	err = uc.repo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		FullName:     "Administrador",
		Email:        email,
		Role:         entity.RoleSuperadmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       string(u.Role),
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}
