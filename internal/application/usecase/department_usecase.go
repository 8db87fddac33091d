package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
)

// DepartmentUseCase gestiona el registro de departamentos y sus encargados.
type DepartmentUseCase struct {
	repo repository.DepartmentRepository
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(repo repository.DepartmentRepository) *DepartmentUseCase {
	return &DepartmentUseCase{repo: repo}
}

// List lista los departamentos en orden alfabético.
func (uc *DepartmentUseCase) List(ctx context.Context, caller policy.Caller) ([]dto.DepartmentResponse, error) {
	if err := policy.Check(caller.Role, policy.DepartmentList); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDepartmentResponse(d))
	}
	return out, nil
}

// Upsert crea o reasigna el encargado de un departamento. No valida que el usuario exista:
// la referencia se resuelve al momento de usarla.
func (uc *DepartmentUseCase) Upsert(ctx context.Context, caller policy.Caller, in dto.UpsertDepartmentRequest) (*dto.UpsertDepartmentResponse, error) {
	if err := policy.Check(caller.Role, policy.DepartmentUpsert); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	encargado := strings.TrimSpace(in.Encargado)
	if name == "" || encargado == "" {
		return nil, fmt.Errorf("%w: nombre y encargado son requeridos", domain.ErrInvalidInput)
	}
	dept := &entity.Department{Name: name, Encargado: encargado}
	created, err := uc.repo.Upsert(ctx, dept)
	if err != nil {
		return nil, err
	}
	return &dto.UpsertDepartmentResponse{Department: toDepartmentResponse(dept), Created: created}, nil
}

// Delete elimina un departamento por nombre.
func (uc *DepartmentUseCase) Delete(ctx context.Context, caller policy.Caller, name string) error {
	if err := policy.Check(caller.Role, policy.DepartmentDelete); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	return uc.repo.Delete(ctx, name)
}

func toDepartmentResponse(d *entity.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{Name: d.Name, Encargado: d.Encargado, UpdatedAt: d.UpdatedAt}
}
