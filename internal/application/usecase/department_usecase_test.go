package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/usecase"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/testutil"
)

func TestDepartments_UpsertListDelete(t *testing.T) {
	uc := usecase.NewDepartmentUseCase(testutil.NewDepartments(&entity.Department{Name: "Tecnología", Encargado: "jefe2"}))
	ctx := context.Background()

	out, err := uc.Upsert(ctx, admin, dto.UpsertDepartmentRequest{Name: " Prensa ", Encargado: "jefe1"})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, "Prensa", out.Department.Name)

	out, err = uc.Upsert(ctx, admin, dto.UpsertDepartmentRequest{Name: "Prensa", Encargado: "jefe3"})
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.Equal(t, "jefe3", out.Department.Encargado)

	list, err := uc.List(ctx, jefe)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Prensa", list[0].Name)

	require.NoError(t, uc.Delete(ctx, admin, "Prensa"))
	assert.ErrorIs(t, uc.Delete(ctx, admin, "Prensa"), domain.ErrNotFound)
}

func TestDepartments_Reglas(t *testing.T) {
	uc := usecase.NewDepartmentUseCase(testutil.NewDepartments())
	ctx := context.Background()

	_, err := uc.Upsert(ctx, jefe, dto.UpsertDepartmentRequest{Name: "Prensa", Encargado: "jefe1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Upsert(ctx, admin, dto.UpsertDepartmentRequest{Name: "Prensa"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Delete(ctx, jefe, "Prensa"), domain.ErrForbidden)
}
