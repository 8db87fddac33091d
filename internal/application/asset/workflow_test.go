package asset_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sibci-api/internal/application/asset"
	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
	"github.com/jhoicas/sibci-api/internal/testutil"
)

var (
	admin = policy.Caller{UserID: "u-admin", Username: "admin", Role: entity.RoleAdmin}
	jefe1 = policy.Caller{UserID: "u-jefe1", Username: "jefe1", Role: entity.RoleJefe}
	jefe2 = policy.Caller{UserID: "u-jefe2", Username: "jefe2", Role: entity.RoleJefe}
)

type fixture struct {
	wf     *asset.Workflow
	assets *testutil.Assets
	docs   *testutil.Documents
}

func newFixture(assets ...*entity.Asset) fixture {
	depts := testutil.NewDepartments(
		&entity.Department{Name: "Prensa", Encargado: "jefe1"},
		&entity.Department{Name: "Archivo", Encargado: "jefe1"},
		&entity.Department{Name: "Tecnología", Encargado: "jefe2"},
	)
	repo := testutil.NewAssets(assets...)
	docs := testutil.NewDocuments()
	return fixture{wf: asset.NewWorkflow(repo, depts, docs), assets: repo, docs: docs}
}

func strPtr(s string) *string { return &s }

func TestCreate_JefeQuedaPendienteEnSuDepartamento(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.wf.Create(ctx, jefe1, dto.CreateAssetRequest{ID: "BN-001", Title: "Laptop", Department: strPtr("Prensa")})
	require.NoError(t, err)
	assert.False(t, out.Approved)
	require.NotNil(t, out.Department)
	assert.Equal(t, "Prensa", *out.Department)
	assert.Equal(t, "jefe1", out.CreatedBy)
	assert.Equal(t, string(entity.AssetOperational), out.Status)

	// el creador ve su solicitud pendiente
	list, err := f.wf.List(ctx, jefe1, dto.AssetListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	// otro jefe no la ve ni por id
	list, err = f.wf.List(ctx, jefe2, dto.AssetListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = f.wf.Get(ctx, jefe2, "BN-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// tras aprobar la ve cualquier jefe del departamento y sigue igual para jefe2
	approved, err := f.wf.Approve(ctx, admin, "BN-001")
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	list, err = f.wf.List(ctx, jefe2, dto.AssetListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_JefeDepartamentoAjenoUsaElPrimeroPropio(t *testing.T) {
	f := newFixture()

	out, err := f.wf.Create(context.Background(), jefe1, dto.CreateAssetRequest{Code: "BN-002", Name: "Silla", Department: strPtr("Tecnología")})
	require.NoError(t, err)
	require.NotNil(t, out.Department)
	assert.Equal(t, "Archivo", *out.Department, "los departamentos propios se ordenan por nombre")
	assert.Equal(t, "Silla", out.Title)
}

func TestCreate_JefeSinDepartamentoNoCreaFila(t *testing.T) {
	f := newFixture()
	sinDepto := policy.Caller{UserID: "u-x", Username: "nadie", Role: entity.RoleJefe}

	_, err := f.wf.Create(context.Background(), sinDepto, dto.CreateAssetRequest{ID: "BN-003", Title: "Impresora"})
	assert.ErrorIs(t, err, domain.ErrNotDepartmentHead)
	assert.Equal(t, 0, f.assets.Len())
}

func TestCreate_AdminQuedaAprobado(t *testing.T) {
	f := newFixture()
	valor := decimal.RequireFromString("1500.50")

	out, err := f.wf.Create(context.Background(), admin, dto.CreateAssetRequest{
		ID: "BN-010", Title: "Servidor", Status: "En Reparación", Value: &valor,
	})
	require.NoError(t, err)
	assert.True(t, out.Approved)
	assert.Nil(t, out.Department)
	assert.Equal(t, "En Reparación", out.Status)
	require.NotNil(t, out.Value)
	assert.True(t, valor.Equal(*out.Value))
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Existente", Approved: true})
	ctx := context.Background()
	negativo := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		in   dto.CreateAssetRequest
		want error
	}{
		{"sin código", dto.CreateAssetRequest{Title: "x"}, domain.ErrInvalidInput},
		{"sin título", dto.CreateAssetRequest{ID: "BN-9"}, domain.ErrInvalidInput},
		{"estado desconocido", dto.CreateAssetRequest{ID: "BN-9", Title: "x", Status: "Roto"}, domain.ErrInvalidInput},
		{"valor negativo", dto.CreateAssetRequest{ID: "BN-9", Title: "x", Value: &negativo}, domain.ErrInvalidInput},
		{"duplicado", dto.CreateAssetRequest{ID: "BN-001", Title: "x"}, domain.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.wf.Create(ctx, admin, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 1, f.assets.Len())
}

func TestCreate_DuplicadoIncluyeMensaje(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Existente", Approved: true})

	_, err := f.wf.Create(context.Background(), admin, dto.CreateAssetRequest{ID: "BN-001", Title: "Otro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no esté duplicado")
}

func TestApprove_EsIdempotente(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Laptop", Approved: false, CreatedBy: "jefe1", Department: strPtr("Prensa")})
	ctx := context.Background()

	first, err := f.wf.Approve(ctx, admin, "BN-001")
	require.NoError(t, err)
	second, err := f.wf.Approve(ctx, admin, "BN-001")
	require.NoError(t, err)
	assert.True(t, second.Approved)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestApprove_Reglas(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Laptop", CreatedBy: "jefe1", Department: strPtr("Prensa")})
	ctx := context.Background()

	_, err := f.wf.Approve(ctx, jefe1, "BN-001")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.wf.Approve(ctx, admin, "NO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateYDelete_SoloAdministrativos(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Laptop", CreatedBy: "jefe1", Department: strPtr("Prensa")})
	ctx := context.Background()

	_, err := f.wf.Update(ctx, jefe1, "BN-001", dto.UpdateAssetRequest{Title: strPtr("Nuevo")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.wf.Delete(ctx, jefe1, "BN-001"), domain.ErrForbidden)

	out, err := f.wf.Update(ctx, admin, "BN-001", dto.UpdateAssetRequest{Title: strPtr("Laptop HP"), Status: strPtr("Fuera de Servicio")})
	require.NoError(t, err)
	assert.Equal(t, "Laptop HP", out.Title)
	assert.Equal(t, "Fuera de Servicio", out.Status)
	assert.False(t, out.Approved, "editar no aprueba")

	_, err = f.wf.Update(ctx, admin, "BN-001", dto.UpdateAssetRequest{Status: strPtr("Perdido")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.wf.Delete(ctx, admin, "BN-001"))
	assert.ErrorIs(t, f.wf.Delete(ctx, admin, "BN-001"), domain.ErrNotFound)
}

func TestList_FiltraPendientes(t *testing.T) {
	f := newFixture(
		&entity.Asset{ID: "A", Title: "a", Approved: true, Status: entity.AssetOperational},
		&entity.Asset{ID: "B", Title: "b", Approved: false, Status: entity.AssetOperational},
		&entity.Asset{ID: "C", Title: "c", Approved: true, Status: entity.AssetInRepair},
	)
	ctx := context.Background()

	pending, err := f.wf.List(ctx, admin, dto.AssetListQuery{PendingOnly: true})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].ID)

	repair, err := f.wf.List(ctx, admin, dto.AssetListQuery{Status: "En Reparación"})
	require.NoError(t, err)
	require.Len(t, repair, 1)
	assert.Equal(t, "C", repair[0].ID)

	_, err = f.wf.List(ctx, admin, dto.AssetListQuery{Status: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAttachDocument_ReemplazaYBorraElAnterior(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Laptop", CreatedBy: "jefe1", Department: strPtr("Prensa")})
	ctx := context.Background()

	first, err := f.wf.AttachDocument(ctx, jefe1, "BN-001", "factura.pdf", strings.NewReader("v1"))
	require.NoError(t, err)
	require.NotNil(t, first.Document)

	second, err := f.wf.AttachDocument(ctx, admin, "BN-001", "factura.pdf", strings.NewReader("v2"))
	require.NoError(t, err)
	require.NotNil(t, second.Document)
	assert.NotEqual(t, *first.Document, *second.Document)
	assert.Equal(t, []string{*first.Document}, f.docs.Removed)
	assert.Len(t, f.docs.Files, 1)
}

func TestAttachDocument_SoloCreadorOAdmin(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Laptop", CreatedBy: "jefe1", Approved: true, Department: strPtr("Tecnología")})

	_, err := f.wf.AttachDocument(context.Background(), jefe2, "BN-001", "a.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.docs.Files)
}

func TestAttachDocument_FalloDeFilaDescartaArchivo(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "BN-001", Title: "Laptop", CreatedBy: "admin", Approved: true})
	f.assets.FailSetDocument = errors.New("db caída")

	_, err := f.wf.AttachDocument(context.Background(), admin, "BN-001", "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Empty(t, f.docs.Files)
	assert.Len(t, f.docs.Removed, 1)

	stored, err := f.assets.GetByID(context.Background(), "BN-001")
	require.NoError(t, err)
	assert.Nil(t, stored.DocumentPath)
}

func TestAttachDocument_NoRevierteAprobacionConcurrente(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "A1", Title: "Laptop", CreatedBy: "jefe1", Department: strPtr("Prensa")})
	ctx := context.Background()

	// el admin aprueba mientras el archivo del jefe todavía se está guardando
	f.docs.OnSave = func() {
		_, err := f.wf.Approve(ctx, admin, "A1")
		require.NoError(t, err)
	}

	out, err := f.wf.AttachDocument(ctx, jefe1, "A1", "factura.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.True(t, out.Approved)
	require.NotNil(t, out.Document)

	stored, err := f.assets.GetByID(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, stored.Approved, "adjuntar no puede deshacer la aprobación")
	require.NotNil(t, stored.DocumentPath)
	assert.Equal(t, *out.Document, *stored.DocumentPath)
}

func TestUpdate_RespondeConLaAprobacionVigente(t *testing.T) {
	f := newFixture(&entity.Asset{ID: "A1", Title: "Laptop", CreatedBy: "jefe1", Department: strPtr("Prensa")})
	ctx := context.Background()

	_, err := f.wf.Approve(ctx, admin, "A1")
	require.NoError(t, err)

	out, err := f.wf.Update(ctx, admin, "A1", dto.UpdateAssetRequest{Location: strPtr("Piso 2")})
	require.NoError(t, err)
	assert.True(t, out.Approved)
	assert.Equal(t, "Piso 2", out.Location)

	stored, err := f.assets.GetByID(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, stored.Approved)
}

func TestDocument_MismoAlcanceQueGet(t *testing.T) {
	f := newFixture(
		&entity.Asset{ID: "BN-001", Title: "Laptop", CreatedBy: "jefe1", Department: strPtr("Prensa")},
		&entity.Asset{ID: "BN-002", Title: "Sin archivo", CreatedBy: "admin", Approved: true},
	)
	ctx := context.Background()

	_, err := f.wf.AttachDocument(ctx, jefe1, "BN-001", "factura.pdf", strings.NewReader("contenido"))
	require.NoError(t, err)

	rc, name, err := f.wf.Document(ctx, jefe1, "BN-001")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "contenido", string(b))
	assert.True(t, strings.HasSuffix(name, "factura.pdf"))

	// jefe2 no ve la solicitud pendiente de jefe1
	_, _, err = f.wf.Document(ctx, jefe2, "BN-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = f.wf.Document(ctx, admin, "BN-002")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = f.wf.Document(ctx, admin, "NO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_MasRecientesPrimero(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(
		&entity.Asset{ID: "A", Title: "a", Approved: true, CreatedAt: base},
		&entity.Asset{ID: "B", Title: "b", Approved: true, CreatedAt: base.Add(2 * time.Hour)},
		&entity.Asset{ID: "C", Title: "c", Approved: true, CreatedAt: base.Add(time.Hour)},
	)

	list, err := f.wf.List(context.Background(), admin, dto.AssetListQuery{})
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"B", "C", "A"}, ids)
}
