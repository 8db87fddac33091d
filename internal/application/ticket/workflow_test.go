package ticket_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ticket"
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
	wf       *ticket.Workflow
	reports  *testutil.Reports
	depts    *testutil.Departments
	notifier *testutil.Notifier
}

func newFixture(timeout time.Duration, reports ...*entity.Report) fixture {
	depts := testutil.NewDepartments(
		&entity.Department{Name: "Prensa", Encargado: "jefe1"},
		&entity.Department{Name: "Tecnología", Encargado: "jefe2"},
		&entity.Department{Name: "Archivo"},
	)
	repo := testutil.NewReports(reports...)
	n := &testutil.Notifier{On: true}
	return fixture{
		wf:       ticket.NewWorkflow(repo, depts, n, testutil.PDF{}, timeout),
		reports:  repo,
		depts:    depts,
		notifier: n,
	}
}

func validReport(dept string) dto.CreateReportRequest {
	return dto.CreateReportRequest{Requester: "María", Department: dept, FaultType: "Impresora", Description: "No imprime"}
}

func TestCreate_CopiaEncargadoYNotifica(t *testing.T) {
	f := newFixture(time.Second)

	out, err := f.wf.Create(context.Background(), jefe2, validReport("Prensa"))
	require.NoError(t, err)
	assert.True(t, out.EmailSent)
	assert.Nil(t, out.EmailError)
	assert.Equal(t, "Reporte creado y notificado", out.Message)
	assert.Equal(t, "jefe1", out.Report.Encargado)
	assert.Equal(t, "Pendiente", out.Report.Status)

	require.Equal(t, 1, f.notifier.Count())
	sent := f.notifier.Sent[0]
	assert.Equal(t, "soporte@sibci.gob.ve", sent.To)
	assert.Equal(t, "Nuevo Reporte SIBCI: Impresora - Prensa", sent.Subject)
	assert.Contains(t, sent.HTML, "María")
}

func TestCreate_EncargadoNoSeReenlaza(t *testing.T) {
	f := newFixture(time.Second)
	ctx := context.Background()

	out, err := f.wf.Create(ctx, admin, validReport("Prensa"))
	require.NoError(t, err)

	_, err = f.depts.Upsert(ctx, &entity.Department{Name: "Prensa", Encargado: "jefe2"})
	require.NoError(t, err)

	got, err := f.wf.Get(ctx, admin, out.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, "jefe1", got.Encargado)
}

func TestCreate_PrecondicionesNoPersisten(t *testing.T) {
	f := newFixture(time.Second)
	ctx := context.Background()

	_, err := f.wf.Create(ctx, admin, validReport("Inexistente"))
	assert.ErrorIs(t, err, domain.ErrDepartmentNotFound)

	_, err = f.wf.Create(ctx, admin, validReport("Archivo"))
	assert.ErrorIs(t, err, domain.ErrNoEncargadoAssigned)

	_, err = f.wf.Create(ctx, admin, dto.CreateReportRequest{Requester: "x", Department: "Prensa"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 0, f.reports.Len())
	assert.Equal(t, 0, f.notifier.Count())
}

func TestCreate_CorreoNoConfigurado(t *testing.T) {
	f := newFixture(time.Second)
	f.notifier.On = false

	out, err := f.wf.Create(context.Background(), admin, validReport("Prensa"))
	require.NoError(t, err)
	assert.False(t, out.EmailSent)
	require.NotNil(t, out.EmailError)
	assert.Equal(t, "notificación no configurada", *out.EmailError)
	assert.Equal(t, 1, f.reports.Len())
}

func TestCreate_FalloDeCorreoSeInforma(t *testing.T) {
	f := newFixture(time.Second)
	f.notifier.Err = errors.New("535 autenticación rechazada")

	out, err := f.wf.Create(context.Background(), admin, validReport("Prensa"))
	require.NoError(t, err)
	assert.False(t, out.EmailSent)
	require.NotNil(t, out.EmailError)
	assert.Contains(t, *out.EmailError, "535")
	assert.Equal(t, "Reporte creado (sin notificación)", out.Message)
	assert.Equal(t, 1, f.reports.Len())
}

func TestCreate_TimeoutRespondeYElEnvioSigue(t *testing.T) {
	f := newFixture(20 * time.Millisecond)
	f.notifier.Delay = 150 * time.Millisecond

	start := time.Now()
	out, err := f.wf.Create(context.Background(), admin, validReport("Prensa"))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 120*time.Millisecond)
	assert.False(t, out.EmailSent)
	require.NotNil(t, out.EmailError)
	assert.Contains(t, *out.EmailError, "tiempo de espera")

	assert.Eventually(t, func() bool { return f.notifier.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestList_JefeSoloVeSusDepartamentos(t *testing.T) {
	f := newFixture(time.Second,
		&entity.Report{ID: 1, Department: "Prensa", Encargado: "jefe1", Status: entity.ReportPending},
		&entity.Report{ID: 2, Department: "Tecnología", Encargado: "jefe2", Status: entity.ReportPending},
		&entity.Report{ID: 3, Department: "Prensa", Encargado: "jefe1", Status: entity.ReportResolved},
	)
	ctx := context.Background()

	list, err := f.wf.List(ctx, jefe1, dto.ReportListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID, "más recientes primero")

	all, err := f.wf.List(ctx, admin, dto.ReportListQuery{Status: "Pendiente"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.wf.Get(ctx, jefe1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = f.wf.ExportPDF(ctx, jefe1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStatus_ToggleYExplicito(t *testing.T) {
	f := newFixture(time.Second, &entity.Report{ID: 7, Department: "Prensa", Encargado: "jefe1", Status: entity.ReportPending})
	ctx := context.Background()

	out, err := f.wf.Toggle(ctx, admin, 7)
	require.NoError(t, err)
	assert.Equal(t, "Resuelto", out.Status)

	out, err = f.wf.Toggle(ctx, admin, 7)
	require.NoError(t, err)
	assert.Equal(t, "Pendiente", out.Status)

	for i := 0; i < 2; i++ {
		out, err = f.wf.SetStatus(ctx, admin, 7, "Resuelto")
		require.NoError(t, err)
		assert.Equal(t, "Resuelto", out.Status)
	}

	_, err = f.wf.SetStatus(ctx, admin, 7, "Cerrado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.wf.Toggle(ctx, jefe1, 7)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.wf.Toggle(ctx, admin, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(time.Second, &entity.Report{ID: 1, Department: "Prensa", Status: entity.ReportPending})
	ctx := context.Background()

	assert.ErrorIs(t, f.wf.Delete(ctx, jefe1, 1), domain.ErrForbidden)
	require.NoError(t, f.wf.Delete(ctx, admin, 1))
	assert.ErrorIs(t, f.wf.Delete(ctx, admin, 1), domain.ErrNotFound)
}

func TestExportPDF_IncluyeCampos(t *testing.T) {
	f := newFixture(time.Second, &entity.Report{
		ID: 12, Requester: "María", Department: "Prensa", Encargado: "jefe1",
		FaultType: "Red", Description: "Sin internet", Status: entity.ReportPending,
	})

	b, name, err := f.wf.ExportPDF(context.Background(), jefe1, 12)
	require.NoError(t, err)
	assert.Equal(t, "reporte-12.pdf", name)
	for _, want := range []string{"María", "Prensa", "jefe1", "Red", "Sin internet", "Pendiente"} {
		assert.True(t, strings.Contains(string(b), want), want)
	}
}

func TestMailDiagnostics(t *testing.T) {
	env := dto.MailEnvInfo{EmailUserSet: true, EmailPassSet: true, AdminEmailSet: true, SMTPHost: "smtp.gmail.com", SMTPPort: 587}
	n := &testutil.Notifier{On: true}
	d := ticket.NewMailDiagnostics(n, env, time.Second)
	ctx := context.Background()

	_, err := d.Run(ctx, jefe1)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := d.Run(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, env, out.EnvInfo)
	assert.True(t, out.SendResult.OK)
	assert.Equal(t, 1, n.Count())

	n.On = false
	out, err = d.Run(ctx, admin)
	require.NoError(t, err)
	assert.False(t, out.SendResult.OK)
}
