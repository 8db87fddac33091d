// Package ticket implementa los reportes de soporte técnico: alta con notificación
// por correo al administrador, cambio de estado, consulta acotada y exportación PDF.
package ticket

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
)

const (
	msgNotified      = "Reporte creado y notificado"
	msgNotNotified   = "Reporte creado (sin notificación)"
	errNotConfigured = "notificación no configurada"

	// backgroundGrace tiempo extra que se deja correr el envío tras agotar la espera del request.
	backgroundGrace = 30 * time.Second
)

// Workflow casos de uso de reportes.
type Workflow struct {
	reports  repository.ReportRepository
	depts    repository.DepartmentRepository
	notifier ports.Notifier
	pdf      ports.ReportPDFGenerator
	timeout  time.Duration
}

// NewWorkflow construye el flujo de reportes. timeout acota cuánto espera el
// request por el resultado del correo.
func NewWorkflow(
	reports repository.ReportRepository,
	depts repository.DepartmentRepository,
	notifier ports.Notifier,
	pdf ports.ReportPDFGenerator,
	timeout time.Duration,
) *Workflow {
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	return &Workflow{reports: reports, depts: depts, notifier: notifier, pdf: pdf, timeout: timeout}
}

func (w *Workflow) scope(ctx context.Context, caller policy.Caller) (policy.Scope, error) {
	if caller.Role.IsAdministrative() {
		return policy.ScopeFor(caller, nil), nil
	}
	depts, err := w.depts.ListByEncargado(ctx, caller.Username)
	if err != nil {
		return policy.Scope{}, fmt.Errorf("departamentos del encargado: %w", err)
	}
	return policy.ScopeFor(caller, entity.DepartmentNames(depts)), nil
}

// List devuelve los reportes visibles, más recientes primero.
func (w *Workflow) List(ctx context.Context, caller policy.Caller, q dto.ReportListQuery) ([]dto.ReportResponse, error) {
	if err := policy.Check(caller.Role, policy.ReportList); err != nil {
		return nil, err
	}
	scope, err := w.scope(ctx, caller)
	if err != nil {
		return nil, err
	}
	filter := repository.ReportFilter{Scoped: !scope.All, Departments: scope.Departments}
	if q.Status != "" {
		status := entity.ReportStatus(q.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, q.Status)
		}
		filter.Status = status
	}
	list, err := w.reports.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportResponse, 0, len(list))
	for _, r := range list {
		if scope.AllowsReport(r) {
			out = append(out, toReportResponse(r))
		}
	}
	return out, nil
}

// Get devuelve un reporte dentro del alcance del caller.
func (w *Workflow) Get(ctx context.Context, caller policy.Caller, id int64) (*dto.ReportResponse, error) {
	r, err := w.loadScoped(ctx, caller, id, policy.ReportRead)
	if err != nil {
		return nil, err
	}
	out := toReportResponse(r)
	return &out, nil
}

// Create guarda el reporte y luego notifica al administrador. Si el departamento no
// existe o no tiene encargado no se persiste nada. El fallo del correo nunca anula el
// reporte: se informa en EmailSent/EmailError.
func (w *Workflow) Create(ctx context.Context, caller policy.Caller, in dto.CreateReportRequest) (*dto.CreateReportResponse, error) {
	if err := policy.Check(caller.Role, policy.ReportCreate); err != nil {
		return nil, err
	}
	requester := strings.TrimSpace(in.Requester)
	deptName := strings.TrimSpace(in.Department)
	faultType := strings.TrimSpace(in.FaultType)
	if requester == "" || deptName == "" || faultType == "" {
		return nil, fmt.Errorf("%w: solicitante, departamento y tipo_falla son requeridos", domain.ErrInvalidInput)
	}

	dept, err := w.depts.GetByName(ctx, deptName)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, domain.ErrDepartmentNotFound
	}
	if !dept.HasEncargado() {
		return nil, domain.ErrNoEncargadoAssigned
	}

	r := &entity.Report{
		Requester:   requester,
		Department:  dept.Name,
		Encargado:   dept.Encargado,
		FaultType:   faultType,
		Description: strings.TrimSpace(in.Description),
		Status:      entity.ReportPending,
	}
	if err := w.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("guardar reporte: %w", err)
	}
	log.Info().Int64("report_id", r.ID).Str("departamento", r.Department).Str("creado_por", caller.Username).Msg("reporte creado")

	sent, emailErr := w.notify(r)
	msg := msgNotNotified
	if sent {
		msg = msgNotified
	}
	return &dto.CreateReportResponse{
		Message:    msg,
		Report:     toReportResponse(r),
		EmailSent:  sent,
		EmailError: emailErr,
	}, nil
}

// notify envía el correo en una goroutine y espera a lo sumo w.timeout. Si la
// espera se agota, el envío sigue en segundo plano y su resultado solo se registra.
// El contexto del envío es independiente del request.
func (w *Workflow) notify(r *entity.Report) (bool, *string) {
	if w.notifier == nil || !w.notifier.Enabled() {
		log.Warn().Int64("report_id", r.ID).Msg("correo no enviado: falta configuración")
		return false, strPtr(errNotConfigured)
	}

	n := reportNotification(w.notifier.AdminAddress(), r)
	sendCtx, cancel := context.WithTimeout(context.Background(), w.timeout+backgroundGrace)
	done := make(chan error, 1)
	go func() {
		defer cancel()
		err := w.notifier.Send(sendCtx, n)
		if err != nil {
			log.Error().Err(err).Int64("report_id", r.ID).Msg("error enviando correo de reporte")
		} else {
			log.Info().Int64("report_id", r.ID).Msg("correo de notificación enviado")
		}
		done <- err
	}()

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			return false, strPtr(err.Error())
		}
		return true, nil
	case <-timer.C:
		log.Warn().Int64("report_id", r.ID).Dur("timeout", w.timeout).Msg("correo de reporte sigue en curso; se responde sin esperar")
		return false, strPtr(fmt.Sprintf("tiempo de espera agotado (%s) enviando la notificación", w.timeout))
	}
}

// SetStatus fija el estado. Con estado vacío alterna Pendiente/Resuelto.
func (w *Workflow) SetStatus(ctx context.Context, caller policy.Caller, id int64, status string) (*dto.ReportResponse, error) {
	if err := policy.Check(caller.Role, policy.ReportUpdate); err != nil {
		return nil, err
	}
	r, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := r.Status.Toggled()
	if status != "" {
		next = entity.ReportStatus(status)
		if !next.Valid() {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
		}
	}
	if next != r.Status {
		if err := w.reports.UpdateStatus(ctx, id, next); err != nil {
			return nil, err
		}
		if r, err = w.load(ctx, id); err != nil {
			return nil, err
		}
	}
	out := toReportResponse(r)
	return &out, nil
}

// Toggle alterna el estado del reporte.
func (w *Workflow) Toggle(ctx context.Context, caller policy.Caller, id int64) (*dto.ReportResponse, error) {
	return w.SetStatus(ctx, caller, id, "")
}

// Delete elimina un reporte.
func (w *Workflow) Delete(ctx context.Context, caller policy.Caller, id int64) error {
	if err := policy.Check(caller.Role, policy.ReportDelete); err != nil {
		return err
	}
	return w.reports.Delete(ctx, id)
}

// ExportPDF genera el PDF del reporte y el nombre de archivo sugerido.
func (w *Workflow) ExportPDF(ctx context.Context, caller policy.Caller, id int64) ([]byte, string, error) {
	r, err := w.loadScoped(ctx, caller, id, policy.ReportRead)
	if err != nil {
		return nil, "", err
	}
	b, err := w.pdf.GenerateReportPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf: %w", err)
	}
	return b, "reporte-" + strconv.FormatInt(r.ID, 10) + ".pdf", nil
}

func (w *Workflow) loadScoped(ctx context.Context, caller policy.Caller, id int64, action policy.Action) (*entity.Report, error) {
	if err := policy.Check(caller.Role, action); err != nil {
		return nil, err
	}
	r, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := w.scope(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsReport(r) {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (w *Workflow) load(ctx context.Context, id int64) (*entity.Report, error) {
	r, err := w.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func reportNotification(to string, r *entity.Report) ports.Notification {
	subject := fmt.Sprintf("Nuevo Reporte SIBCI: %s - %s", r.FaultType, r.Department)
	when := r.CreatedAt.Format("02/01/2006 15:04")
	var b strings.Builder
	b.WriteString("<h3>Nuevo Reporte de Soporte Técnico</h3>")
	fmt.Fprintf(&b, "<p><strong>N°:</strong> %d</p>", r.ID)
	fmt.Fprintf(&b, "<p><strong>Solicitante:</strong> %s</p>", html.EscapeString(r.Requester))
	fmt.Fprintf(&b, "<p><strong>Departamento:</strong> %s</p>", html.EscapeString(r.Department))
	fmt.Fprintf(&b, "<p><strong>Encargado:</strong> %s</p>", html.EscapeString(r.Encargado))
	fmt.Fprintf(&b, "<p><strong>Falla:</strong> %s</p>", html.EscapeString(r.FaultType))
	fmt.Fprintf(&b, "<p><strong>Descripción:</strong> %s</p>", html.EscapeString(r.Description))
	fmt.Fprintf(&b, "<hr><p><small>Fecha: %s</small></p>", when)

	text := fmt.Sprintf("Nuevo reporte #%d\nSolicitante: %s\nDepartamento: %s\nEncargado: %s\nFalla: %s\nDescripción: %s\nFecha: %s\n",
		r.ID, r.Requester, r.Department, r.Encargado, r.FaultType, r.Description, when)

	return ports.Notification{To: to, Subject: subject, HTML: b.String(), Text: text}
}

func toReportResponse(r *entity.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:          r.ID,
		Requester:   r.Requester,
		Department:  r.Department,
		Encargado:   r.Encargado,
		FaultType:   r.FaultType,
		Description: r.Description,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func strPtr(s string) *string { return &s }
