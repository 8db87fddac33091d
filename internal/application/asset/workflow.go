// Package asset implementa el flujo de solicitudes de bienes nacionales:
// registro directo por admin/superadmin, solicitud pendiente por un jefe y
// aprobación posterior.
//
//	Pendiente (aprobado=false) ──approve──▶ Aprobado (aprobado=true)
//
// No hay transición inversa. Un jefe no edita ni sus propias solicitudes.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
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

// Workflow casos de uso de bienes.
type Workflow struct {
	assets repository.AssetRepository
	depts  repository.DepartmentRepository
	docs   ports.DocumentStore
	now    func() time.Time
}

// NewWorkflow construye el flujo de bienes.
func NewWorkflow(assets repository.AssetRepository, depts repository.DepartmentRepository, docs ports.DocumentStore) *Workflow {
	return &Workflow{assets: assets, depts: depts, docs: docs, now: time.Now}
}

// ownDepartments resuelve la jefatura por búsqueda inversa en Department.encargado.
func (w *Workflow) ownDepartments(ctx context.Context, caller policy.Caller) ([]string, error) {
	if caller.Role.IsAdministrative() {
		return nil, nil
	}
	depts, err := w.depts.ListByEncargado(ctx, caller.Username)
	if err != nil {
		return nil, fmt.Errorf("departamentos del encargado: %w", err)
	}
	return entity.DepartmentNames(depts), nil
}

func (w *Workflow) scope(ctx context.Context, caller policy.Caller) (policy.Scope, error) {
	own, err := w.ownDepartments(ctx, caller)
	if err != nil {
		return policy.Scope{}, err
	}
	return policy.ScopeFor(caller, own), nil
}

// List devuelve los bienes visibles para el caller.
func (w *Workflow) List(ctx context.Context, caller policy.Caller, q dto.AssetListQuery) ([]dto.AssetResponse, error) {
	if err := policy.Check(caller.Role, policy.AssetList); err != nil {
		return nil, err
	}
	scope, err := w.scope(ctx, caller)
	if err != nil {
		return nil, err
	}
	filter := repository.AssetFilter{
		Scoped:      !scope.All,
		Departments: scope.Departments,
		CreatedBy:   scope.Username,
		PendingOnly: q.PendingOnly,
	}
	if q.Status != "" {
		status := entity.AssetStatus(q.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, q.Status)
		}
		filter.Status = status
	}
	list, err := w.assets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssetResponse, 0, len(list))
	for _, a := range list {
		// el repositorio ya filtra; se revalida contra la política por si el filtro SQL diverge
		if scope.AllowsAsset(a) {
			out = append(out, toAssetResponse(a))
		}
	}
	return out, nil
}

// Get devuelve un bien si el caller puede verlo. Fuera de alcance se responde NotFound.
func (w *Workflow) Get(ctx context.Context, caller policy.Caller, id string) (*dto.AssetResponse, error) {
	if err := policy.Check(caller.Role, policy.AssetRead); err != nil {
		return nil, err
	}
	a, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := w.scope(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsAsset(a) {
		return nil, domain.ErrNotFound
	}
	out := toAssetResponse(a)
	return &out, nil
}

// Create registra un bien. Admin/superadmin lo registran aprobado; un jefe crea una
// solicitud pendiente en su departamento, o recibe ErrNotDepartmentHead si no encabeza ninguno.
func (w *Workflow) Create(ctx context.Context, caller policy.Caller, in dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	if err := policy.Check(caller.Role, policy.AssetCreate); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(in.AssetCode())
	title := strings.TrimSpace(in.AssetTitle())
	if id == "" || title == "" {
		return nil, fmt.Errorf("%w: código y título son requeridos", domain.ErrInvalidInput)
	}
	status := entity.AssetOperational
	if in.Status != "" {
		status = entity.AssetStatus(in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.Status)
		}
	}
	if in.Value != nil && in.Value.IsNegative() {
		return nil, fmt.Errorf("%w: el valor no puede ser negativo", domain.ErrInvalidInput)
	}

	now := w.now()
	a := &entity.Asset{
		ID:               id,
		Title:            title,
		Condition:        strings.TrimSpace(in.Condition),
		Status:           status,
		Location:         strings.TrimSpace(in.Location),
		AcquisitionValue: in.Value,
		CreatedBy:        caller.Username,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if caller.Role.IsAdministrative() {
		a.Approved = true
		a.Department = trimmedOrNil(in.Department)
	} else {
		own, err := w.ownDepartments(ctx, caller)
		if err != nil {
			return nil, err
		}
		if len(own) == 0 {
			return nil, domain.ErrNotDepartmentHead
		}
		dept := own[0]
		if requested := trimmedOrNil(in.Department); requested != nil && policy.ScopeFor(caller, own).Owns(*requested) {
			dept = *requested
		}
		a.Approved = false
		a.Department = &dept
	}

	if err := w.assets.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: creación fallida, verifique que el código %q no esté duplicado", domain.ErrDuplicate, id)
		}
		return nil, err
	}

	log.Info().
		Str("asset_id", a.ID).
		Str("creado_por", a.CreatedBy).
		Bool("aprobado", a.Approved).
		Msg("bien registrado")

	out := toAssetResponse(a)
	return &out, nil
}

// Update modifica los campos descriptivos de un bien (solo admin/superadmin).
// No toca aprobado, creador ni documento.
func (w *Workflow) Update(ctx context.Context, caller policy.Caller, id string, in dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	if err := policy.Check(caller.Role, policy.AssetUpdate); err != nil {
		return nil, err
	}
	a, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: el título no puede quedar vacío", domain.ErrInvalidInput)
		}
		a.Title = title
	}
	if in.Condition != nil {
		a.Condition = strings.TrimSpace(*in.Condition)
	}
	if in.Status != nil {
		status := entity.AssetStatus(*in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, *in.Status)
		}
		a.Status = status
	}
	if in.Location != nil {
		a.Location = strings.TrimSpace(*in.Location)
	}
	if in.Value != nil {
		if in.Value.IsNegative() {
			return nil, fmt.Errorf("%w: el valor no puede ser negativo", domain.ErrInvalidInput)
		}
		a.AcquisitionValue = in.Value
	}
	if in.Department != nil {
		a.Department = trimmedOrNil(in.Department)
	}
	a.UpdatedAt = w.now()
	if err := w.assets.Update(ctx, a); err != nil {
		return nil, err
	}
	return w.reload(ctx, a.ID)
}

// Approve pasa un bien pendiente a aprobado. Aprobar uno ya aprobado no cambia nada.
func (w *Workflow) Approve(ctx context.Context, caller policy.Caller, id string) (*dto.AssetResponse, error) {
	if err := policy.Check(caller.Role, policy.AssetApprove); err != nil {
		return nil, err
	}
	a, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := w.assets.Approve(ctx, a.ID, w.now())
	if err != nil {
		return nil, err
	}
	if changed {
		log.Info().Str("asset_id", a.ID).Str("aprobado_por", caller.Username).Msg("bien aprobado")
	}
	return w.reload(ctx, a.ID)
}

// Delete elimina un bien (solo admin/superadmin). El documento adjunto se borra sin retención.
func (w *Workflow) Delete(ctx context.Context, caller policy.Caller, id string) error {
	if err := policy.Check(caller.Role, policy.AssetDelete); err != nil {
		return err
	}
	a, err := w.load(ctx, id)
	if err != nil {
		return err
	}
	if err := w.assets.Delete(ctx, a.ID); err != nil {
		return err
	}
	if a.DocumentPath != nil {
		w.removeDocument(*a.DocumentPath)
	}
	return nil
}

// AttachDocument guarda un archivo y lo enlaza al bien, reemplazando el anterior.
// Pueden adjuntar admin/superadmin o quien creó el bien. Si la actualización de la
// fila falla, el archivo recién escrito se elimina.
func (w *Workflow) AttachDocument(ctx context.Context, caller policy.Caller, id, filename string, r io.Reader) (*dto.AssetResponse, error) {
	if err := policy.Check(caller.Role, policy.AssetAttach); err != nil {
		return nil, err
	}
	a, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Role.IsAdministrative() && a.CreatedBy != caller.Username {
		return nil, fmt.Errorf("%w: solo el creador o un administrador puede adjuntar documentos", domain.ErrForbidden)
	}

	path, err := w.docs.Save(ctx, a.ID, filename, r)
	if err != nil {
		return nil, fmt.Errorf("guardar documento: %w", err)
	}
	previous, err := w.assets.SetDocument(ctx, a.ID, path, w.now())
	if err != nil {
		log.Error().Err(err).Str("asset_id", a.ID).Str("path", path).Msg("actualizando bien tras subir documento; se descarta el archivo")
		w.removeDocument(path)
		return nil, err
	}
	if previous != nil && *previous != path {
		w.removeDocument(*previous)
	}
	return w.reload(ctx, a.ID)
}

// Document abre el documento adjunto de un bien con el mismo alcance que Get.
// Sin documento se responde NotFound. El llamador cierra el lector.
func (w *Workflow) Document(ctx context.Context, caller policy.Caller, id string) (io.ReadCloser, string, error) {
	if err := policy.Check(caller.Role, policy.AssetRead); err != nil {
		return nil, "", err
	}
	a, err := w.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	scope, err := w.scope(ctx, caller)
	if err != nil {
		return nil, "", err
	}
	if !scope.AllowsAsset(a) || a.DocumentPath == nil {
		return nil, "", domain.ErrNotFound
	}
	rc, err := w.docs.Open(ctx, *a.DocumentPath)
	if err != nil {
		return nil, "", err
	}
	return rc, filepath.Base(*a.DocumentPath), nil
}

func (w *Workflow) load(ctx context.Context, id string) (*entity.Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	a, err := w.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// reload relee la fila tras una escritura para responder con su estado actual.
func (w *Workflow) reload(ctx context.Context, id string) (*dto.AssetResponse, error) {
	a, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toAssetResponse(a)
	return &out, nil
}

func (w *Workflow) removeDocument(path string) {
	if err := w.docs.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("no se pudo eliminar el documento")
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toAssetResponse(a *entity.Asset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:         a.ID,
		Title:      a.Title,
		Condition:  a.Condition,
		Status:     string(a.Status),
		Location:   a.Location,
		Value:      a.AcquisitionValue,
		Department: a.Department,
		Approved:   a.Approved,
		CreatedBy:  a.CreatedBy,
		Document:   a.DocumentPath,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
