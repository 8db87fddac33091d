// Package testutil reúne repositorios en memoria y dobles de puertos para los tests
// de casos de uso y handlers. Replican el contrato de los adaptadores PostgreSQL:
// búsquedas sin fila devuelven (nil, nil) y las colisiones de clave domain.ErrDuplicate.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
)

var (
	_ repository.UserRepository       = (*Users)(nil)
	_ repository.DepartmentRepository = (*Departments)(nil)
	_ repository.AssetRepository      = (*Assets)(nil)
	_ repository.ReportRepository     = (*Reports)(nil)
)

// ── Users ─────────────────────────────────────────────────────────────────────

type Users struct {
	mu   sync.Mutex
	rows map[string]*entity.User
	// FailCreate fuerza un error en Create (para probar rollback).
	FailCreate error
}

func NewUsers(users ...*entity.User) *Users {
	r := &Users{rows: map[string]*entity.User{}}
	for _, u := range users {
		cp := *u
		r.rows[u.ID] = &cp
	}
	return r
}

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return r.FailCreate
	}
	for _, existing := range r.rows {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.rows[u.ID] = &cp
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Users) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.rows))
	for _, u := range r.rows {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *Users) CountByRole(_ context.Context, role entity.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.rows {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// Len número de filas.
func (r *Users) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// ── Departments ───────────────────────────────────────────────────────────────

type Departments struct {
	mu   sync.Mutex
	rows map[string]*entity.Department
	// FailUpsert fuerza un error en Upsert.
	FailUpsert error
}

func NewDepartments(depts ...*entity.Department) *Departments {
	r := &Departments{rows: map[string]*entity.Department{}}
	for _, d := range depts {
		cp := *d
		r.rows[d.Name] = &cp
	}
	return r
}

func (r *Departments) sorted(keep func(*entity.Department) bool) []*entity.Department {
	out := make([]*entity.Department, 0, len(r.rows))
	for _, d := range r.rows {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Departments) List(_ context.Context) ([]*entity.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(*entity.Department) bool { return true }), nil
}

func (r *Departments) GetByName(_ context.Context, name string) (*entity.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.rows[name]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *Departments) ListByEncargado(_ context.Context, username string) ([]*entity.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(d *entity.Department) bool { return d.Encargado == username }), nil
}

func (r *Departments) Upsert(_ context.Context, d *entity.Department) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailUpsert != nil {
		return false, r.FailUpsert
	}
	now := time.Now()
	if existing, ok := r.rows[d.Name]; ok {
		existing.Encargado = d.Encargado
		existing.UpdatedAt = now
		*d = *existing
		return false, nil
	}
	d.CreatedAt, d.UpdatedAt = now, now
	cp := *d
	r.rows[d.Name] = &cp
	return true, nil
}

func (r *Departments) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[name]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, name)
	return nil
}

// ── Assets ────────────────────────────────────────────────────────────────────

type Assets struct {
	mu   sync.Mutex
	rows map[string]*entity.Asset
	// FailUpdate fuerza un error en Update.
	FailUpdate error
	// FailSetDocument fuerza un error en SetDocument.
	FailSetDocument error
}

func NewAssets(assets ...*entity.Asset) *Assets {
	r := &Assets{rows: map[string]*entity.Asset{}}
	for _, a := range assets {
		cp := *a
		r.rows[a.ID] = &cp
	}
	return r
}

func (r *Assets) Create(_ context.Context, a *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[a.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *Assets) GetByID(_ context.Context, id string) (*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.rows[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *Assets) List(_ context.Context, f repository.AssetFilter) ([]*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Asset, 0, len(r.rows))
	for _, a := range r.rows {
		if f.Scoped && !(a.CreatedBy == f.CreatedBy || (a.Approved && a.Department != nil && contains(f.Departments, *a.Department))) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.PendingOnly && a.Approved {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Assets) Update(_ context.Context, a *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailUpdate != nil {
		return r.FailUpdate
	}
	cur, ok := r.rows[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *a
	cp.Approved = cur.Approved
	cp.DocumentPath = cur.DocumentPath
	cp.CreatedBy = cur.CreatedBy
	cp.CreatedAt = cur.CreatedAt
	r.rows[a.ID] = &cp
	return nil
}

func (r *Assets) Approve(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if a.Approved {
		return false, nil
	}
	a.Approved = true
	a.UpdatedAt = at
	return true, nil
}

func (r *Assets) SetDocument(_ context.Context, id, path string, at time.Time) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSetDocument != nil {
		return nil, r.FailSetDocument
	}
	a, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	previous := a.DocumentPath
	p := path
	a.DocumentPath = &p
	a.UpdatedAt = at
	return previous, nil
}

func (r *Assets) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Assets) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// ── Reports ───────────────────────────────────────────────────────────────────

type Reports struct {
	mu     sync.Mutex
	rows   map[int64]*entity.Report
	nextID int64
}

func NewReports(reports ...*entity.Report) *Reports {
	r := &Reports{rows: map[int64]*entity.Report{}}
	for _, rep := range reports {
		cp := *rep
		r.rows[rep.ID] = &cp
		if rep.ID > r.nextID {
			r.nextID = rep.ID
		}
	}
	return r
}

func (r *Reports) Create(_ context.Context, rep *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rep.ID = r.nextID
	now := time.Now()
	rep.CreatedAt, rep.UpdatedAt = now, now
	cp := *rep
	r.rows[rep.ID] = &cp
	return nil
}

func (r *Reports) GetByID(_ context.Context, id int64) (*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep, ok := r.rows[id]; ok {
		cp := *rep
		return &cp, nil
	}
	return nil, nil
}

func (r *Reports) List(_ context.Context, f repository.ReportFilter) ([]*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Report, 0, len(r.rows))
	for _, rep := range r.rows {
		if f.Scoped && !contains(f.Departments, rep.Department) {
			continue
		}
		if f.Status != "" && rep.Status != f.Status {
			continue
		}
		cp := *rep
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Reports) UpdateStatus(_ context.Context, id int64, status entity.ReportStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	rep.Status = status
	rep.UpdatedAt = time.Now()
	return nil
}

func (r *Reports) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Reports) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
