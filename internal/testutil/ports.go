package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
)

// Captcha doble de ports.CaptchaVerifier.
type Captcha struct {
	On     bool
	Result bool
	Err    error
	Calls  int
}

func (c *Captcha) Enabled() bool { return c.On }

func (c *Captcha) Verify(_ context.Context, _, _ string) (bool, error) {
	c.Calls++
	return c.Result, c.Err
}

// Notifier doble de ports.Notifier. Delay simula un relay lento.
type Notifier struct {
	On    bool
	Err   error
	Delay time.Duration

	mu   sync.Mutex
	Sent []ports.Notification
}

func (n *Notifier) Enabled() bool        { return n.On }
func (n *Notifier) AdminAddress() string { return "soporte@sibci.gob.ve" }

func (n *Notifier) Send(ctx context.Context, msg ports.Notification) error {
	if n.Delay > 0 {
		select {
		case <-time.After(n.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if n.Err != nil {
		return n.Err
	}
	n.mu.Lock()
	n.Sent = append(n.Sent, msg)
	n.mu.Unlock()
	return nil
}

func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}

// Documents doble de ports.DocumentStore en memoria.
type Documents struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Removed []string
	seq     int
	// OnSave, si no es nil, se ejecuta dentro de Save antes de registrar el archivo.
	OnSave func()
}

func NewDocuments() *Documents { return &Documents{Files: map[string][]byte{}} }

func (d *Documents) Save(_ context.Context, assetID, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if d.OnSave != nil {
		d.OnSave()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	path := fmt.Sprintf("%d-%s-%s", d.seq, assetID, filename)
	d.Files[path] = buf.Bytes()
	return path, nil
}

func (d *Documents) Open(_ context.Context, path string) (io.ReadCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.Files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (d *Documents) Remove(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Files, path)
	d.Removed = append(d.Removed, path)
	return nil
}

// PDF doble de ports.ReportPDFGenerator que vuelca los campos en texto plano.
type PDF struct{}

func (PDF) GenerateReportPDF(_ context.Context, r *entity.Report) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF %d %s %s %s %s %s %s", r.ID, r.Requester, r.Department,
		r.Encargado, r.FaultType, r.Status, r.Description)), nil
}

// TxRunner ejecuta la función sobre los repos en memoria y, si falla, restaura
// los usuarios y departamentos previos.
type TxRunner struct {
	Users       *Users
	Departments *Departments
}

func (t *TxRunner) RunUsers(ctx context.Context, fn func(users repository.UserRepository, depts repository.DepartmentRepository) error) error {
	t.Users.mu.Lock()
	userSnap := make(map[string]*entity.User, len(t.Users.rows))
	for k, v := range t.Users.rows {
		cp := *v
		userSnap[k] = &cp
	}
	t.Users.mu.Unlock()
	t.Departments.mu.Lock()
	deptSnap := make(map[string]*entity.Department, len(t.Departments.rows))
	for k, v := range t.Departments.rows {
		cp := *v
		deptSnap[k] = &cp
	}
	t.Departments.mu.Unlock()

	if err := fn(t.Users, t.Departments); err != nil {
		t.Users.mu.Lock()
		t.Users.rows = userSnap
		t.Users.mu.Unlock()
		t.Departments.mu.Lock()
		t.Departments.rows = deptSnap
		t.Departments.mu.Unlock()
		return err
	}
	return nil
}
