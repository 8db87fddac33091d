package policy

import "github.com/jhoicas/sibci-api/internal/domain/entity"

// Caller es la identidad autenticada que origina una operación.
type Caller struct {
	UserID   string
	Username string
	Role     entity.Role
}

// Scope acota las filas visibles para un caller.
// All=true para admin/superadmin; para un jefe, Departments son los departamentos
// donde figura como encargado.
type Scope struct {
	All         bool
	Username    string
	Departments []string
}

// ScopeFor construye el alcance de lectura a partir de los departamentos propios.
func ScopeFor(c Caller, ownDepartments []string) Scope {
	if c.Role.IsAdministrative() {
		return Scope{All: true, Username: c.Username}
	}
	return Scope{Username: c.Username, Departments: ownDepartments}
}

func (s Scope) owns(department string) bool {
	for _, d := range s.Departments {
		if d == department {
			return true
		}
	}
	return false
}

// AllowsAsset: un jefe ve los bienes aprobados de sus departamentos y todo lo que él creó.
func (s Scope) AllowsAsset(a *entity.Asset) bool {
	if s.All {
		return true
	}
	if a.CreatedBy == s.Username {
		return true
	}
	return a.Approved && a.Department != nil && s.owns(*a.Department)
}

// AllowsReport: un jefe ve los reportes de sus departamentos.
func (s Scope) AllowsReport(r *entity.Report) bool {
	return s.All || s.owns(r.Department)
}

// Owns indica si department está entre los departamentos del alcance.
func (s Scope) Owns(department string) bool {
	return s.All || s.owns(department)
}
