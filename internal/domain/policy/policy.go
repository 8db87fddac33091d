// Package policy concentra las reglas de autorización por rol.
//
// Toda decisión de acceso pasa por Allowed/Check; los handlers no comparan roles
// por su cuenta. Las lecturas de un jefe se acotan además con Scope, que depende
// de los departamentos donde figura como encargado.
package policy

import (
	"fmt"

	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
)

// Action es una operación protegida sobre un recurso.
type Action string

const (
	AssetList    Action = "asset:list"
	AssetRead    Action = "asset:read"
	AssetCreate  Action = "asset:create"
	AssetApprove Action = "asset:approve"
	AssetUpdate  Action = "asset:update"
	AssetDelete  Action = "asset:delete"
	AssetAttach  Action = "asset:attach"

	ReportList   Action = "report:list"
	ReportRead   Action = "report:read"
	ReportCreate Action = "report:create"
	ReportUpdate Action = "report:update"
	ReportDelete Action = "report:delete"

	UserList   Action = "user:list"
	UserCreate Action = "user:create"
	UserDelete Action = "user:delete"

	DepartmentList   Action = "department:list"
	DepartmentUpsert Action = "department:upsert"
	DepartmentDelete Action = "department:delete"

	MailDiagnose Action = "mail:diagnose"
)

var (
	everyone = roles(entity.RoleSuperadmin, entity.RoleAdmin, entity.RoleJefe)
	admins   = roles(entity.RoleSuperadmin, entity.RoleAdmin)
	super    = roles(entity.RoleSuperadmin)
)

// table es la única fuente de verdad de qué rol puede ejecutar qué acción.
// AssetAttach está abierto a todos porque la condición del jefe (ser el creador)
// se verifica contra la fila en el workflow.
var table = map[Action]map[entity.Role]bool{
	AssetList:    everyone,
	AssetRead:    everyone,
	AssetCreate:  everyone,
	AssetApprove: admins,
	AssetUpdate:  admins,
	AssetDelete:  admins,
	AssetAttach:  everyone,

	ReportList:   everyone,
	ReportRead:   everyone,
	ReportCreate: everyone,
	ReportUpdate: admins,
	ReportDelete: admins,

	UserList:   admins,
	UserCreate: admins,
	UserDelete: super,

	DepartmentList:   everyone,
	DepartmentUpsert: admins,
	DepartmentDelete: admins,

	MailDiagnose: admins,
}

func roles(rs ...entity.Role) map[entity.Role]bool {
	m := make(map[entity.Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

// Actions devuelve todas las acciones conocidas.
func Actions() []Action {
	out := make([]Action, 0, len(table))
	for a := range table {
		out = append(out, a)
	}
	return out
}

// Allowed indica si el rol puede ejecutar la acción. Acciones desconocidas se niegan.
func Allowed(role entity.Role, action Action) bool {
	return table[action][role]
}

// Check devuelve domain.ErrForbidden (envuelto) si el rol no puede ejecutar la acción.
func Check(role entity.Role, action Action) error {
	if !Allowed(role, action) {
		return fmt.Errorf("%w: %s no permitido para %s", domain.ErrForbidden, action, role)
	}
	return nil
}

// CanAssignRole indica si creator puede crear un usuario con rol target:
// superadmin crea cualquier rol, admin solo jefes.
func CanAssignRole(creator, target entity.Role) bool {
	switch creator {
	case entity.RoleSuperadmin:
		_, ok := entity.ParseRole(string(target))
		return ok
	case entity.RoleAdmin:
		return target == entity.RoleJefe
	}
	return false
}
