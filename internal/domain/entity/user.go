package entity

import "time"

// Role es el rol de un usuario. Solo existen los tres valores declarados abajo.
type Role string

// Roles válidos para User.
const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleJefe       Role = "jefe"
)

// ParseRole convierte un string (de la DB o del token) en Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleSuperadmin, RoleAdmin, RoleJefe:
		return r, true
	}
	return "", false
}

// IsAdministrative indica si el rol gestiona el inventario completo (admin o superadmin).
func (r Role) IsAdministrative() bool {
	return r == RoleSuperadmin || r == RoleAdmin
}

// User representa un usuario del sistema.
// Department es solo una etiqueta informativa: la jefatura se resuelve por Department.Encargado.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	FullName     string
	Email        string
	Role         Role
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
