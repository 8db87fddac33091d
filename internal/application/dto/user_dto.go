package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=60"`
	Password   string `json:"password" validate:"required,min=6"`
	FullName   string `json:"nombre" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"rol" validate:"required,oneof=superadmin admin jefe"`
	Department string `json:"departamento" validate:"omitempty,max=120"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"nombre"`
	Email      string    `json:"email"`
	Role       string    `json:"rol"`
	Department string    `json:"departamento,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateUserResponse salida de la creación; Department se informa si se asignó jefatura.
// PreviousEncargado lleva el encargado desplazado cuando el departamento ya existía.
type CreateUserResponse struct {
	User              UserResponse        `json:"user"`
	Department        *DepartmentResponse `json:"department,omitempty"`
	PreviousEncargado string              `json:"previousEncargado,omitempty"`
}
