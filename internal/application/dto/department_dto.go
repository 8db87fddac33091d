package dto

import "time"

// UpsertDepartmentRequest entrada para crear/actualizar un departamento por nombre.
type UpsertDepartmentRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Encargado string `json:"encargado" validate:"required,max=60"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	Name      string    `json:"name"`
	Encargado string    `json:"encargado"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpsertDepartmentResponse salida del upsert.
type UpsertDepartmentResponse struct {
	Department DepartmentResponse `json:"department"`
	Created    bool               `json:"created"`
}
