package entity

import "time"

// Department asocia un departamento con su encargado (username del jefe responsable).
type Department struct {
	Name      string
	Encargado string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEncargado indica si el departamento tiene responsable asignado.
func (d *Department) HasEncargado() bool {
	return d != nil && d.Encargado != ""
}

// DepartmentNames extrae los nombres de una lista de departamentos.
func DepartmentNames(depts []*Department) []string {
	names := make([]string, 0, len(depts))
	for _, d := range depts {
		names = append(names, d.Name)
	}
	return names
}
