package entity

import "time"

// ReportStatus estado de un reporte de falla.
type ReportStatus string

const (
	ReportPending  ReportStatus = "Pendiente"
	ReportResolved ReportStatus = "Resuelto"
)

// Valid indica si el estado es uno de los admitidos.
func (s ReportStatus) Valid() bool {
	return s == ReportPending || s == ReportResolved
}

// Toggled devuelve el estado opuesto.
func (s ReportStatus) Toggled() ReportStatus {
	if s == ReportResolved {
		return ReportPending
	}
	return ReportResolved
}

// Report es un reporte de soporte técnico (ticket).
// Encargado se copia del Department al crear y no se vuelve a enlazar.
type Report struct {
	ID          int64
	Requester   string
	Department  string
	Encargado   string
	FaultType   string
	Description string
	Status      ReportStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
