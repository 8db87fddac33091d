package dto

import "time"

// CreateReportRequest entrada para abrir un reporte de falla.
type CreateReportRequest struct {
	Requester   string `json:"solicitante" validate:"required,max=200"`
	Department  string `json:"departamento" validate:"required,max=120"`
	FaultType   string `json:"tipo_falla" validate:"required,max=120"`
	Description string `json:"descripcion" validate:"max=5000"`
}

// UpdateReportRequest fija el estado; vacío alterna Pendiente/Resuelto.
type UpdateReportRequest struct {
	Status string `json:"estado" validate:"omitempty,oneof=Pendiente Resuelto"`
}

// ReportResponse salida de un reporte.
type ReportResponse struct {
	ID          int64     `json:"id"`
	Requester   string    `json:"solicitante"`
	Department  string    `json:"departamento"`
	Encargado   string    `json:"encargado"`
	FaultType   string    `json:"tipo_falla"`
	Description string    `json:"descripcion"`
	Status      string    `json:"estado"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateReportResponse salida de la creación: el reporte siempre queda guardado;
// EmailSent/EmailError informan el resultado de la notificación.
type CreateReportResponse struct {
	Message    string         `json:"message"`
	Report     ReportResponse `json:"report"`
	EmailSent  bool           `json:"emailSent"`
	EmailError *string        `json:"emailError"`
}

// ReportListQuery filtros opcionales del listado.
type ReportListQuery struct {
	Status string `query:"estado"`
}
