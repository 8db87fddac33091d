package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAssetRequest entrada para registrar un bien. El cliente web antiguo envía
// codigo/nombre en lugar de id/titulo; ambos se aceptan.
type CreateAssetRequest struct {
	ID         string           `json:"id" validate:"omitempty,max=60"`
	Code       string           `json:"codigo" validate:"omitempty,max=60"`
	Title      string           `json:"titulo" validate:"omitempty,max=200"`
	Name       string           `json:"nombre" validate:"omitempty,max=200"`
	Condition  string           `json:"condicion" validate:"omitempty,max=500"`
	Status     string           `json:"estado"`
	Location   string           `json:"ubicacion" validate:"omitempty,max=200"`
	Value      *decimal.Decimal `json:"valor"`
	Department *string          `json:"departamento"`
}

// AssetCode devuelve el código efectivo (id o codigo).
func (r CreateAssetRequest) AssetCode() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Code
}

// AssetTitle devuelve el título efectivo (titulo o nombre).
func (r CreateAssetRequest) AssetTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// UpdateAssetRequest actualización parcial; los campos nil no se modifican.
type UpdateAssetRequest struct {
	Title      *string          `json:"titulo" validate:"omitempty,max=200"`
	Condition  *string          `json:"condicion" validate:"omitempty,max=500"`
	Status     *string          `json:"estado"`
	Location   *string          `json:"ubicacion" validate:"omitempty,max=200"`
	Value      *decimal.Decimal `json:"valor"`
	Department *string          `json:"departamento"`
}

// AssetResponse salida de un bien.
type AssetResponse struct {
	ID         string           `json:"id"`
	Title      string           `json:"titulo"`
	Condition  string           `json:"condicion"`
	Status     string           `json:"estado"`
	Location   string           `json:"ubicacion,omitempty"`
	Value      *decimal.Decimal `json:"valor,omitempty"`
	Department *string          `json:"departamento"`
	Approved   bool             `json:"aprobado"`
	CreatedBy  string           `json:"creado_por"`
	Document   *string          `json:"documento"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// AssetListQuery filtros opcionales del listado.
type AssetListQuery struct {
	Status      string `query:"estado"`
	PendingOnly bool   `query:"pendientes"`
}
