package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus estado operativo de un bien nacional.
type AssetStatus string

const (
	AssetOperational  AssetStatus = "Operativo"
	AssetInRepair     AssetStatus = "En Reparación"
	AssetOutOfService AssetStatus = "Fuera de Servicio"
)

// Valid indica si el estado es uno de los admitidos.
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetOperational, AssetInRepair, AssetOutOfService:
		return true
	}
	return false
}

// Asset es un bien del inventario de bienes nacionales.
// Las solicitudes de un jefe nacen con Approved=false y solo un admin/superadmin las aprueba.
type Asset struct {
	ID               string // código del bien, lo asigna quien lo registra
	Title            string
	Condition        string
	Status           AssetStatus
	Location         string
	AcquisitionValue *decimal.Decimal
	Department       *string
	Approved         bool
	CreatedBy        string
	DocumentPath     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
