package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de stock.
type MovementType string

const (
	MovementTypeEntry    MovementType = "entry"    // entrada (crédito puro)
	MovementTypeExit     MovementType = "exit"     // salida
	MovementTypeSale     MovementType = "sale"     // venta
	MovementTypeDelivery MovementType = "delivery" // envío entre ámbitos
)

// Valid indica si el tipo de movimiento es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeSale, MovementTypeDelivery:
		return true
	}
	return false
}

// Debits indica si el movimiento descuenta de un ámbito origen al confirmarse.
func (t MovementType) Debits() bool {
	return t == MovementTypeExit || t == MovementTypeSale
}

// LocationFields ubicación declarada por quien registra el movimiento.
// El resolvedor de ámbitos interpreta la combinación.
type LocationFields struct {
	CentralDepot bool
	RegionID     string
	PointOfSale  string
}

// StockMovement movimiento de stock (entrada, salida, venta o envío).
// Status false = pendiente, true = confirmado.
type StockMovement struct {
	ID              string
	ProductID       string
	Type            MovementType
	Quantity        int64
	MonetaryAmount  decimal.Decimal
	Status          bool
	Location        LocationFields
	DebitApplied    bool // el origen ya fue descontado
	TransferApplied bool // el destino ya fue acreditado (solo envíos)
	LinkedOrderID   string
	UserID          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Confirmed indica si el movimiento está confirmado.
func (m *StockMovement) Confirmed() bool { return m.Status }
