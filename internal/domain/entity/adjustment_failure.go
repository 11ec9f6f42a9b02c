package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pasos del ciclo de confirmación en los que puede fallar un ajuste ya persistido el movimiento.
const (
	StepDebitSource       = "debit_source"
	StepCreditDestination = "credit_destination"
	StepSettleTransfer    = "settle_transfer"
)

// AdjustmentFailure registra un ajuste de stock que falló después de que el
// movimiento quedó persistido. Sirve como cola de conciliación.
type AdjustmentFailure struct {
	ID            string
	MovementID    string
	ProductID     string
	Scope         Scope
	QuantityDelta int64
	MonetaryDelta decimal.Decimal
	Step          string
	Error         string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}
