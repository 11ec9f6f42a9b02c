package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa el saldo materializado de un producto en un ámbito
// (bodega central, región o punto de venta). Se crea de forma perezosa en la
// primera escritura y nunca se borra.
type StockRecord struct {
	ProductID     string
	Scope         Scope
	Quantity      int64 // nunca negativo
	MonetaryValue decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmptyStock devuelve el valor cero de un saldo inexistente.
func EmptyStock(productID string, scope Scope) *StockRecord {
	return &StockRecord{ProductID: productID, Scope: scope, MonetaryValue: decimal.Zero}
}

// Covers indica si el saldo alcanza para retirar qty unidades.
func (s *StockRecord) Covers(qty int64) bool {
	return s != nil && s.Quantity >= qty
}
