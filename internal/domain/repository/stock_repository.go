package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRepository define el puerto del almacén de saldos por (producto, ámbito).
// Adjust es la única operación que muta saldos y debe ser atómica en el almacenamiento.
type StockRepository interface {
	// Get devuelve el saldo; si no existe devuelve un saldo en cero (nunca nil sin error).
	Get(ctx context.Context, productID string, scope entity.Scope) (*entity.StockRecord, error)
	// Adjust con quantityDelta >= 0 hace upsert incrementando cantidad y valor.
	// Con quantityDelta < 0 incrementa solo si la cantidad actual alcanza; si no, ErrInsufficientStock
	// sin crear ni modificar el registro.
	Adjust(ctx context.Context, productID string, scope entity.Scope, quantityDelta int64, monetaryDelta decimal.Decimal) (*entity.StockRecord, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error)
	ListByScopes(ctx context.Context, productID string, scopes []entity.Scope) ([]*entity.StockRecord, error)
}
