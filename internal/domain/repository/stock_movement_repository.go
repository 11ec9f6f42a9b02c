package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	ProductID   string
	Type        entity.MovementType
	Status      *bool
	RegionID    string
	PointOfSale string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// GetForUpdate lee el movimiento bloqueándolo hasta el fin de la transacción; nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error)
	// Update guarda los campos editables (no toca status, debit_applied ni transfer_applied).
	Update(ctx context.Context, movement *entity.StockMovement) error
	// SetStatus cambia el estado solo si el actual es distinto; devuelve false si no hubo cambio.
	SetStatus(ctx context.Context, id string, status bool) (bool, error)
	// MarkTransferApplied marca transfer_applied solo si sigue en false; devuelve false si ya estaba marcado.
	MarkTransferApplied(ctx context.Context, id string) (bool, error)
	// MarkDebitApplied marca debit_applied solo si sigue en false; devuelve false si el origen ya fue descontado.
	MarkDebitApplied(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
