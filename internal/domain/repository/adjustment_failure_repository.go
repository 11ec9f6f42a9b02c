package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AdjustmentFailureRepository cola de conciliación de ajustes fallidos tras persistir un movimiento.
type AdjustmentFailureRepository interface {
	Create(ctx context.Context, failure *entity.AdjustmentFailure) error
	List(ctx context.Context, onlyOpen bool, limit, offset int) ([]*entity.AdjustmentFailure, error)
	// Resolve marca la falla como conciliada; ErrNotFound si no existe o ya estaba resuelta.
	Resolve(ctx context.Context, id string) error
}
