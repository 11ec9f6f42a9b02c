package http

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LedgerService operaciones del libro que expone la API. Lo implementa *inventory.LedgerUseCase.
type LedgerService interface {
	CreateMovement(ctx context.Context, in inventory.CreateMovementInput) (*entity.StockMovement, error)
	UpdateMovement(ctx context.Context, id string, in inventory.UpdateMovementInput) (*entity.StockMovement, error)
	SettleTransfer(ctx context.Context, id string) (*entity.StockMovement, bool, error)
	DeleteMovement(ctx context.Context, id string) error
	GetMovement(ctx context.Context, id string) (*entity.StockMovement, error)
	ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error)
	GetStock(ctx context.Context, productID string, scope entity.Scope) (*entity.StockRecord, error)
	ListStock(ctx context.Context, productID string) ([]*entity.StockRecord, error)
	GetRegionalStock(ctx context.Context, productID, regionID string) (*inventory.RegionalStock, error)
	ListAdjustmentFailures(ctx context.Context, onlyOpen bool, limit, offset int) ([]*entity.AdjustmentFailure, error)
	ResolveAdjustmentFailure(ctx context.Context, id string) error
}

var _ LedgerService = (*inventory.LedgerUseCase)(nil)
