package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// RegionalStock saldo de una región: su bodega más todos sus puntos de venta.
type RegionalStock struct {
	ProductID          string
	RegionID           string
	Warehouse          *entity.StockRecord
	PointsOfSale       []*entity.StockRecord
	TotalQuantity      int64
	TotalMonetaryValue decimal.Decimal
}

// GetStock devuelve el saldo de un producto en un ámbito; cero si no existe.
func (uc *LedgerUseCase) GetStock(ctx context.Context, productID string, scope entity.Scope) (*entity.StockRecord, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "required")
	}
	if _, ok := entity.NewScope(scope.Kind, scope.Ref); !ok {
		return nil, domain.ErrInvalidScope
	}
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()
	return uc.stockRepo.Get(ctx, productID, scope)
}

// ListStock devuelve todos los saldos existentes de un producto.
func (uc *LedgerUseCase) ListStock(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "required")
	}
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()
	return uc.stockRepo.ListByProduct(ctx, productID)
}

// GetRegionalStock agrega el saldo de la bodega regional y de sus puntos de venta
// según el catálogo de ubicaciones.
func (uc *LedgerUseCase) GetRegionalStock(ctx context.Context, productID, regionID string) (*RegionalStock, error) {
	if productID == "" || regionID == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.locationRepo == nil {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()

	points, err := uc.locationRepo.ListPointsOfSale(ctx, regionID)
	if err != nil {
		return nil, err
	}
	scopes := make([]entity.Scope, 0, len(points)+1)
	scopes = append(scopes, entity.Region(regionID))
	for _, p := range points {
		scopes = append(scopes, entity.PointOfSale(p.ID))
	}
	records, err := uc.stockRepo.ListByScopes(ctx, productID, scopes)
	if err != nil {
		return nil, err
	}
	byScope := make(map[entity.Scope]*entity.StockRecord, len(records))
	for _, r := range records {
		byScope[r.Scope] = r
	}

	out := &RegionalStock{ProductID: productID, RegionID: regionID, TotalMonetaryValue: decimal.Zero}
	for i, s := range scopes {
		rec, ok := byScope[s]
		if !ok {
			rec = entity.EmptyStock(productID, s)
		}
		if i == 0 {
			out.Warehouse = rec
		} else {
			out.PointsOfSale = append(out.PointsOfSale, rec)
		}
		out.TotalQuantity += rec.Quantity
		out.TotalMonetaryValue = out.TotalMonetaryValue.Add(rec.MonetaryValue)
	}
	return out, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*entity.StockMovement, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()
	return uc.reload(ctx, id)
}

// ListMovements lista movimientos con filtros y paginación.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.NewValidationError("type", "oneof")
	}
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()
	return uc.movRepo.List(ctx, filter)
}

// ListAdjustmentFailures lista la cola de conciliación.
func (uc *LedgerUseCase) ListAdjustmentFailures(ctx context.Context, onlyOpen bool, limit, offset int) ([]*entity.AdjustmentFailure, error) {
	if uc.failureRepo == nil {
		return []*entity.AdjustmentFailure{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()
	return uc.failureRepo.List(ctx, onlyOpen, limit, offset)
}

// ResolveAdjustmentFailure marca una falla como conciliada (la corrección del saldo es manual).
func (uc *LedgerUseCase) ResolveAdjustmentFailure(ctx context.Context, id string) error {
	if uc.failureRepo == nil {
		return domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()
	if err := uc.failureRepo.Resolve(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("failure_id", id).Msg("falla de ajuste conciliada")
	return nil
}
