package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Adjuster es el único camino que muta saldos de stock.
// Delega en StockRepository.Adjust, que hace el incremento condicional en una sola operación atómica.
type Adjuster struct {
	log *logger.Logger
}

// NewAdjuster construye el primitivo de ajuste.
func NewAdjuster(log *logger.Logger) *Adjuster {
	if log == nil {
		log = logger.Nop()
	}
	return &Adjuster{log: log}
}

// Apply suma quantityDelta/monetaryDelta al saldo de (productID, scope).
// Con delta negativo falla con ErrInsufficientStock si la cantidad actual no alcanza; nada se modifica.
func (a *Adjuster) Apply(
	ctx context.Context,
	stockRepo repository.StockRepository,
	productID string,
	scope entity.Scope,
	quantityDelta int64,
	monetaryDelta decimal.Decimal,
) (*entity.StockRecord, error) {
	if productID == "" || quantityDelta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, ok := entity.NewScope(scope.Kind, scope.Ref); !ok {
		return nil, domain.ErrInvalidScope
	}
	rec, err := stockRepo.Adjust(ctx, productID, scope, quantityDelta, monetaryDelta)
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Str("product_id", productID).
		Str("scope", scope.String()).
		Int64("quantity_delta", quantityDelta).
		Str("monetary_delta", monetaryDelta.String()).
		Int64("quantity", rec.Quantity).
		Msg("saldo ajustado")
	return rec, nil
}

// Credit suma (+qty, +amount).
func (a *Adjuster) Credit(ctx context.Context, stockRepo repository.StockRepository, productID string, scope entity.Scope, qty int64, amount decimal.Decimal) (*entity.StockRecord, error) {
	return a.Apply(ctx, stockRepo, productID, scope, qty, amount)
}

// Debit resta (-qty, -amount) con la guarda de no negatividad.
func (a *Adjuster) Debit(ctx context.Context, stockRepo repository.StockRepository, productID string, scope entity.Scope, qty int64, amount decimal.Decimal) (*entity.StockRecord, error) {
	return a.Apply(ctx, stockRepo, productID, scope, -qty, amount.Neg())
}
