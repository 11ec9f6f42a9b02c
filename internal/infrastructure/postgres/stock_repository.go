package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = "product_id, scope_kind, scope_ref, quantity, monetary_value, created_at, updated_at"

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// La bodega central se guarda con scope_ref vacío porque forma parte de la PK.
type StockRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// Get obtiene el saldo de un producto en un ámbito; saldo en cero si no existe.
func (r *StockRepo) Get(ctx context.Context, productID string, scope entity.Scope) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + `
		FROM stock_records WHERE product_id = $1 AND scope_kind = $2 AND scope_ref = $3`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, string(scope.Kind), scope.Ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.EmptyStock(productID, scope), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// Adjust aplica el delta en una única sentencia atómica.
// Crédito: upsert que suma sobre el saldo existente.
// Débito: UPDATE condicionado a quantity >= |delta|; sin filas afectadas => ErrInsufficientStock.
func (r *StockRepo) Adjust(ctx context.Context, productID string, scope entity.Scope, quantityDelta int64, monetaryDelta decimal.Decimal) (*entity.StockRecord, error) {
	if quantityDelta >= 0 {
		query := `
			INSERT INTO stock_records (product_id, scope_kind, scope_ref, quantity, monetary_value, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (product_id, scope_kind, scope_ref)
			DO UPDATE SET quantity = stock_records.quantity + EXCLUDED.quantity,
				monetary_value = stock_records.monetary_value + EXCLUDED.monetary_value,
				updated_at = now()
			RETURNING ` + stockColumns
		s, err := scanStock(r.q.QueryRow(ctx, query, productID, string(scope.Kind), scope.Ref, quantityDelta, monetaryDelta))
		if err != nil {
			return nil, fmt.Errorf("credit stock: %w", err)
		}
		return s, nil
	}

	query := `
		UPDATE stock_records
		SET quantity = quantity + $4, monetary_value = monetary_value + $5, updated_at = now()
		WHERE product_id = $1 AND scope_kind = $2 AND scope_ref = $3 AND quantity >= $6
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, string(scope.Kind), scope.Ref, quantityDelta, monetaryDelta, -quantityDelta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isCheckViolation(err) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("debit stock: %w", err)
	}
	return s, nil
}

// ListByProduct lista todos los saldos de un producto.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	q := r.builder.Select(stockColumns).From("stock_records").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("scope_kind", "scope_ref")
	return r.list(ctx, q)
}

// ListByScopes lista los saldos existentes de un producto en los ámbitos indicados.
func (r *StockRepo) ListByScopes(ctx context.Context, productID string, scopes []entity.Scope) ([]*entity.StockRecord, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	or := make(squirrel.Or, 0, len(scopes))
	for _, s := range scopes {
		or = append(or, squirrel.Eq{"scope_kind": string(s.Kind), "scope_ref": s.Ref})
	}
	q := r.builder.Select(stockColumns).From("stock_records").
		Where(squirrel.Eq{"product_id": productID}).
		Where(or).
		OrderBy("scope_kind", "scope_ref")
	return r.list(ctx, q)
}

func (r *StockRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.StockRecord, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	var kind string
	if err := row.Scan(&s.ProductID, &kind, &s.Scope.Ref, &s.Quantity, &s.MonetaryValue, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Scope.Kind = entity.ScopeKind(kind)
	return &s, nil
}
