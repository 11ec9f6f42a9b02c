package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AdjustmentFailureRepository = (*AdjustmentFailureRepo)(nil)

// AdjustmentFailureRepo cola de conciliación en stock_adjustment_failures.
type AdjustmentFailureRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewAdjustmentFailureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentFailureRepository(q Querier) *AdjustmentFailureRepo {
	return &AdjustmentFailureRepo{q: q, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// Create registra una falla de ajuste.
func (r *AdjustmentFailureRepo) Create(ctx context.Context, f *entity.AdjustmentFailure) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_adjustment_failures
			(id, movement_id, product_id, scope_kind, scope_ref, quantity_delta, monetary_delta, step, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.MovementID, f.ProductID, string(f.Scope.Kind), f.Scope.Ref,
		f.QuantityDelta, f.MonetaryDelta, f.Step, f.Error, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create adjustment failure: %w", err)
	}
	return nil
}

// List lista fallas, opcionalmente solo las abiertas, de la más antigua a la más reciente.
func (r *AdjustmentFailureRepo) List(ctx context.Context, onlyOpen bool, limit, offset int) ([]*entity.AdjustmentFailure, error) {
	q := r.builder.Select(
		"id", "movement_id", "product_id", "scope_kind", "scope_ref", "quantity_delta",
		"monetary_delta", "step", "error", "created_at", "resolved_at",
	).From("stock_adjustment_failures").OrderBy("created_at", "id")
	if onlyOpen {
		q = q.Where(squirrel.Eq{"resolved_at": nil})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustment failures: %w", err)
	}
	defer rows.Close()
	list := []*entity.AdjustmentFailure{}
	for rows.Next() {
		var f entity.AdjustmentFailure
		var kind string
		if err := rows.Scan(
			&f.ID, &f.MovementID, &f.ProductID, &kind, &f.Scope.Ref, &f.QuantityDelta,
			&f.MonetaryDelta, &f.Step, &f.Error, &f.CreatedAt, &f.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan adjustment failure: %w", err)
		}
		f.Scope.Kind = entity.ScopeKind(kind)
		list = append(list, &f)
	}
	return list, rows.Err()
}

// Resolve marca la falla como conciliada.
func (r *AdjustmentFailureRepo) Resolve(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_adjustment_failures SET resolved_at = now() WHERE id = $1 AND resolved_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("resolve adjustment failure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
