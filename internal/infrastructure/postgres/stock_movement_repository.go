package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, type, quantity, monetary_amount, status, central_depot,
	region_id, point_of_sale_id, debit_applied, transfer_applied, linked_order_id, user_id, created_at, updated_at`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, string(m.Type), m.Quantity, m.MonetaryAmount, m.Status, m.Location.CentralDepot,
		nullable(m.Location.RegionID), nullable(m.Location.PointOfSale), m.DebitApplied, m.TransferApplied,
		nullable(m.LinkedOrderID), nullable(m.UserID), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil, nil si no existe o el ID no es un UUID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero con SELECT ... FOR UPDATE; usar con un Querier de tx.
func (r *StockMovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockMovementRepo) get(ctx context.Context, query, id string) (*entity.StockMovement, error) {
	if !isUUID(id) {
		return nil, nil
	}
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// Update guarda los campos editables. status, debit_applied y transfer_applied solo cambian con sus reclamos.
func (r *StockMovementRepo) Update(ctx context.Context, m *entity.StockMovement) error {
	if !isUUID(m.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE stock_movements
		SET quantity = $2, monetary_amount = $3, central_depot = $4, region_id = $5,
			point_of_sale_id = $6, linked_order_id = $7, user_id = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Quantity, m.MonetaryAmount, m.Location.CentralDepot,
		nullable(m.Location.RegionID), nullable(m.Location.PointOfSale),
		nullable(m.LinkedOrderID), nullable(m.UserID),
	)
	if err != nil {
		return fmt.Errorf("update stock movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus reclama la transición de estado: solo actualiza si el estado actual es distinto.
func (r *StockMovementRepo) SetStatus(ctx context.Context, id string, status bool) (bool, error) {
	if !isUUID(id) {
		return false, domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_movements SET status = $2, updated_at = now() WHERE id = $1 AND status <> $2`,
		id, status)
	if err != nil {
		return false, fmt.Errorf("set movement status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	return false, r.ensureExists(ctx, id)
}

// MarkTransferApplied reclama la liquidación del envío (false -> true una sola vez).
func (r *StockMovementRepo) MarkTransferApplied(ctx context.Context, id string) (bool, error) {
	return r.claim(ctx, id, "transfer_applied")
}

// MarkDebitApplied reclama el descuento del origen (false -> true una sola vez).
func (r *StockMovementRepo) MarkDebitApplied(ctx context.Context, id string) (bool, error) {
	return r.claim(ctx, id, "debit_applied")
}

// claim pasa una columna booleana de false a true; column es siempre una constante del paquete.
func (r *StockMovementRepo) claim(ctx context.Context, id, column string) (bool, error) {
	if !isUUID(id) {
		return false, domain.ErrNotFound
	}
	query := `UPDATE stock_movements SET ` + column + ` = true, updated_at = now() WHERE id = $1 AND ` + column + ` = false`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark %s: %w", column, err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	return false, r.ensureExists(ctx, id)
}

// Delete elimina el movimiento. No revierte saldos.
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista movimientos aplicando los filtros presentes, del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	q := r.builder.Select(movementColumns).From("stock_movements")
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": string(f.Type)})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.RegionID != "" {
		q = q.Where(squirrel.Eq{"region_id": f.RegionID})
	}
	if f.PointOfSale != "" {
		q = q.Where(squirrel.Eq{"point_of_sale_id": f.PointOfSale})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	q = q.OrderBy("created_at DESC", "id")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *StockMovementRepo) ensureExists(ctx context.Context, id string) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stock_movements WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check stock movement: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var typ string
	var regionID, posID, orderID, userID *string
	err := row.Scan(
		&m.ID, &m.ProductID, &typ, &m.Quantity, &m.MonetaryAmount, &m.Status, &m.Location.CentralDepot,
		&regionID, &posID, &m.DebitApplied, &m.TransferApplied, &orderID, &userID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.Location.RegionID = deref(regionID)
	m.Location.PointOfSale = deref(posID)
	m.LinkedOrderID = deref(orderID)
	m.UserID = deref(userID)
	return &m, nil
}
