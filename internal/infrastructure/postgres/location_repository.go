package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo catálogo de puntos de venta y su región.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetPointOfSale obtiene un punto de venta por ID; nil, nil si no existe.
func (r *LocationRepo) GetPointOfSale(ctx context.Context, id string) (*entity.PointOfSaleLocation, error) {
	query := `SELECT id, region_id, name, created_at FROM points_of_sale WHERE id = $1`
	var p entity.PointOfSaleLocation
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.RegionID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get point of sale: %w", err)
	}
	return &p, nil
}

// ListPointsOfSale lista los puntos de venta de una región ordenados por nombre.
func (r *LocationRepo) ListPointsOfSale(ctx context.Context, regionID string) ([]*entity.PointOfSaleLocation, error) {
	query := `
		SELECT id, region_id, name, created_at
		FROM points_of_sale WHERE region_id = $1 ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, regionID)
	if err != nil {
		return nil, fmt.Errorf("list points of sale: %w", err)
	}
	defer rows.Close()
	var list []*entity.PointOfSaleLocation
	for rows.Next() {
		var p entity.PointOfSaleLocation
		if err := rows.Scan(&p.ID, &p.RegionID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point of sale: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
