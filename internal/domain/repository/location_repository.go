package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// LocationRepository catálogo de ubicaciones (punto de venta → región).
// El libro no lo consulta al registrar movimientos; solo las consultas agregadas por región.
type LocationRepository interface {
	GetPointOfSale(ctx context.Context, id string) (*entity.PointOfSaleLocation, error)
	ListPointsOfSale(ctx context.Context, regionID string) ([]*entity.PointOfSaleLocation, error)
}
