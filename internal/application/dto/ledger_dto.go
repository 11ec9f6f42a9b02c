package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationDTO ubicación declarada de un movimiento.
type LocationDTO struct {
	CentralDepot bool   `json:"central_depot"`
	RegionID     string `json:"region_id,omitempty"`
	PointOfSale  string `json:"point_of_sale_id,omitempty"`
}

// CreateMovementRequest body para POST /api/ledger/movements.
type CreateMovementRequest struct {
	ProductID      string          `json:"product_id"`
	Type           string          `json:"type"` // entry | exit | sale | delivery
	Quantity       int64           `json:"quantity"`
	MonetaryAmount decimal.Decimal `json:"monetary_amount"`
	Status         bool            `json:"status"` // true = confirmado
	CentralDepot   bool            `json:"central_depot"`
	RegionID       string          `json:"region_id,omitempty"`
	PointOfSale    string          `json:"point_of_sale_id,omitempty"`
	LinkedOrderID  string          `json:"linked_order_id,omitempty"`
	UserID         string          `json:"user_id,omitempty"`
}

// UpdateMovementRequest body para PATCH /api/ledger/movements/:id. Campos ausentes no se tocan.
type UpdateMovementRequest struct {
	Status         *bool            `json:"status,omitempty"`
	Quantity       *int64           `json:"quantity,omitempty"`
	MonetaryAmount *decimal.Decimal `json:"monetary_amount,omitempty"`
	CentralDepot   *bool            `json:"central_depot,omitempty"`
	RegionID       *string          `json:"region_id,omitempty"`
	PointOfSale    *string          `json:"point_of_sale_id,omitempty"`
	LinkedOrderID  *string          `json:"linked_order_id,omitempty"`
	UserID         *string          `json:"user_id,omitempty"`
}

// MovementResponse movimiento de stock.
type MovementResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Type            string          `json:"type"`
	Quantity        int64           `json:"quantity"`
	MonetaryAmount  decimal.Decimal `json:"monetary_amount"`
	Status          bool            `json:"status"`
	Location        LocationDTO     `json:"location"`
	DebitApplied    bool            `json:"debit_applied"`
	TransferApplied bool            `json:"transfer_applied"`
	LinkedOrderID   string          `json:"linked_order_id,omitempty"`
	UserID          string          `json:"user_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementResultResponse resultado de crear/actualizar: el movimiento persiste aunque
// un ajuste posterior haya fallado; en ese caso AdjustmentError describe la falla.
type MovementResultResponse struct {
	Movement        MovementResponse `json:"movement"`
	AdjustmentError string           `json:"adjustment_error,omitempty"`
	FailedStep      string           `json:"failed_step,omitempty"`
}

// SettleResponse resultado de POST /api/ledger/movements/:id/settle.
type SettleResponse struct {
	Movement MovementResponse `json:"movement"`
	Applied  bool             `json:"applied"` // false si ya estaba liquidado
}

// StockResponse saldo de un producto en un ámbito.
type StockResponse struct {
	ProductID        string          `json:"product_id"`
	ScopeKind        string          `json:"scope_kind"`
	ScopeRef         string          `json:"scope_ref,omitempty"`
	Quantity         int64           `json:"quantity"`
	MonetaryValue    decimal.Decimal `json:"monetary_value"`
	AverageUnitValue decimal.Decimal `json:"average_unit_value"`
}

// RegionalStockResponse saldo de la bodega regional y sus puntos de venta.
type RegionalStockResponse struct {
	ProductID          string          `json:"product_id"`
	RegionID           string          `json:"region_id"`
	Warehouse          StockResponse   `json:"warehouse"`
	PointsOfSale       []StockResponse `json:"points_of_sale"`
	TotalQuantity      int64           `json:"total_quantity"`
	TotalMonetaryValue decimal.Decimal `json:"total_monetary_value"`
}

// AdjustmentFailureResponse entrada de la cola de conciliación.
type AdjustmentFailureResponse struct {
	ID            string          `json:"id"`
	MovementID    string          `json:"movement_id"`
	ProductID     string          `json:"product_id"`
	ScopeKind     string          `json:"scope_kind"`
	ScopeRef      string          `json:"scope_ref,omitempty"`
	QuantityDelta int64           `json:"quantity_delta"`
	MonetaryDelta decimal.Decimal `json:"monetary_delta"`
	Step          string          `json:"step"`
	Error         string          `json:"error"`
	CreatedAt     time.Time       `json:"created_at"`
	ResolvedAt    *time.Time      `json:"resolved_at,omitempty"`
}

// AdjustmentFailureListResponse listado paginado de la cola de conciliación.
type AdjustmentFailureListResponse struct {
	Items []AdjustmentFailureResponse `json:"items"`
	Page  PageResponse                `json:"page"`
}
