package http

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func toCreateInput(in dto.CreateMovementRequest) inventory.CreateMovementInput {
	return inventory.CreateMovementInput{
		ProductID:      in.ProductID,
		Type:           entity.MovementType(in.Type),
		Quantity:       in.Quantity,
		MonetaryAmount: in.MonetaryAmount,
		Status:         in.Status,
		Location: entity.LocationFields{
			CentralDepot: in.CentralDepot,
			RegionID:     in.RegionID,
			PointOfSale:  in.PointOfSale,
		},
		LinkedOrderID: in.LinkedOrderID,
		UserID:        in.UserID,
	}
}

func toUpdateInput(in dto.UpdateMovementRequest) inventory.UpdateMovementInput {
	return inventory.UpdateMovementInput{
		Status:         in.Status,
		Quantity:       in.Quantity,
		MonetaryAmount: in.MonetaryAmount,
		CentralDepot:   in.CentralDepot,
		RegionID:       in.RegionID,
		PointOfSale:    in.PointOfSale,
		LinkedOrderID:  in.LinkedOrderID,
		UserID:         in.UserID,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		MonetaryAmount: m.MonetaryAmount,
		Status:         m.Status,
		Location: dto.LocationDTO{
			CentralDepot: m.Location.CentralDepot,
			RegionID:     m.Location.RegionID,
			PointOfSale:  m.Location.PointOfSale,
		},
		DebitApplied:    m.DebitApplied,
		TransferApplied: m.TransferApplied,
		LinkedOrderID:   m.LinkedOrderID,
		UserID:          m.UserID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toStockResponse(s *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ProductID:        s.ProductID,
		ScopeKind:        string(s.Scope.Kind),
		ScopeRef:         s.Scope.Ref,
		Quantity:         s.Quantity,
		MonetaryValue:    s.MonetaryValue,
		AverageUnitValue: domaininv.AverageUnitValue(s.MonetaryValue, s.Quantity),
	}
}

func toRegionalStockResponse(r *inventory.RegionalStock) dto.RegionalStockResponse {
	out := dto.RegionalStockResponse{
		ProductID:          r.ProductID,
		RegionID:           r.RegionID,
		Warehouse:          toStockResponse(r.Warehouse),
		PointsOfSale:       make([]dto.StockResponse, 0, len(r.PointsOfSale)),
		TotalQuantity:      r.TotalQuantity,
		TotalMonetaryValue: r.TotalMonetaryValue,
	}
	for _, p := range r.PointsOfSale {
		out.PointsOfSale = append(out.PointsOfSale, toStockResponse(p))
	}
	return out
}

func toFailureResponse(f *entity.AdjustmentFailure) dto.AdjustmentFailureResponse {
	return dto.AdjustmentFailureResponse{
		ID:            f.ID,
		MovementID:    f.MovementID,
		ProductID:     f.ProductID,
		ScopeKind:     string(f.Scope.Kind),
		ScopeRef:      f.Scope.Ref,
		QuantityDelta: f.QuantityDelta,
		MonetaryDelta: f.MonetaryDelta,
		Step:          f.Step,
		Error:         f.Error,
		CreatedAt:     f.CreatedAt,
		ResolvedAt:    f.ResolvedAt,
	}
}
