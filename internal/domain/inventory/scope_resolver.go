package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Transfer par origen→destino de un envío. Destination puede quedar vacío cuando
// el destino se define más adelante.
type Transfer struct {
	Source      entity.Scope
	Destination entity.Scope
}

// HasDestination indica si el envío ya tiene destino resuelto.
func (t Transfer) HasDestination() bool { return !t.Destination.IsZero() }

// Resolution resultado de resolver los ámbitos de un movimiento según su tipo.
// Para entradas solo Destination; para ventas/salidas solo Source; para envíos ambos (destino opcional).
type Resolution struct {
	Source      entity.Scope
	Destination entity.Scope
}

// ResolveSource ámbito a debitar en ventas y salidas.
// Prioridad: bodega central > región > punto de venta.
func ResolveSource(loc entity.LocationFields) (entity.Scope, error) {
	switch {
	case loc.CentralDepot:
		return entity.CentralDepot(), nil
	case loc.RegionID != "":
		return entity.Region(loc.RegionID), nil
	case loc.PointOfSale != "":
		return entity.PointOfSale(loc.PointOfSale), nil
	}
	return entity.Scope{}, domain.NewScopeError(domain.ReasonNoLocation)
}

// ResolveTransfer origen y destino de un envío.
//  1. región y punto de venta: la región despacha a uno de sus puntos de venta.
//  2. bodega central: destino = punto de venta, si no región, si no ninguno.
//  3. solo región: origen región, destino pendiente.
func ResolveTransfer(loc entity.LocationFields) (Transfer, error) {
	switch {
	case loc.RegionID != "" && loc.PointOfSale != "":
		return Transfer{Source: entity.Region(loc.RegionID), Destination: entity.PointOfSale(loc.PointOfSale)}, nil
	case loc.CentralDepot:
		t := Transfer{Source: entity.CentralDepot()}
		if loc.PointOfSale != "" {
			t.Destination = entity.PointOfSale(loc.PointOfSale)
		} else if loc.RegionID != "" {
			t.Destination = entity.Region(loc.RegionID)
		}
		return t, nil
	case loc.RegionID != "":
		t := Transfer{Source: entity.Region(loc.RegionID)}
		if loc.PointOfSale != "" {
			t.Destination = entity.PointOfSale(loc.PointOfSale)
		}
		return t, nil
	}
	return Transfer{}, domain.NewScopeError(domain.ReasonAmbiguousDelivery)
}

// ResolveEntryDestination ámbito a acreditar en una entrada: región si existe, si no bodega central.
func ResolveEntryDestination(loc entity.LocationFields) entity.Scope {
	if loc.RegionID != "" {
		return entity.Region(loc.RegionID)
	}
	return entity.CentralDepot()
}

// Resolve despacha según el tipo de movimiento.
func Resolve(t entity.MovementType, loc entity.LocationFields) (Resolution, error) {
	switch t {
	case entity.MovementTypeEntry:
		return Resolution{Destination: ResolveEntryDestination(loc)}, nil
	case entity.MovementTypeSale, entity.MovementTypeExit:
		src, err := ResolveSource(loc)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Source: src}, nil
	case entity.MovementTypeDelivery:
		tr, err := ResolveTransfer(loc)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Source: tr.Source, Destination: tr.Destination}, nil
	}
	return Resolution{}, domain.NewScopeError(domain.ReasonUnknownType)
}

// NormalizeDelivery deja en los campos persistidos solo el ámbito final de un envío
// región→punto de venta (se borra la región). Devuelve true si modificó loc.
func NormalizeDelivery(loc *entity.LocationFields) bool {
	if loc.RegionID != "" && loc.PointOfSale != "" {
		loc.RegionID = ""
		return true
	}
	return false
}

// ResolveSettlementDestination destino a acreditar al confirmar un envío ya persistido.
// Se evalúa sobre los campos guardados, que tras NormalizeDelivery pueden contener
// solo el punto de venta: punto de venta si existe; región solo si el origen fue la bodega central.
func ResolveSettlementDestination(loc entity.LocationFields) (entity.Scope, bool) {
	if loc.PointOfSale != "" {
		return entity.PointOfSale(loc.PointOfSale), true
	}
	if loc.CentralDepot && loc.RegionID != "" {
		return entity.Region(loc.RegionID), true
	}
	return entity.Scope{}, false
}
