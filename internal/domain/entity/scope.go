package entity

import "fmt"

// ScopeKind tipo de ubicación de stock.
type ScopeKind string

const (
	ScopeCentralDepot ScopeKind = "central_depot" // bodega central
	ScopeRegion       ScopeKind = "region"        // bodega regional
	ScopePointOfSale  ScopeKind = "point_of_sale" // punto de venta
)

// Valid indica si el tipo de ámbito es conocido.
func (k ScopeKind) Valid() bool {
	switch k {
	case ScopeCentralDepot, ScopeRegion, ScopePointOfSale:
		return true
	}
	return false
}

// Scope identifica una ubicación de stock: bodega central, una región o un punto de venta.
// Ref es vacío para la bodega central.
type Scope struct {
	Kind ScopeKind
	Ref  string
}

// CentralDepot devuelve el ámbito de la bodega central.
func CentralDepot() Scope { return Scope{Kind: ScopeCentralDepot} }

// Region devuelve el ámbito de una bodega regional.
func Region(id string) Scope { return Scope{Kind: ScopeRegion, Ref: id} }

// PointOfSale devuelve el ámbito de un punto de venta.
func PointOfSale(id string) Scope { return Scope{Kind: ScopePointOfSale, Ref: id} }

// NewScope construye un ámbito validando que Ref esté presente salvo en la bodega central.
func NewScope(kind ScopeKind, ref string) (Scope, bool) {
	switch kind {
	case ScopeCentralDepot:
		return CentralDepot(), true
	case ScopeRegion, ScopePointOfSale:
		if ref == "" {
			return Scope{}, false
		}
		return Scope{Kind: kind, Ref: ref}, true
	}
	return Scope{}, false
}

// IsZero indica si el ámbito no fue resuelto.
func (s Scope) IsZero() bool { return s.Kind == "" }

func (s Scope) String() string {
	if s.Kind == ScopeCentralDepot {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.Ref)
}
