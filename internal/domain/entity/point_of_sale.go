package entity

import "time"

// PointOfSaleLocation punto de venta del catálogo de ubicaciones; pertenece a una región.
type PointOfSaleLocation struct {
	ID        string
	RegionID  string
	Name      string
	CreatedAt time.Time
}
