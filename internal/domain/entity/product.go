package entity

// Product referencia mínima del catálogo de productos; el libro solo lee el identificador.
type Product struct {
	ID   string
	SKU  string
	Name string
}
