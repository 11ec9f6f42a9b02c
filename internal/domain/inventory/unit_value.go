package inventory

import "github.com/shopspring/decimal"

// AverageUnitValue valor unitario promedio de un saldo: ValorMonetario / Cantidad.
// Cero si no hay unidades.
func AverageUnitValue(monetaryValue decimal.Decimal, quantity int64) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return monetaryValue.Div(decimal.NewFromInt(quantity)).Round(4)
}
