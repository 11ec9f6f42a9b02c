package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger LedgerService
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	ledger := api.Group("/ledger")
	h := NewLedgerHandler(deps.Ledger)

	// Movimientos
	ledger.Post("/movements", h.CreateMovement)
	ledger.Get("/movements", h.ListMovements)
	ledger.Get("/movements/:id", h.GetMovement)
	ledger.Patch("/movements/:id", h.UpdateMovement)
	ledger.Post("/movements/:id/settle", h.SettleTransfer)
	ledger.Delete("/movements/:id", h.DeleteMovement)

	// Saldos
	ledger.Get("/stock", h.GetStock)
	ledger.Get("/stock/:product_id", h.ListStock)
	ledger.Get("/stock/:product_id/regions/:region_id", h.GetRegionalStock)

	// Conciliación
	ledger.Get("/adjustment-failures", h.ListAdjustmentFailures)
	ledger.Post("/adjustment-failures/:id/resolve", h.ResolveAdjustmentFailure)
}
