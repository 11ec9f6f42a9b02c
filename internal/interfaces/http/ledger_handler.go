package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP de movimientos y saldos.
type LedgerHandler struct {
	svc LedgerService
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(svc LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Valida, persiste y aplica el movimiento al libro. Si un ajuste falla después
//
//	de persistir responde 202 con adjustment_error; la falla queda en la cola de conciliación.
//
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, type, quantity, monetary_amount, status y ubicación"
// @Success      201   {object}  dto.MovementResultResponse
// @Success      202   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.svc.CreateMovement(c.UserContext(), toCreateInput(in))
	return movementResult(c, fiber.StatusCreated, m, err)
}

// UpdateMovement godoc
// @Summary      Actualizar movimiento
// @Description  Aplica los campos presentes. Confirmar una venta/salida descuenta el origen;
//
//	confirmar un envío acredita el destino.
//
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MovementResultResponse
// @Success      202   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [patch]
func (h *LedgerHandler) UpdateMovement(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.svc.UpdateMovement(c.UserContext(), c.Params("id"), toUpdateInput(in))
	return movementResult(c, fiber.StatusOK, m, err)
}

// SettleTransfer godoc
// @Summary      Liquidar envío
// @Description  Acredita el destino de un envío confirmado. Idempotente: applied=false si ya estaba liquidado.
// @Tags         ledger
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.SettleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id}/settle [post]
func (h *LedgerHandler) SettleTransfer(c *fiber.Ctx) error {
	m, applied, err := h.svc.SettleTransfer(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SettleResponse{Movement: toMovementResponse(m), Applied: applied})
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento
// @Description  Uso administrativo: no revierte saldos.
// @Tags         ledger
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [delete]
func (h *LedgerHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.svc.DeleteMovement(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         ledger
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [get]
func (h *LedgerHandler) GetMovement(c *fiber.Ctx) error {
	m, err := h.svc.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(m))
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         ledger
// @Produce      json
// @Param        product_id        query  string  false  "Producto"
// @Param        type              query  string  false  "entry | exit | sale | delivery"
// @Param        status            query  bool    false  "true = confirmados"
// @Param        region_id         query  string  false  "Región"
// @Param        point_of_sale_id  query  string  false  "Punto de venta"
// @Param        from              query  string  false  "Desde (RFC3339)"
// @Param        to                query  string  false  "Hasta (RFC3339)"
// @Param        limit             query  int     false  "Límite"  default(20)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	filter := repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		Type:        entity.MovementType(c.Query("type")),
		RegionID:    c.Query("region_id"),
		PointOfSale: c.Query("point_of_sale_id"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	if s := c.Query("status"); s != "" {
		status := c.QueryBool("status")
		filter.Status = &status
	}
	var err error
	if filter.From, err = queryTime(c, "from"); err != nil {
		return writeError(c, err)
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return writeError(c, err)
	}

	list, err := h.svc.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, m := range list {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Saldo de un producto en un ámbito
// @Tags         ledger
// @Produce      json
// @Param        product_id  query  string  true   "Producto"
// @Param        scope_kind  query  string  true   "central_depot | region | point_of_sale"
// @Param        scope_ref   query  string  false  "ID de región o punto de venta"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/stock [get]
func (h *LedgerHandler) GetStock(c *fiber.Ctx) error {
	scope := entity.Scope{Kind: entity.ScopeKind(c.Query("scope_kind")), Ref: c.Query("scope_ref")}
	s, err := h.svc.GetStock(c.UserContext(), c.Query("product_id"), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockResponse(s))
}

// ListStock godoc
// @Summary      Saldos de un producto en todos los ámbitos
// @Tags         ledger
// @Produce      json
// @Param        product_id  path  string  true  "Producto"
// @Success      200  {array}   dto.StockResponse
// @Router       /api/ledger/stock/{product_id} [get]
func (h *LedgerHandler) ListStock(c *fiber.Ctx) error {
	list, err := h.svc.ListStock(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStockResponse(s))
	}
	return c.JSON(out)
}

// GetRegionalStock godoc
// @Summary      Saldo regional (bodega + puntos de venta)
// @Tags         ledger
// @Produce      json
// @Param        product_id  path  string  true  "Producto"
// @Param        region_id   path  string  true  "Región"
// @Success      200  {object}  dto.RegionalStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/stock/{product_id}/regions/{region_id} [get]
func (h *LedgerHandler) GetRegionalStock(c *fiber.Ctx) error {
	r, err := h.svc.GetRegionalStock(c.UserContext(), c.Params("product_id"), c.Params("region_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRegionalStockResponse(r))
}

// ListAdjustmentFailures godoc
// @Summary      Cola de conciliación
// @Description  Ajustes que fallaron después de persistir el movimiento.
// @Tags         ledger
// @Produce      json
// @Param        open    query  bool  false  "Solo pendientes"  default(true)
// @Param        limit   query  int   false  "Límite"  default(20)
// @Param        offset  query  int   false  "Offset"  default(0)
// @Success      200  {object}  dto.AdjustmentFailureListResponse
// @Router       /api/ledger/adjustment-failures [get]
func (h *LedgerHandler) ListAdjustmentFailures(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	list, err := h.svc.ListAdjustmentFailures(c.UserContext(), c.QueryBool("open", true), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.AdjustmentFailureListResponse{
		Items: make([]dto.AdjustmentFailureResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, f := range list {
		out.Items = append(out.Items, toFailureResponse(f))
	}
	return c.JSON(out)
}

// ResolveAdjustmentFailure godoc
// @Summary      Marcar falla como conciliada
// @Tags         ledger
// @Param        id   path  string  true  "ID de la falla"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/adjustment-failures/{id}/resolve [post]
func (h *LedgerHandler) ResolveAdjustmentFailure(c *fiber.Ctx) error {
	if err := h.svc.ResolveAdjustmentFailure(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// movementResult responde con el movimiento; un PostCommitError con movimiento persistido
// se reporta como 202 con el detalle de la falla.
func movementResult(c *fiber.Ctx, okStatus int, m *entity.StockMovement, err error) error {
	if err == nil {
		return c.Status(okStatus).JSON(dto.MovementResultResponse{Movement: toMovementResponse(m)})
	}
	var pc *inventory.PostCommitError
	if m != nil && errors.As(err, &pc) {
		return c.Status(fiber.StatusAccepted).JSON(dto.MovementResultResponse{
			Movement:        toMovementResponse(m),
			AdjustmentError: pc.Err.Error(),
			FailedStep:      pc.Step,
		})
	}
	return writeError(c, err)
}

// writeError traduce errores de dominio a códigos HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	var serr *domain.ScopeError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields})
	case errors.As(err, &serr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_SCOPE", Message: serr.Reason})
	case errors.Is(err, domain.ErrInvalidScope):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_SCOPE", Message: "ámbito inválido"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "estado en conflicto"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, domain.NewValidationError(key, "rfc3339")
	}
	return &t, nil
}
