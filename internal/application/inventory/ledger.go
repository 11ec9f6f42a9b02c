package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// LedgerConfig opciones del controlador de movimientos.
type LedgerConfig struct {
	DebitOnLateConfirm bool
	OperationTimeout   time.Duration
}

// LedgerUseCase controla el ciclo de vida de los movimientos de stock:
// validar → persistir → aplicar efectos en el libro.
type LedgerUseCase struct {
	txRunner     TxRunner
	movRepo      repository.StockMovementRepository
	stockRepo    repository.StockRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	failureRepo  repository.AdjustmentFailureRepository
	adjuster     *Adjuster
	validate     *validator.Validate
	cfg          LedgerConfig
	log          *logger.Logger
	now          func() time.Time
}

// LedgerDeps dependencias del caso de uso. ProductRepo, LocationRepo y FailureRepo son opcionales.
type LedgerDeps struct {
	TxRunner     TxRunner
	MovementRepo repository.StockMovementRepository
	StockRepo    repository.StockRepository
	ProductRepo  repository.ProductRepository
	LocationRepo repository.LocationRepository
	FailureRepo  repository.AdjustmentFailureRepository
	Logger       *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(deps LedgerDeps, cfg LedgerConfig) *LedgerUseCase {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	log = log.Named("ledger")
	return &LedgerUseCase{
		txRunner:     deps.TxRunner,
		movRepo:      deps.MovementRepo,
		stockRepo:    deps.StockRepo,
		productRepo:  deps.ProductRepo,
		locationRepo: deps.LocationRepo,
		failureRepo:  deps.FailureRepo,
		adjuster:     NewAdjuster(log),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		cfg:          cfg,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateMovementInput entrada para registrar un movimiento.
type CreateMovementInput struct {
	ProductID      string              `validate:"required"`
	Type           entity.MovementType `validate:"required,oneof=entry exit sale delivery"`
	Quantity       int64               `validate:"gt=0"`
	MonetaryAmount decimal.Decimal
	Status         bool
	Location       entity.LocationFields
	LinkedOrderID  string
	UserID         string
}

// UpdateMovementInput cambios sobre un movimiento existente. Campos nil no se tocan.
type UpdateMovementInput struct {
	Status         *bool
	Quantity       *int64 `validate:"omitempty,gt=0"`
	MonetaryAmount *decimal.Decimal
	CentralDepot   *bool
	RegionID       *string
	PointOfSale    *string
	LinkedOrderID  *string
	UserID         *string
}

// commitContext estado transitorio de una creación: la resolución se calcula una vez,
// antes de normalizar los campos de ubicación, y se usa en la fase posterior a persistir.
type commitContext struct {
	movement   *entity.StockMovement
	resolution domaininv.Resolution
	normalized bool
}

// CreateMovement valida, persiste y aplica los efectos del movimiento.
// Si un ajuste falla después de persistir, devuelve el movimiento junto con un *PostCommitError.
func (uc *LedgerUseCase) CreateMovement(ctx context.Context, in CreateMovementInput) (*entity.StockMovement, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()

	cc, err := uc.validateCreate(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := uc.persist(ctx, cc); err != nil {
		return nil, err
	}
	if err := uc.applyLedgerEffects(ctx, cc); err != nil {
		return cc.movement, err
	}
	return cc.movement, nil
}

func (uc *LedgerUseCase) validateCreate(ctx context.Context, in CreateMovementInput) (*commitContext, error) {
	if err := uc.validateStruct(in); err != nil {
		return nil, err
	}
	if in.MonetaryAmount.IsNegative() {
		return nil, domain.NewValidationError("monetary_amount", "gte=0")
	}
	if err := uc.checkProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	res, err := domaininv.Resolve(in.Type, in.Location)
	if err != nil {
		return nil, err
	}

	// Ventas/salidas pendientes no reservan stock; los envíos siempre descuentan al persistir.
	needsCheck := in.Type == entity.MovementTypeDelivery || (in.Type.Debits() && in.Status)
	if needsCheck {
		cur, err := uc.stockRepo.Get(ctx, in.ProductID, res.Source)
		if err != nil {
			return nil, err
		}
		if !cur.Covers(in.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
	}

	now := uc.now()
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		MonetaryAmount: in.MonetaryAmount,
		Status:         in.Status,
		Location:       in.Location,
		LinkedOrderID:  in.LinkedOrderID,
		UserID:         in.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	cc := &commitContext{movement: mov, resolution: res}
	if in.Type == entity.MovementTypeDelivery {
		cc.normalized = domaininv.NormalizeDelivery(&mov.Location)
	}
	return cc, nil
}

func (uc *LedgerUseCase) persist(ctx context.Context, cc *commitContext) error {
	return uc.movRepo.Create(ctx, cc.movement)
}

func (uc *LedgerUseCase) applyLedgerEffects(ctx context.Context, cc *commitContext) error {
	m := cc.movement
	res := cc.resolution

	switch m.Type {
	case entity.MovementTypeEntry:
		if _, err := uc.adjuster.Credit(ctx, uc.stockRepo, m.ProductID, res.Destination, m.Quantity, m.MonetaryAmount); err != nil {
			return uc.postCommitFailure(ctx, m, res.Destination, m.Quantity, m.MonetaryAmount, entity.StepCreditDestination, err)
		}
	case entity.MovementTypeSale, entity.MovementTypeExit:
		if !m.Status {
			return nil
		}
		if err := uc.debitSource(ctx, m, res.Source); err != nil {
			return uc.postCommitFailure(ctx, m, res.Source, -m.Quantity, m.MonetaryAmount.Neg(), entity.StepDebitSource, err)
		}
	case entity.MovementTypeDelivery:
		if err := uc.debitSource(ctx, m, res.Source); err != nil {
			return uc.postCommitFailure(ctx, m, res.Source, -m.Quantity, m.MonetaryAmount.Neg(), entity.StepDebitSource, err)
		}
		if m.Status && !res.Destination.IsZero() && !m.TransferApplied {
			applied, err := uc.settle(ctx, m, res.Destination)
			if err != nil {
				return uc.postCommitFailure(ctx, m, res.Destination, m.Quantity, m.MonetaryAmount, entity.StepCreditDestination, err)
			}
			m.TransferApplied = applied
		}
	}

	uc.log.Debug().
		Str("movement_id", m.ID).
		Str("type", string(m.Type)).
		Bool("normalized", cc.normalized).
		Msg("movimiento aplicado")
	return nil
}

// debitSource marca debit_applied y descuenta el origen en la misma transacción.
func (uc *LedgerUseCase) debitSource(ctx context.Context, m *entity.StockMovement, src entity.Scope) error {
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, stockRepo repository.StockRepository) error {
		return uc.claimDebit(ctx, movRepo, stockRepo, m, src)
	})
	if err != nil {
		return err
	}
	m.DebitApplied = true
	return nil
}

// claimDebit descuenta el origen solo si debit_applied sigue en false. Debe correr dentro de una tx.
func (uc *LedgerUseCase) claimDebit(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	m *entity.StockMovement,
	src entity.Scope,
) error {
	ok, err := movRepo.MarkDebitApplied(ctx, m.ID)
	if err != nil || !ok {
		return err
	}
	_, err = uc.adjuster.Debit(ctx, stockRepo, m.ProductID, src, m.Quantity, m.MonetaryAmount)
	return err
}

// settle marca transfer_applied (solo si sigue en false) y acredita el destino en la misma transacción.
// Devuelve false sin error si el traslado ya estaba aplicado.
func (uc *LedgerUseCase) settle(ctx context.Context, m *entity.StockMovement, dest entity.Scope) (bool, error) {
	applied := false
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, stockRepo repository.StockRepository) error {
		ok, err := movRepo.MarkTransferApplied(ctx, m.ID)
		if err != nil || !ok {
			return err
		}
		if _, err := uc.adjuster.Credit(ctx, stockRepo, m.ProductID, dest, m.Quantity, m.MonetaryAmount); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// UpdateMovement aplica un parche y, si el estado pasa de pendiente a confirmado, los efectos diferidos:
// envíos acreditan el destino y ventas/salidas descuentan el origen (si DebitOnLateConfirm).
// Todo ocurre en una transacción con la fila bloqueada; debit_applied y transfer_applied
// garantizan que cada efecto se aplique una sola vez aunque el estado vaya y vuelva.
func (uc *LedgerUseCase) UpdateMovement(ctx context.Context, id string, in UpdateMovementInput) (*entity.StockMovement, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()

	if err := uc.validateStruct(in); err != nil {
		return nil, err
	}
	if in.MonetaryAmount != nil && in.MonetaryAmount.IsNegative() {
		return nil, domain.NewValidationError("monetary_amount", "gte=0")
	}

	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, stockRepo repository.StockRepository) error {
		cur, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}

		next := *cur
		applyPatch(&next, in)
		next.UpdatedAt = uc.now()
		if next.Type == entity.MovementTypeDelivery {
			domaininv.NormalizeDelivery(&next.Location)
		}

		if cur.Status != next.Status {
			// confirmado → pendiente: sin efecto en el libro.
			if _, err := movRepo.SetStatus(ctx, next.ID, next.Status); err != nil {
				return err
			}
		}
		if err := movRepo.Update(ctx, &next); err != nil {
			return err
		}
		if cur.Status || !next.Status {
			return nil
		}

		switch next.Type {
		case entity.MovementTypeSale, entity.MovementTypeExit:
			return uc.confirmDebit(ctx, movRepo, stockRepo, &next)
		case entity.MovementTypeDelivery:
			return uc.confirmDelivery(ctx, movRepo, stockRepo, &next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.reload(ctx, id)
}

func (uc *LedgerUseCase) confirmDebit(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	next *entity.StockMovement,
) error {
	src, err := domaininv.ResolveSource(next.Location)
	if err != nil {
		return err
	}
	if !uc.cfg.DebitOnLateConfirm {
		return nil
	}
	return uc.claimDebit(ctx, movRepo, stockRepo, next, src)
}

func (uc *LedgerUseCase) confirmDelivery(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	next *entity.StockMovement,
) error {
	dest, hasDest := domaininv.ResolveSettlementDestination(next.Location)
	if !hasDest {
		_, err := domaininv.ResolveTransfer(next.Location)
		return err
	}
	ok, err := movRepo.MarkTransferApplied(ctx, next.ID)
	if err != nil || !ok {
		return err
	}
	_, err = uc.adjuster.Credit(ctx, stockRepo, next.ProductID, dest, next.Quantity, next.MonetaryAmount)
	return err
}

// SettleTransfer acredita el destino de un envío confirmado. Idempotente: un segundo llamado
// no vuelve a acreditar. Devuelve si esta llamada aplicó el crédito.
func (uc *LedgerUseCase) SettleTransfer(ctx context.Context, id string) (*entity.StockMovement, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()

	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, domain.ErrNotFound
	}
	if m.Type != entity.MovementTypeDelivery {
		return nil, false, domain.NewValidationError("type", "delivery")
	}
	if !m.Status {
		return nil, false, domain.ErrConflict
	}
	if m.TransferApplied {
		return m, false, nil
	}
	dest, ok := domaininv.ResolveSettlementDestination(m.Location)
	if !ok {
		return nil, false, domain.NewScopeError(domain.ReasonAmbiguousDelivery)
	}
	applied, err := uc.settle(ctx, m, dest)
	if err != nil {
		return nil, false, err
	}
	m, err = uc.reload(ctx, id)
	return m, applied, err
}

// DeleteMovement borrado administrativo. No revierte los efectos en el libro:
// los movimientos son un registro de auditoría y el saldo no se recalcula.
func (uc *LedgerUseCase) DeleteMovement(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.OperationTimeout)
	defer cancel()

	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if err := uc.movRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Warn().
		Str("movement_id", id).
		Str("product_id", m.ProductID).
		Str("type", string(m.Type)).
		Bool("status", m.Status).
		Msg("movimiento borrado sin reversión de stock")
	return nil
}

func (uc *LedgerUseCase) reload(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// postCommitFailure registra y devuelve la falla de un ajuste posterior a persistir el movimiento.
func (uc *LedgerUseCase) postCommitFailure(
	ctx context.Context,
	m *entity.StockMovement,
	scope entity.Scope,
	qtyDelta int64,
	monetaryDelta decimal.Decimal,
	step string,
	cause error,
) error {
	uc.log.Error().
		Err(cause).
		Str("movement_id", m.ID).
		Str("product_id", m.ProductID).
		Str("scope", scope.String()).
		Str("step", step).
		Msg("ajuste posterior a persistir el movimiento fallido")

	if uc.failureRepo != nil {
		// El registro debe sobrevivir a la cancelación del request original.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.OperationTimeout)
		defer cancel()
		f := &entity.AdjustmentFailure{
			ID:            uuid.New().String(),
			MovementID:    m.ID,
			ProductID:     m.ProductID,
			Scope:         scope,
			QuantityDelta: qtyDelta,
			MonetaryDelta: monetaryDelta,
			Step:          step,
			Error:         cause.Error(),
			CreatedAt:     uc.now(),
		}
		if err := uc.failureRepo.Create(rctx, f); err != nil {
			uc.log.Error().Err(err).Str("movement_id", m.ID).Msg("registrar falla de ajuste")
		}
	}
	return &PostCommitError{MovementID: m.ID, Step: step, Err: cause}
}

func (uc *LedgerUseCase) checkProduct(ctx context.Context, productID string) error {
	if uc.productRepo == nil {
		return nil
	}
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NewValidationError("product_id", "exists")
	}
	return nil
}

func (uc *LedgerUseCase) validateStruct(s any) error {
	err := uc.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInvalidInput
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &domain.ValidationError{Fields: fields}
}

func applyPatch(m *entity.StockMovement, in UpdateMovementInput) {
	if in.Status != nil {
		m.Status = *in.Status
	}
	if in.Quantity != nil {
		m.Quantity = *in.Quantity
	}
	if in.MonetaryAmount != nil {
		m.MonetaryAmount = *in.MonetaryAmount
	}
	if in.CentralDepot != nil {
		m.Location.CentralDepot = *in.CentralDepot
	}
	if in.RegionID != nil {
		m.Location.RegionID = *in.RegionID
	}
	if in.PointOfSale != nil {
		m.Location.PointOfSale = *in.PointOfSale
	}
	if in.LinkedOrderID != nil {
		m.LinkedOrderID = *in.LinkedOrderID
	}
	if in.UserID != nil {
		m.UserID = *in.UserID
	}
}
