package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type stockKey struct {
	productID string
	scope     entity.Scope
}

// memoryStore implementa StockRepository y StockMovementRepository en memoria.
// Adjust es atómico bajo el mutex, como la sentencia condicional en PostgreSQL.
type memoryStore struct {
	mu        sync.Mutex
	stock     map[stockKey]entity.StockRecord
	movements map[string]entity.StockMovement

	// adjustErr permite simular fallas del almacén en un ámbito.
	adjustErr func(scope entity.Scope) error

	txMu sync.Mutex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		stock:     make(map[stockKey]entity.StockRecord),
		movements: make(map[string]entity.StockMovement),
	}
}

func (s *memoryStore) seed(productID string, scope entity.Scope, qty int64, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[stockKey{productID, scope}] = entity.StockRecord{
		ProductID: productID, Scope: scope, Quantity: qty, MonetaryValue: decimal.NewFromInt(value),
	}
}

func (s *memoryStore) Get(_ context.Context, productID string, scope entity.Scope) (*entity.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.stock[stockKey{productID, scope}]
	if !ok {
		return entity.EmptyStock(productID, scope), nil
	}
	return &rec, nil
}

func (s *memoryStore) Adjust(_ context.Context, productID string, scope entity.Scope, qty int64, value decimal.Decimal) (*entity.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adjustErr != nil {
		if err := s.adjustErr(scope); err != nil {
			return nil, err
		}
	}
	k := stockKey{productID, scope}
	rec, ok := s.stock[k]
	if qty < 0 && (!ok || rec.Quantity < -qty) {
		return nil, domain.ErrInsufficientStock
	}
	if !ok {
		rec = entity.StockRecord{ProductID: productID, Scope: scope, MonetaryValue: decimal.Zero}
	}
	rec.Quantity += qty
	rec.MonetaryValue = rec.MonetaryValue.Add(value)
	s.stock[k] = rec
	return &rec, nil
}

func (s *memoryStore) ListByProduct(_ context.Context, productID string) ([]*entity.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockRecord
	for k, rec := range s.stock {
		if k.productID == productID {
			r := rec
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scope.String() < out[j].Scope.String() })
	return out, nil
}

func (s *memoryStore) ListByScopes(_ context.Context, productID string, scopes []entity.Scope) ([]*entity.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockRecord
	for _, sc := range scopes {
		if rec, ok := s.stock[stockKey{productID, sc}]; ok {
			r := rec
			out = append(out, &r)
		}
	}
	return out, nil
}

func (s *memoryStore) Create(_ context.Context, m *entity.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movements[m.ID]; ok {
		return domain.ErrConflict
	}
	s.movements[m.ID] = *m
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate no necesita bloqueo: memoryTxRunner serializa las transacciones.
func (s *memoryStore) GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return s.GetByID(ctx, id)
}

func (s *memoryStore) Update(_ context.Context, m *entity.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.movements[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *m
	next.Status = cur.Status
	next.DebitApplied = cur.DebitApplied
	next.TransferApplied = cur.TransferApplied
	s.movements[m.ID] = next
	return nil
}

func (s *memoryStore) SetStatus(_ context.Context, id string, status bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.movements[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if cur.Status == status {
		return false, nil
	}
	cur.Status = status
	s.movements[id] = cur
	return true, nil
}

func (s *memoryStore) MarkTransferApplied(_ context.Context, id string) (bool, error) {
	return s.claim(id, func(m *entity.StockMovement) *bool { return &m.TransferApplied })
}

func (s *memoryStore) MarkDebitApplied(_ context.Context, id string) (bool, error) {
	return s.claim(id, func(m *entity.StockMovement) *bool { return &m.DebitApplied })
}

func (s *memoryStore) claim(id string, flag func(*entity.StockMovement) *bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.movements[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if *flag(&cur) {
		return false, nil
	}
	*flag(&cur) = true
	s.movements[id] = cur
	return true, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.movements, id)
	return nil
}

func (s *memoryStore) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		mm := m
		out = append(out, &mm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryStore) quantity(productID string, scope entity.Scope) int64 {
	rec, _ := s.Get(context.Background(), productID, scope)
	return rec.Quantity
}

// memoryTxRunner serializa las transacciones. Cada escritura dentro de fn registra su
// inversa y, si fn falla, se deshacen en orden inverso sin pisar escrituras hechas fuera de la tx.
type memoryTxRunner struct {
	store *memoryStore
}

func (r memoryTxRunner) Run(ctx context.Context, fn func(repository.StockMovementRepository, repository.StockRepository) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	tx := &memoryTx{memoryStore: r.store}
	if err := fn(tx, tx); err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

type memoryTx struct {
	*memoryStore
	undo []func()
}

func (t *memoryTx) Adjust(ctx context.Context, productID string, scope entity.Scope, qty int64, value decimal.Decimal) (*entity.StockRecord, error) {
	rec, err := t.memoryStore.Adjust(ctx, productID, scope, qty, value)
	if err == nil {
		t.undo = append(t.undo, func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			k := stockKey{productID, scope}
			r := t.stock[k]
			r.Quantity -= qty
			r.MonetaryValue = r.MonetaryValue.Sub(value)
			t.stock[k] = r
		})
	}
	return rec, err
}

func (t *memoryTx) Create(ctx context.Context, m *entity.StockMovement) error {
	err := t.memoryStore.Create(ctx, m)
	if err == nil {
		id := m.ID
		t.undo = append(t.undo, func() { _ = t.memoryStore.Delete(ctx, id) })
	}
	return err
}

func (t *memoryTx) Update(ctx context.Context, m *entity.StockMovement) error {
	t.saveMovement(m.ID)
	return t.memoryStore.Update(ctx, m)
}

func (t *memoryTx) SetStatus(ctx context.Context, id string, status bool) (bool, error) {
	t.saveMovement(id)
	return t.memoryStore.SetStatus(ctx, id, status)
}

func (t *memoryTx) MarkTransferApplied(ctx context.Context, id string) (bool, error) {
	t.saveMovement(id)
	return t.memoryStore.MarkTransferApplied(ctx, id)
}

func (t *memoryTx) MarkDebitApplied(ctx context.Context, id string) (bool, error) {
	t.saveMovement(id)
	return t.memoryStore.MarkDebitApplied(ctx, id)
}

// saveMovement registra el estado previo del movimiento; la tx tiene la fila bloqueada.
func (t *memoryTx) saveMovement(id string) {
	t.mu.Lock()
	prev, ok := t.movements[id]
	t.mu.Unlock()
	if !ok {
		return
	}
	t.undo = append(t.undo, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.movements[id] = prev
	})
}

type memoryFailures struct {
	mu    sync.Mutex
	items []*entity.AdjustmentFailure
}

func (f *memoryFailures) Create(_ context.Context, failure *entity.AdjustmentFailure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, failure)
	return nil
}

func (f *memoryFailures) List(_ context.Context, onlyOpen bool, _, _ int) ([]*entity.AdjustmentFailure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.AdjustmentFailure
	for _, it := range f.items {
		if onlyOpen && it.ResolvedAt != nil {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (f *memoryFailures) Resolve(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id && it.ResolvedAt == nil {
			now := it.CreatedAt
			it.ResolvedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

type memoryLocations map[string][]*entity.PointOfSaleLocation

func (l memoryLocations) GetPointOfSale(_ context.Context, id string) (*entity.PointOfSaleLocation, error) {
	for _, points := range l {
		for _, p := range points {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return nil, nil
}

func (l memoryLocations) ListPointsOfSale(_ context.Context, regionID string) ([]*entity.PointOfSaleLocation, error) {
	return l[regionID], nil
}

type memoryProducts map[string]bool

func (p memoryProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if !p[id] {
		return nil, nil
	}
	return &entity.Product{ID: id}, nil
}
