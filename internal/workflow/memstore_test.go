package workflow

import (
	"context"
	"errors"

	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/store"
)

// memStore is an in-memory Store used to exercise the engine without a
// database. Save/Get work on copies so a test never mutates stored state
// through a returned pointer.
type memStore struct {
	records   map[string]models.FieldRecord
	items     map[string]models.StockItem
	movements []models.StockMovement
	requests  map[string]models.PurchaseRequest
	quotes    map[string]models.SalesQuote

	// failSaveItem makes SaveStockItem fail for one item id, to simulate a
	// partial-write failure mid-transition.
	failSaveItem string
}

func newMemStore() *memStore {
	return &memStore{
		records:  make(map[string]models.FieldRecord),
		items:    make(map[string]models.StockItem),
		requests: make(map[string]models.PurchaseRequest),
		quotes:   make(map[string]models.SalesQuote),
	}
}

func (m *memStore) ListFieldRecords(_ context.Context, kind models.RecordKind, ownerID string, allOwners bool) ([]models.FieldRecord, error) {
	var out []models.FieldRecord
	for _, r := range m.records {
		if r.Kind != kind {
			continue
		}
		if !allOwners && ownerID != "" && r.OwnerID != ownerID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) GetFieldRecord(_ context.Context, id string) (*models.FieldRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) SaveFieldRecord(_ context.Context, rec *models.FieldRecord) error {
	m.records[rec.ID] = *rec
	return nil
}

func (m *memStore) ListStockItems(_ context.Context) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *memStore) GetStockItem(_ context.Context, id string) (*models.StockItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &it, nil
}

func (m *memStore) SaveStockItem(_ context.Context, item *models.StockItem) error {
	if m.failSaveItem != "" && item.ID == m.failSaveItem {
		return errors.New("simulated storage failure")
	}
	m.items[item.ID] = *item
	return nil
}

func (m *memStore) DeleteStockItem(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memStore) ListStockMovements(_ context.Context, itemID string) ([]models.StockMovement, error) {
	var out []models.StockMovement
	for _, mv := range m.movements {
		if itemID == "" || mv.ItemID == itemID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memStore) AppendStockMovement(_ context.Context, mv *models.StockMovement) error {
	m.movements = append(m.movements, *mv)
	return nil
}

func (m *memStore) ListPurchaseRequests(_ context.Context) ([]models.PurchaseRequest, error) {
	var out []models.PurchaseRequest
	for _, pr := range m.requests {
		out = append(out, pr)
	}
	return out, nil
}

func (m *memStore) SavePurchaseRequest(_ context.Context, pr *models.PurchaseRequest) error {
	m.requests[pr.ID] = *pr
	return nil
}

func (m *memStore) ListSalesQuotes(_ context.Context) ([]models.SalesQuote, error) {
	var out []models.SalesQuote
	for _, q := range m.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (m *memStore) SaveSalesQuote(_ context.Context, q *models.SalesQuote) error {
	m.quotes[q.ID] = *q
	return nil
}

func (m *memStore) pendingRequests() []models.PurchaseRequest {
	var out []models.PurchaseRequest
	for _, pr := range m.requests {
		if pr.Pending() {
			out = append(out, pr)
		}
	}
	return out
}
