package store

import (
	"context"
	"errors"

	"github.com/sunvolt/fieldopsgo/internal/models"
)

// ErrNotFound is returned when a record id does not exist in its collection.
var ErrNotFound = errors.New("record not found")

// Store is the persisted-collection contract the engine and handlers run
// against. Saves are upserts by id: create if absent, replace if present.
// Movements are append-only and have no update or delete path.
type Store interface {
	ListFieldRecords(ctx context.Context, kind models.RecordKind, ownerID string, allOwners bool) ([]models.FieldRecord, error)
	GetFieldRecord(ctx context.Context, id string) (*models.FieldRecord, error)
	SaveFieldRecord(ctx context.Context, rec *models.FieldRecord) error

	ListStockItems(ctx context.Context) ([]models.StockItem, error)
	GetStockItem(ctx context.Context, id string) (*models.StockItem, error)
	SaveStockItem(ctx context.Context, item *models.StockItem) error
	DeleteStockItem(ctx context.Context, id string) error

	ListStockMovements(ctx context.Context, itemID string) ([]models.StockMovement, error)
	AppendStockMovement(ctx context.Context, mv *models.StockMovement) error

	ListPurchaseRequests(ctx context.Context) ([]models.PurchaseRequest, error)
	SavePurchaseRequest(ctx context.Context, pr *models.PurchaseRequest) error

	ListSalesQuotes(ctx context.Context) ([]models.SalesQuote, error)
	SaveSalesQuote(ctx context.Context, q *models.SalesQuote) error
}
