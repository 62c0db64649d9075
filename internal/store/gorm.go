package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sunvolt/fieldopsgo/internal/database"
	"github.com/sunvolt/fieldopsgo/internal/models"
	"gorm.io/gorm"
)

// gormStore persists every collection through GORM.
type gormStore struct {
	db *database.DB
}

// New returns a Store backed by the given database.
func New(db *database.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListFieldRecords(ctx context.Context, kind models.RecordKind, ownerID string, allOwners bool) ([]models.FieldRecord, error) {
	var records []models.FieldRecord
	q := s.db.WithContext(ctx).Where("kind = ?", kind)
	if !allOwners && ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if err := q.Order("date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	return records, nil
}

func (s *gormStore) GetFieldRecord(ctx context.Context, id string) (*models.FieldRecord, error) {
	var rec models.FieldRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load field record %s: %w", id, err)
	}
	return &rec, nil
}

func (s *gormStore) SaveFieldRecord(ctx context.Context, rec *models.FieldRecord) error {
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("failed to save field record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *gormStore) ListStockItems(ctx context.Context) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := s.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}
	return items, nil
}

func (s *gormStore) GetStockItem(ctx context.Context, id string) (*models.StockItem, error) {
	var item models.StockItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load stock item %s: %w", id, err)
	}
	return &item, nil
}

func (s *gormStore) SaveStockItem(ctx context.Context, item *models.StockItem) error {
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save stock item %s: %w", item.ID, err)
	}
	return nil
}

func (s *gormStore) DeleteStockItem(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.StockItem{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete stock item %s: %w", id, err)
	}
	return nil
}

func (s *gormStore) ListStockMovements(ctx context.Context, itemID string) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	q := s.db.WithContext(ctx).Order("date DESC")
	if itemID != "" {
		q = q.Where("item_id = ?", itemID)
	}
	if err := q.Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

func (s *gormStore) AppendStockMovement(ctx context.Context, mv *models.StockMovement) error {
	// Create, not Save: the movement log is append-only.
	if err := s.db.WithContext(ctx).Create(mv).Error; err != nil {
		return fmt.Errorf("failed to append stock movement: %w", err)
	}
	return nil
}

func (s *gormStore) ListPurchaseRequests(ctx context.Context) ([]models.PurchaseRequest, error) {
	var requests []models.PurchaseRequest
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchase requests: %w", err)
	}
	return requests, nil
}

func (s *gormStore) SavePurchaseRequest(ctx context.Context, pr *models.PurchaseRequest) error {
	if err := s.db.WithContext(ctx).Save(pr).Error; err != nil {
		return fmt.Errorf("failed to save purchase request %s: %w", pr.ID, err)
	}
	return nil
}

func (s *gormStore) ListSalesQuotes(ctx context.Context) ([]models.SalesQuote, error) {
	var quotes []models.SalesQuote
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales quotes: %w", err)
	}
	return quotes, nil
}

func (s *gormStore) SaveSalesQuote(ctx context.Context, q *models.SalesQuote) error {
	if err := s.db.WithContext(ctx).Save(q).Error; err != nil {
		return fmt.Errorf("failed to save sales quote %s: %w", q.ID, err)
	}
	return nil
}
