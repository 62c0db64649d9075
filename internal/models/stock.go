package models

import (
	"time"
)

// StockItem is one inventory SKU: solar panels, inverters, cabling, mounting
// hardware. Quantity (on-hand) and ReservedQuantity are tracked independently:
// reservations are a soft hold made at sale confirmation and do not subtract
// from on-hand stock. The two are reconciled only at consumption time.
// Both are clamped at zero, never negative.
type StockItem struct {
	ID               string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name             string  `gorm:"index;not null" json:"name"`
	Unit             string  `json:"unit"` // pcs, m, kg...
	Quantity         float64 `json:"quantity"`
	ReservedQuantity float64 `json:"reservedQuantity"`
	MinQuantity      float64 `json:"minQuantity"` // reorder threshold
	AveragePrice     float64 `json:"averagePrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for StockItem
func (StockItem) TableName() string {
	return "stock_items"
}

// StockMovement is an immutable consumption fact, appended whenever on-hand
// stock is actually decremented. Never written on reservation, never updated
// or deleted afterwards.
type StockMovement struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ItemID      string    `gorm:"index;not null" json:"itemId"`
	Quantity    float64   `json:"quantity"`
	Date        time.Time `json:"date"`
	ProjectName string    `json:"projectName"`
	Note        string    `json:"note"` // origin record kind

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for StockMovement
func (StockMovement) TableName() string {
	return "stock_movements"
}
