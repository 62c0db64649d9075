package models

import (
	"time"
)

// Purchase request statuses. The request lifecycle is owned by the purchasing
// module; the workflow engine only creates requests and checks whether one is
// still pending for an item.
const (
	PurchaseStatusOpen      = "open"
	PurchaseStatusOrdered   = "ordered"
	PurchaseStatusDone      = "done"
	PurchaseStatusCancelled = "cancelled"
)

const (
	PurchasePriorityNormal = "normal"
	PurchasePriorityHigh   = "high"
)

// PurchaseRequest asks the purchasing module to buy material. The
// replenishment planner raises one automatically when a deduction drops an
// item below its minimum quantity.
type PurchaseRequest struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	ItemName     string  `gorm:"index;not null" json:"itemName"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Priority     string  `gorm:"default:'normal'" json:"priority"`
	Status       string  `gorm:"index;default:'open'" json:"status"`
	ClientName   string  `json:"clientName"` // originating project
	PurchaseType string  `json:"purchaseType"`
	Note         string  `json:"note"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for PurchaseRequest
func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// Pending reports whether the request still counts against the
// at-most-one-open-request-per-item rule.
func (p *PurchaseRequest) Pending() bool {
	return p.Status != PurchaseStatusDone && p.Status != PurchaseStatusCancelled
}
