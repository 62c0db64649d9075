package models

import (
	"time"

	"gorm.io/datatypes"
)

// RecordKind classifies a field record.
type RecordKind string

const (
	KindCheckIn     RecordKind = "check_in"
	KindCheckOut    RecordKind = "check_out"
	KindMaintenance RecordKind = "maintenance"
)

// RecordStatus is the lifecycle state of a field record.
// CheckIns move open -> confirmed|lost, CheckOuts and Maintenance
// move open -> finalized. Confirmed is not terminal: confirming a
// CheckIn spawns the CheckOut that will eventually finalize it.
type RecordStatus string

const (
	StatusOpen      RecordStatus = "open"
	StatusConfirmed RecordStatus = "confirmed"
	StatusLost      RecordStatus = "lost"
	StatusFinalized RecordStatus = "finalized"
)

// ComponentUsage is one material line attached to a field record.
// On a CheckIn the quantity is what was reserved at sale confirmation;
// on a CheckOut or Maintenance it is what was actually consumed.
type ComponentUsage struct {
	ItemID   string  `json:"itemId"`
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
}

// FieldRecord represents one check-in, check-out or maintenance visit.
type FieldRecord struct {
	ID          string       `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID     string       `gorm:"index" json:"ownerId"`
	Kind        RecordKind   `gorm:"index;not null" json:"kind"`
	Project     string       `gorm:"index" json:"project"` // client / site label
	Responsible string       `json:"responsible"`
	Date        time.Time    `json:"date"`
	Status      RecordStatus `gorm:"index;default:'open'" json:"status"`

	ComponentsUsed datatypes.JSONSlice[ComponentUsage] `json:"componentsUsed"`

	// For a CheckOut spawned by a sale confirmation, the originating CheckIn.
	LinkedRecordID *string `gorm:"index" json:"linkedRecordId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for FieldRecord
func (FieldRecord) TableName() string {
	return "field_records"
}

// Component returns the usage line for the given item id, if present.
func (r *FieldRecord) Component(itemID string) (ComponentUsage, bool) {
	for _, c := range r.ComponentsUsed {
		if c.ItemID == itemID {
			return c, true
		}
	}
	return ComponentUsage{}, false
}
