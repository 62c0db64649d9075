package models

import (
	"time"
)

// Sales quote statuses.
const (
	QuoteStatusOpen      = "open"
	QuoteStatusFinalized = "finalized"
	QuoteStatusLost      = "lost"
)

// SalesQuote is the commercial quote behind a site. The engine never creates
// quotes; it only marks the quote matching a finalized CheckOut's project as
// finalized, best-effort by client name.
type SalesQuote struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ClientName  string    `gorm:"index;not null" json:"clientName"`
	Responsible string    `json:"responsible"`
	Date        time.Time `json:"date"`
	Total       float64   `json:"total"`
	Status      string    `gorm:"index;default:'open'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for SalesQuote
func (SalesQuote) TableName() string {
	return "sales_quotes"
}
