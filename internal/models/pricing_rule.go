package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarkupType defines how a pricing rule's markup value is interpreted.
type MarkupType string

// MarkupType constants.
const (
	// MarkupTypePercentage treats the markup value as a percent of the base price.
	MarkupTypePercentage MarkupType = "PERCENTAGE"
	// MarkupTypeFixed treats the markup value as a currency amount.
	MarkupTypeFixed MarkupType = "FIXED"
)

// Valid reports whether t is a known markup type.
func (t MarkupType) Valid() bool {
	return t == MarkupTypePercentage || t == MarkupTypeFixed
}

// PricingRule adjusts flight prices that match its optional airline/route scope.
type PricingRule struct {
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"` // UUID assigned at creation.

	Name        string `gorm:"type:text;not null" json:"name"`            // Display label.
	Airline     string `gorm:"type:varchar(255);index" json:"airline"`    // Airline filter; empty matches any.
	Origin      string `gorm:"type:varchar(16);index" json:"origin"`      // Departure airport filter; empty matches any.
	Destination string `gorm:"type:varchar(16);index" json:"destination"` // Arrival airport filter; empty matches any.

	MarkupType  MarkupType      `gorm:"type:varchar(16);not null" json:"markup_type"`    // PERCENTAGE or FIXED.
	MarkupValue decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"markup_value"` // Signed percent or amount.

	IsActive bool `gorm:"not null;index" json:"is_active"` // Inactive rules never match.

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false" json:"created_at"` // Creation timestamp, set by the store.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`       // Last mutation timestamp, set by the store.
}

// Specificity counts the scope fields the rule sets.
func (r *PricingRule) Specificity() int {
	if r == nil {
		return 0
	}
	score := 0
	if r.Airline != "" {
		score++
	}
	if r.Origin != "" {
		score++
	}
	if r.Destination != "" {
		score++
	}
	return score
}
