package pricing

import (
	"errors"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/shopspring/decimal"
)

// ErrRuleNotFound is returned when a mutation or lookup targets an unknown rule id.
var ErrRuleNotFound = errors.New("pricing: rule not found")

// Flight is the subset of a flight listing the resolver needs. Prices are whole currency units.
type Flight struct {
	ID           string `json:"id"`
	FlightNumber string `json:"flight_number"`
	Airline      string `json:"airline"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	Price        int64  `json:"price"`
}

// FlightWithMarkup is a flight decorated with the markup that applies to it.
// FinalPrice always equals BasePrice + MarkupAmount.
type FlightWithMarkup struct {
	Flight
	BasePrice    int64               `json:"base_price"`
	MarkupAmount int64               `json:"markup_amount"`
	FinalPrice   int64               `json:"final_price"`
	AppliedRule  *models.PricingRule `json:"applied_rule"`
}

// RuleInput carries every user-editable field of a new rule.
type RuleInput struct {
	Name        string
	Airline     string
	Origin      string
	Destination string
	MarkupType  models.MarkupType
	MarkupValue decimal.Decimal
	IsActive    bool
}

// RuleUpdate is a partial update; nil fields are left unchanged and an empty
// scope string clears that constraint.
type RuleUpdate struct {
	Name        *string
	Airline     *string
	Origin      *string
	Destination *string
	MarkupType  *models.MarkupType
	MarkupValue *decimal.Decimal
	IsActive    *bool
}

// Stats summarises the rule collection for the pricing overview.
type Stats struct {
	TotalRules      int             `json:"total_rules"`
	ActiveRules     int             `json:"active_rules"`
	AveragePercent  decimal.Decimal `json:"average_percentage_markup"`
	PercentageRules int             `json:"active_percentage_rules"`
	FixedRules      int             `json:"active_fixed_rules"`
}
