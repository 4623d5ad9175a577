package pricing

import (
	"time"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultRules returns the demo rule set shipped with the dashboard.
func DefaultRules() []models.PricingRule {
	at := func(day, month int) time.Time {
		return time.Date(2026, time.Month(month), day, 10, 0, 0, 0, time.UTC)
	}
	rule := func(id, name, airline, origin, destination string, markupType models.MarkupType, value int64, active bool, created time.Time) models.PricingRule {
		return models.PricingRule{
			ID:          id,
			Name:        name,
			Airline:     airline,
			Origin:      origin,
			Destination: destination,
			MarkupType:  markupType,
			MarkupValue: decimal.NewFromInt(value),
			IsActive:    active,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}

	pct, fixed := models.MarkupTypePercentage, models.MarkupTypeFixed
	return []models.PricingRule{
		rule("1", "Garuda Premium Markup", "Garuda Indonesia", "", "", pct, 5, true, at(15, 1)),
		rule("2", "International Routes Fixed", "", "CGK", "SIN", fixed, 150000, true, at(20, 1)),
		rule("3", "Economy Class Discount", "Citilink", "", "", pct, 3, false, at(25, 1)),
		rule("4", "Peak Season Markup", "", "", "", pct, 15, true, at(26, 1)),
		rule("5", "Weekend Premium", "", "", "", pct, 8, true, at(27, 1)),
		rule("6", "Bali Routes Premium", "", "DPS", "", pct, 7, true, at(28, 1)),
		rule("7", "Low-Cost Carrier Fee", "Lion Air", "", "", fixed, 50000, true, at(29, 1)),
		rule("8", "Hong Kong Route Premium", "", "", "HKG", pct, 12, true, at(30, 1)),
		rule("9", "Early Bird Discount", "", "", "", pct, -3, false, at(31, 1)),
		rule("10", "Group Booking Discount", "", "", "", pct, -5, false, at(1, 2)),
	}
}
