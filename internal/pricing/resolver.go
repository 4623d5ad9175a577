package pricing

import (
	"github.com/bookmytix/admin-core/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Matches reports whether an active rule's scope admits the flight. Unset scope
// fields always pass; set ones compare case-sensitively.
func Matches(rule *models.PricingRule, flight Flight) bool {
	if rule == nil || !rule.IsActive {
		return false
	}
	if rule.Airline != "" && rule.Airline != flight.Airline {
		return false
	}
	if rule.Origin != "" && rule.Origin != flight.Origin {
		return false
	}
	if rule.Destination != "" && rule.Destination != flight.Destination {
		return false
	}
	return true
}

// SelectRule picks the most specific active rule matching the flight:
// 1) highest specificity (number of airline/origin/destination fields set)
// 2) earliest CreatedAt
// 3) lowest ID
// The result does not depend on the order of rules. It returns nil when nothing matches.
func SelectRule(rules []models.PricingRule, flight Flight) *models.PricingRule {
	bestScore := -1
	var best *models.PricingRule

	consider := func(r *models.PricingRule, score int) {
		if score > bestScore {
			bestScore = score
			best = r
			return
		}
		if score < bestScore || best == nil {
			return
		}
		if r.CreatedAt.Before(best.CreatedAt) {
			best = r
			return
		}
		if r.CreatedAt.Equal(best.CreatedAt) && r.ID < best.ID {
			best = r
		}
	}

	for i := range rules {
		r := &rules[i]
		if !Matches(r, flight) {
			continue
		}
		consider(r, r.Specificity())
	}

	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}

// MarkupAmount computes the signed markup a rule adds to basePrice, rounded
// half away from zero to a whole currency unit. Unknown markup types are
// treated as fixed amounts.
func MarkupAmount(rule *models.PricingRule, basePrice int64) int64 {
	if rule == nil {
		return 0
	}
	var amount decimal.Decimal
	switch rule.MarkupType {
	case models.MarkupTypePercentage:
		amount = decimal.NewFromInt(basePrice).Mul(rule.MarkupValue).Div(hundred)
	default:
		amount = rule.MarkupValue
	}
	return amount.Round(0).IntPart()
}

// ApplyMarkup decorates the flight with the rule's markup. A discount larger than
// the base price is capped so the final price never drops below zero.
func ApplyMarkup(flight Flight, rule *models.PricingRule) FlightWithMarkup {
	base := flight.Price
	markup := MarkupAmount(rule, base)
	if base+markup < 0 {
		markup = -base
	}
	return FlightWithMarkup{
		Flight:       flight,
		BasePrice:    base,
		MarkupAmount: markup,
		FinalPrice:   base + markup,
		AppliedRule:  rule,
	}
}
