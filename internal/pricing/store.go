package pricing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists pricing rules. List returns rules in insertion order
// (CreatedAt, then ID). Get, Save and Delete return ErrRuleNotFound for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]models.PricingRule, error)
	Get(ctx context.Context, id string) (models.PricingRule, error)
	Create(ctx context.Context, rule models.PricingRule) error
	Save(ctx context.Context, rule models.PricingRule) error
	Delete(ctx context.Context, id string) error
}

// Store owns the pricing rule collection and resolves markups against it.
type Store struct {
	mu    sync.Mutex // serialises read-modify-write mutations
	repo  Repository
	now   func() time.Time
	newID func() string
}

// NewStore constructs a Store backed by repo.
func NewStore(repo Repository) *Store {
	return &Store{
		repo: repo,
		now: func() time.Time {
			return time.Now().UTC()
		},
		newID: func() string {
			return uuid.NewString()
		},
	}
}

// AddRule creates a rule with a fresh id and both timestamps set to now.
// Scope fields are stored verbatim since matching compares them exactly.
func (s *Store) AddRule(ctx context.Context, in RuleInput) (models.PricingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rule := models.PricingRule{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Airline:     in.Airline,
		Origin:      in.Origin,
		Destination: in.Destination,
		MarkupType:  in.MarkupType,
		MarkupValue: in.MarkupValue,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errCreate := s.repo.Create(ctx, rule); errCreate != nil {
		return models.PricingRule{}, fmt.Errorf("pricing: add rule: %w", errCreate)
	}
	return rule, nil
}

// UpdateRule applies the set fields of update and refreshes UpdatedAt.
func (s *Store) UpdateRule(ctx context.Context, id string, update RuleUpdate) (models.PricingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, errGet := s.repo.Get(ctx, id)
	if errGet != nil {
		return models.PricingRule{}, errGet
	}
	if update.Name != nil {
		rule.Name = strings.TrimSpace(*update.Name)
	}
	if update.Airline != nil {
		rule.Airline = *update.Airline
	}
	if update.Origin != nil {
		rule.Origin = *update.Origin
	}
	if update.Destination != nil {
		rule.Destination = *update.Destination
	}
	if update.MarkupType != nil {
		rule.MarkupType = *update.MarkupType
	}
	if update.MarkupValue != nil {
		rule.MarkupValue = *update.MarkupValue
	}
	if update.IsActive != nil {
		rule.IsActive = *update.IsActive
	}
	rule.UpdatedAt = s.now()

	if errSave := s.repo.Save(ctx, rule); errSave != nil {
		return models.PricingRule{}, errSave
	}
	return rule, nil
}

// DeleteRule removes a rule.
func (s *Store) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Delete(ctx, id)
}

// ToggleRule flips IsActive and refreshes UpdatedAt.
func (s *Store) ToggleRule(ctx context.Context, id string) (models.PricingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, errGet := s.repo.Get(ctx, id)
	if errGet != nil {
		return models.PricingRule{}, errGet
	}
	rule.IsActive = !rule.IsActive
	rule.UpdatedAt = s.now()
	if errSave := s.repo.Save(ctx, rule); errSave != nil {
		return models.PricingRule{}, errSave
	}
	return rule, nil
}

// Rules returns every rule in insertion order.
func (s *Store) Rules(ctx context.Context) ([]models.PricingRule, error) {
	return s.repo.List(ctx)
}

// Rule returns a single rule.
func (s *Store) Rule(ctx context.Context, id string) (models.PricingRule, error) {
	return s.repo.Get(ctx, id)
}

// GetApplicableRule returns the rule CalculateMarkup would apply, or nil.
func (s *Store) GetApplicableRule(ctx context.Context, flight Flight) (*models.PricingRule, error) {
	rules, errList := s.repo.List(ctx)
	if errList != nil {
		return nil, errList
	}
	return SelectRule(rules, flight), nil
}

// CalculateMarkup decorates a flight with its applicable markup.
func (s *Store) CalculateMarkup(ctx context.Context, flight Flight) (FlightWithMarkup, error) {
	rule, errRule := s.GetApplicableRule(ctx, flight)
	if errRule != nil {
		return FlightWithMarkup{}, errRule
	}
	return ApplyMarkup(flight, rule), nil
}

// CalculateMarkups decorates a batch of flights against a single rules snapshot.
func (s *Store) CalculateMarkups(ctx context.Context, flights []Flight) ([]FlightWithMarkup, error) {
	rules, errList := s.repo.List(ctx)
	if errList != nil {
		return nil, errList
	}
	out := make([]FlightWithMarkup, 0, len(flights))
	for _, flight := range flights {
		out = append(out, ApplyMarkup(flight, SelectRule(rules, flight)))
	}
	return out, nil
}

// Stats reports rule counts and the mean markup value across every percentage
// rule, active or not, rounded to two places.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rules, errList := s.repo.List(ctx)
	if errList != nil {
		return Stats{}, errList
	}
	stats := Stats{TotalRules: len(rules), AveragePercent: decimal.Zero}
	sum := decimal.Zero
	percentageCount := 0
	for _, rule := range rules {
		if rule.MarkupType == models.MarkupTypePercentage {
			percentageCount++
			sum = sum.Add(rule.MarkupValue)
		}
		if !rule.IsActive {
			continue
		}
		stats.ActiveRules++
		switch rule.MarkupType {
		case models.MarkupTypePercentage:
			stats.PercentageRules++
		default:
			stats.FixedRules++
		}
	}
	if percentageCount > 0 {
		stats.AveragePercent = sum.Div(decimal.NewFromInt(int64(percentageCount))).Round(2)
	}
	return stats, nil
}
