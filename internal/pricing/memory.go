package pricing

import (
	"context"
	"sync"

	"github.com/bookmytix/admin-core/internal/models"
)

// MemoryRepository keeps rules in a slice in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	rules []models.PricingRule
}

// NewMemoryRepository returns a repository preloaded with a copy of rules.
func NewMemoryRepository(rules ...models.PricingRule) *MemoryRepository {
	out := make([]models.PricingRule, len(rules))
	copy(out, rules)
	return &MemoryRepository{rules: out}
}

func (r *MemoryRepository) List(_ context.Context) ([]models.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PricingRule, len(r.rules))
	copy(out, r.rules)
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (models.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.indexLocked(id); idx >= 0 {
		return r.rules[idx], nil
	}
	return models.PricingRule{}, ErrRuleNotFound
}

func (r *MemoryRepository) Create(_ context.Context, rule models.PricingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule)
	return nil
}

func (r *MemoryRepository) Save(_ context.Context, rule models.PricingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(rule.ID)
	if idx < 0 {
		return ErrRuleNotFound
	}
	r.rules[idx] = rule
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return ErrRuleNotFound
	}
	r.rules = append(r.rules[:idx], r.rules[idx+1:]...)
	return nil
}

func (r *MemoryRepository) indexLocked(id string) int {
	for i := range r.rules {
		if r.rules[i].ID == id {
			return i
		}
	}
	return -1
}
