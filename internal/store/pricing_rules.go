package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/bookmytix/admin-core/internal/pricing"
	"gorm.io/gorm"
)

// GormRuleRepository persists pricing rules through gorm.
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository constructs a repository over db.
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// List returns all rules ordered by creation time then id.
func (r *GormRuleRepository) List(ctx context.Context) ([]models.PricingRule, error) {
	var rows []models.PricingRule
	if errFind := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list pricing rules: %w", errFind)
	}
	return rows, nil
}

// Get loads a rule by id.
func (r *GormRuleRepository) Get(ctx context.Context, id string) (models.PricingRule, error) {
	var rule models.PricingRule
	if errFind := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.PricingRule{}, pricing.ErrRuleNotFound
		}
		return models.PricingRule{}, fmt.Errorf("store: get pricing rule: %w", errFind)
	}
	return rule, nil
}

// Create inserts a new rule.
func (r *GormRuleRepository) Create(ctx context.Context, rule models.PricingRule) error {
	if errCreate := r.db.WithContext(ctx).Create(&rule).Error; errCreate != nil {
		return fmt.Errorf("store: create pricing rule: %w", errCreate)
	}
	return nil
}

// Save overwrites every mutable column of an existing rule.
func (r *GormRuleRepository) Save(ctx context.Context, rule models.PricingRule) error {
	res := r.db.WithContext(ctx).Model(&models.PricingRule{}).Where("id = ?", rule.ID).
		Updates(map[string]any{
			"name":         rule.Name,
			"airline":      rule.Airline,
			"origin":       rule.Origin,
			"destination":  rule.Destination,
			"markup_type":  rule.MarkupType,
			"markup_value": rule.MarkupValue,
			"is_active":    rule.IsActive,
			"updated_at":   rule.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("store: save pricing rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pricing.ErrRuleNotFound
	}
	return nil
}

// Delete removes a rule by id.
func (r *GormRuleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PricingRule{})
	if res.Error != nil {
		return fmt.Errorf("store: delete pricing rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pricing.ErrRuleNotFound
	}
	return nil
}

// SeedPricingRules inserts rules when the table is empty and reports how many were written.
func SeedPricingRules(ctx context.Context, db *gorm.DB, rules []models.PricingRule) (int, error) {
	var count int64
	if errCount := db.WithContext(ctx).Model(&models.PricingRule{}).Count(&count).Error; errCount != nil {
		return 0, fmt.Errorf("store: count pricing rules: %w", errCount)
	}
	if count > 0 || len(rules) == 0 {
		return 0, nil
	}
	if errCreate := db.WithContext(ctx).Create(&rules).Error; errCreate != nil {
		return 0, fmt.Errorf("store: seed pricing rules: %w", errCreate)
	}
	return len(rules), nil
}
