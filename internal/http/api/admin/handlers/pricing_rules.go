package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/bookmytix/admin-core/internal/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// PricingRuleHandler manages admin CRUD endpoints for pricing rules.
type PricingRuleHandler struct {
	store *pricing.Store
}

// NewPricingRuleHandler constructs a pricing rule handler.
func NewPricingRuleHandler(store *pricing.Store) *PricingRuleHandler {
	return &PricingRuleHandler{store: store}
}

// pricingRuleRequest captures the payload for creating or updating a rule.
// Pointer fields distinguish "absent" from zero values on update.
type pricingRuleRequest struct {
	Name        *string          `json:"name"`         // Display label.
	Airline     *string          `json:"airline"`      // Airline scope; empty matches any.
	Origin      *string          `json:"origin"`       // Origin scope; empty matches any.
	Destination *string          `json:"destination"`  // Destination scope; empty matches any.
	MarkupType  *string          `json:"markup_type"`  // PERCENTAGE or FIXED.
	MarkupValue *decimal.Decimal `json:"markup_value"` // Percent or amount, may be negative.
	IsActive    *bool            `json:"is_active"`    // Defaults to true on create.
}

// Create validates input and inserts a pricing rule.
func (h *PricingRuleHandler) Create(c *gin.Context) {
	var body pricingRuleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if body.MarkupType == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "markup_type is required"})
		return
	}
	markupType, okType := parseMarkupType(*body.MarkupType)
	if !okType {
		c.JSON(http.StatusBadRequest, gin.H{"error": "markup_type must be PERCENTAGE or FIXED"})
		return
	}
	if body.MarkupValue == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "markup_value is required"})
		return
	}

	in := pricing.RuleInput{
		Name:        *body.Name,
		Airline:     derefString(body.Airline),
		Origin:      derefString(body.Origin),
		Destination: derefString(body.Destination),
		MarkupType:  markupType,
		MarkupValue: *body.MarkupValue,
		IsActive:    true,
	}
	if body.IsActive != nil {
		in.IsActive = *body.IsActive
	}

	rule, errCreate := h.store.AddRule(c.Request.Context(), in)
	if errCreate != nil {
		log.WithError(errCreate).Error("pricing rule create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, formatPricingRule(&rule))
}

// List returns pricing rules in creation order, optionally filtered by is_active.
func (h *PricingRuleHandler) List(c *gin.Context) {
	var activeFilter *bool
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		parsed, errParse := strconv.ParseBool(raw)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_active"})
			return
		}
		activeFilter = &parsed
	}

	rules, errFind := h.store.Rules(c.Request.Context())
	if errFind != nil {
		log.WithError(errFind).Error("pricing rule list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	out := make([]gin.H, 0, len(rules))
	for i := range rules {
		if activeFilter != nil && rules[i].IsActive != *activeFilter {
			continue
		}
		out = append(out, formatPricingRule(&rules[i]))
	}
	c.JSON(http.StatusOK, gin.H{"pricing_rules": out})
}

// Get returns a single pricing rule.
func (h *PricingRuleHandler) Get(c *gin.Context) {
	rule, errFind := h.store.Rule(c.Request.Context(), c.Param("id"))
	if errFind != nil {
		respondPricingError(c, errFind, "query failed")
		return
	}
	c.JSON(http.StatusOK, formatPricingRule(&rule))
}

// Update applies a partial update to a pricing rule.
func (h *PricingRuleHandler) Update(c *gin.Context) {
	var body pricingRuleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	update := pricing.RuleUpdate{
		Airline:     body.Airline,
		Origin:      body.Origin,
		Destination: body.Destination,
		MarkupValue: body.MarkupValue,
		IsActive:    body.IsActive,
	}
	if body.Name != nil {
		if strings.TrimSpace(*body.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		update.Name = body.Name
	}
	if body.MarkupType != nil {
		markupType, okType := parseMarkupType(*body.MarkupType)
		if !okType {
			c.JSON(http.StatusBadRequest, gin.H{"error": "markup_type must be PERCENTAGE or FIXED"})
			return
		}
		update.MarkupType = &markupType
	}

	rule, errUpdate := h.store.UpdateRule(c.Request.Context(), c.Param("id"), update)
	if errUpdate != nil {
		respondPricingError(c, errUpdate, "update failed")
		return
	}
	c.JSON(http.StatusOK, formatPricingRule(&rule))
}

// Delete removes a pricing rule.
func (h *PricingRuleHandler) Delete(c *gin.Context) {
	if errDelete := h.store.DeleteRule(c.Request.Context(), c.Param("id")); errDelete != nil {
		respondPricingError(c, errDelete, "delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// Toggle flips a rule's active flag.
func (h *PricingRuleHandler) Toggle(c *gin.Context) {
	rule, errToggle := h.store.ToggleRule(c.Request.Context(), c.Param("id"))
	if errToggle != nil {
		respondPricingError(c, errToggle, "toggle failed")
		return
	}
	c.JSON(http.StatusOK, formatPricingRule(&rule))
}

// Stats returns the pricing overview counters.
func (h *PricingRuleHandler) Stats(c *gin.Context) {
	stats, errStats := h.store.Stats(c.Request.Context())
	if errStats != nil {
		log.WithError(errStats).Error("pricing rule stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_rules":               stats.TotalRules,
		"active_rules":              stats.ActiveRules,
		"average_percentage_markup": decimalNumber(stats.AveragePercent),
		"active_percentage_rules":   stats.PercentageRules,
		"active_fixed_rules":        stats.FixedRules,
	})
}

// respondPricingError maps store errors to HTTP responses.
func respondPricingError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, pricing.ErrRuleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
		return
	}
	log.WithError(err).WithField("rule_id", c.Param("id")).Error("pricing rule " + fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// parseMarkupType normalizes a markup type string.
func parseMarkupType(raw string) (models.MarkupType, bool) {
	markupType := models.MarkupType(strings.ToUpper(strings.TrimSpace(raw)))
	return markupType, markupType.Valid()
}

// formatPricingRule converts a rule into a response payload.
func formatPricingRule(rule *models.PricingRule) gin.H {
	if rule == nil {
		return nil
	}
	return gin.H{
		"id":           rule.ID,
		"name":         rule.Name,
		"airline":      rule.Airline,
		"origin":       rule.Origin,
		"destination":  rule.Destination,
		"markup_type":  rule.MarkupType,
		"markup_value": decimalNumber(rule.MarkupValue),
		"is_active":    rule.IsActive,
		"specificity":  rule.Specificity(),
		"created_at":   rule.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":   rule.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// decimalNumber renders a decimal as a bare JSON number.
func decimalNumber(value decimal.Decimal) json.Number {
	return json.Number(value.String())
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
