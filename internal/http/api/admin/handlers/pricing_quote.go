package handlers

import (
	"net/http"

	"github.com/bookmytix/admin-core/internal/pricing"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// quoteRequest accepts either a single flight or a "flights" list.
type quoteRequest struct {
	pricing.Flight
	Flights []pricing.Flight `json:"flights"`
}

// ApplicableRule returns the rule that would price a flight, or null.
func (h *PricingRuleHandler) ApplicableRule(c *gin.Context) {
	var flight pricing.Flight
	if errBind := c.ShouldBindJSON(&flight); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	rule, errResolve := h.store.GetApplicableRule(c.Request.Context(), flight)
	if errResolve != nil {
		log.WithError(errResolve).Error("pricing resolve failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rule": formatPricingRule(rule)})
}

// Quote applies markups to one flight or a batch.
func (h *PricingRuleHandler) Quote(c *gin.Context) {
	var body quoteRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if len(body.Flights) > 0 {
		for _, flight := range body.Flights {
			if flight.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be non-negative"})
				return
			}
		}
		quotes, errQuote := h.store.CalculateMarkups(c.Request.Context(), body.Flights)
		if errQuote != nil {
			log.WithError(errQuote).Error("pricing quote failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "quote failed"})
			return
		}
		out := make([]gin.H, 0, len(quotes))
		for i := range quotes {
			out = append(out, formatQuote(quotes[i]))
		}
		c.JSON(http.StatusOK, gin.H{"flights": out})
		return
	}

	if body.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be non-negative"})
		return
	}
	quote, errQuote := h.store.CalculateMarkup(c.Request.Context(), body.Flight)
	if errQuote != nil {
		log.WithError(errQuote).Error("pricing quote failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "quote failed"})
		return
	}
	c.JSON(http.StatusOK, formatQuote(quote))
}

// formatQuote converts a priced flight into a response payload.
func formatQuote(quote pricing.FlightWithMarkup) gin.H {
	return gin.H{
		"id":            quote.ID,
		"flight_number": quote.FlightNumber,
		"airline":       quote.Airline,
		"origin":        quote.Origin,
		"destination":   quote.Destination,
		"price":         quote.Price,
		"base_price":    quote.BasePrice,
		"markup_amount": quote.MarkupAmount,
		"final_price":   quote.FinalPrice,
		"applied_rule":  formatPricingRule(quote.AppliedRule),
	}
}
