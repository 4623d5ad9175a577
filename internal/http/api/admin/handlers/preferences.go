package handlers

import (
	"errors"
	"net/http"

	"github.com/bookmytix/admin-core/internal/preferences"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// PreferenceHandler serves per-admin dashboard preferences.
type PreferenceHandler struct {
	locales *preferences.LocaleService
}

// NewPreferenceHandler constructs a PreferenceHandler.
func NewPreferenceHandler(locales *preferences.LocaleService) *PreferenceHandler {
	return &PreferenceHandler{locales: locales}
}

// GetLocale returns the caller's locale.
func (h *PreferenceHandler) GetLocale(c *gin.Context) {
	adminID, ok := readAdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locale": h.locales.Locale(c.Request.Context(), adminID)})
}

// localeRequest is the payload for updating the locale.
type localeRequest struct {
	Locale string `json:"locale"`
}

// SetLocale stores the caller's locale.
func (h *PreferenceHandler) SetLocale(c *gin.Context) {
	adminID, ok := readAdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var body localeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errSet := h.locales.SetLocale(c.Request.Context(), adminID, body.Locale); errSet != nil {
		if errors.Is(errSet, preferences.ErrInvalidLocale) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "locale must be id or en"})
			return
		}
		log.WithError(errSet).WithField("admin_id", adminID).Error("save locale failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locale": h.locales.Locale(c.Request.Context(), adminID)})
}
