package handlers

import (
	"net/http"

	"github.com/bookmytix/admin-core/internal/buildinfo"
	"github.com/bookmytix/admin-core/internal/preferences"
	"github.com/bookmytix/admin-core/internal/settings"
	"github.com/gin-gonic/gin"
)

// ConfigHandler serves the public dashboard bootstrap config.
type ConfigHandler struct{}

// NewConfigHandler constructs a ConfigHandler.
func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

// Get returns the site name, default locale and build version.
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"site_name":      settings.DBConfigString(settings.SiteNameKey, settings.DefaultSiteName),
		"default_locale": preferences.DefaultLocale(),
		"locales":        []string{preferences.LocaleIndonesian, preferences.LocaleEnglish},
		"version":        buildinfo.Version,
		"commit":         buildinfo.Commit,
		"build_date":     buildinfo.BuildDate,
	})
}
