package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/bookmytix/admin-core/internal/preferences"
	"github.com/bookmytix/admin-core/internal/settings"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxChatReplyDelayMs caps CHAT_REPLY_DELAY_MS.
const maxChatReplyDelayMs = 60_000

// SettingHandler manages runtime settings rows.
type SettingHandler struct {
	db       *gorm.DB
	onChange func(key string)
}

// NewSettingHandler constructs a SettingHandler. onChange runs after a successful write.
func NewSettingHandler(db *gorm.DB, onChange func(key string)) *SettingHandler {
	return &SettingHandler{db: db, onChange: onChange}
}

// List returns the known settings rows.
func (h *SettingHandler) List(c *gin.Context) {
	var rows []models.Setting
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("key IN ?", settings.KnownKeys).
		Order("key ASC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("settings list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"key":        row.Key,
			"value":      row.Value,
			"updated_at": row.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// updateSettingRequest carries the new JSON value.
type updateSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// Update writes one setting and refreshes the in-memory snapshot.
func (h *SettingHandler) Update(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if !settings.IsKnownKey(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting"})
		return
	}

	var body updateSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil || len(body.Value) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := validateSetting(key, body.Value); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if errSave := settings.Upsert(c.Request.Context(), h.db, key, body.Value); errSave != nil {
		log.WithError(errSave).WithField("key", key).Error("settings update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if h.onChange != nil {
		h.onChange(key)
	}

	value, _ := settings.DBConfigValue(key)
	c.JSON(http.StatusOK, gin.H{"key": key, "value": json.RawMessage(value)})
}

// validateSetting returns a client error message, or "" when value is acceptable.
func validateSetting(key string, value json.RawMessage) string {
	switch key {
	case settings.SiteNameKey:
		var name string
		if errUnmarshal := json.Unmarshal(value, &name); errUnmarshal != nil || strings.TrimSpace(name) == "" {
			return "SITE_NAME must be a non-empty string"
		}
	case settings.DefaultLocaleKey:
		var locale string
		if errUnmarshal := json.Unmarshal(value, &locale); errUnmarshal != nil || !preferences.ValidLocale(locale) {
			return "DEFAULT_LOCALE must be id or en"
		}
	case settings.ChatReplyDelayMsKey:
		var ms int64
		if errUnmarshal := json.Unmarshal(value, &ms); errUnmarshal != nil || ms <= 0 || ms > maxChatReplyDelayMs {
			return "CHAT_REPLY_DELAY_MS must be an integer between 1 and 60000"
		}
	}
	return ""
}
