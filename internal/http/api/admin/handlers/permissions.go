package handlers

import (
	"net/http"
	"strings"

	permissions "github.com/bookmytix/admin-core/internal/http/api/admin/permissions"
	"github.com/gin-gonic/gin"
)

// PermissionHandler exposes permission definitions for admins.
type PermissionHandler struct{}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{}
}

// List returns all permission definitions, optionally narrowed by ?module=.
func (h *PermissionHandler) List(c *gin.Context) {
	module := strings.TrimSpace(c.Query("module"))
	defs := permissions.Definitions()
	out := make([]gin.H, 0, len(defs))
	for _, def := range defs {
		if module != "" && !strings.EqualFold(def.Module, module) {
			continue
		}
		out = append(out, gin.H{
			"key":    def.Key,
			"method": def.Method,
			"path":   def.Path,
			"label":  def.Label,
			"module": def.Module,
		})
	}
	c.JSON(http.StatusOK, gin.H{"permissions": out})
}
