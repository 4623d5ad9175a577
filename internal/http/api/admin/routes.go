package admin

import (
	"github.com/bookmytix/admin-core/internal/chat"
	"github.com/bookmytix/admin-core/internal/config"
	"github.com/bookmytix/admin-core/internal/http/api/admin/handlers"
	"github.com/bookmytix/admin-core/internal/preferences"
	"github.com/bookmytix/admin-core/internal/pricing"
	"github.com/bookmytix/admin-core/internal/realtime"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the services the admin API is built on.
type Dependencies struct {
	DB              *gorm.DB
	JWT             config.JWTConfig
	Pricing         *pricing.Store
	Chat            *chat.Store
	Hub             *realtime.Hub
	Locales         *preferences.LocaleService
	OnSettingChange func(key string)
}

// RegisterRoutes mounts the admin API under /v0/admin.
func RegisterRoutes(engine *gin.Engine, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	configHandler := handlers.NewConfigHandler()
	permissionHandler := handlers.NewPermissionHandler()
	pricingHandler := handlers.NewPricingRuleHandler(deps.Pricing)
	chatHandler := handlers.NewChatHandler(deps.Chat, deps.Hub)
	preferenceHandler := handlers.NewPreferenceHandler(deps.Locales)
	settingHandler := handlers.NewSettingHandler(deps.DB, deps.OnSettingChange)

	public := engine.Group("/v0/admin")
	public.POST("/login", authHandler.Login)
	public.GET("/healthz", healthHandler.Healthz)
	public.GET("/config", configHandler.Get)

	authed := engine.Group("/v0/admin")
	authed.Use(adminAuthMiddleware(deps.JWT.Secret), adminPermissionMiddleware(deps.DB))

	authed.GET("/permissions", permissionHandler.List)

	authed.GET("/pricing-rules", pricingHandler.List)
	authed.POST("/pricing-rules", pricingHandler.Create)
	authed.GET("/pricing-rules/stats", pricingHandler.Stats)
	authed.GET("/pricing-rules/:id", pricingHandler.Get)
	authed.PUT("/pricing-rules/:id", pricingHandler.Update)
	authed.DELETE("/pricing-rules/:id", pricingHandler.Delete)
	authed.POST("/pricing-rules/:id/toggle", pricingHandler.Toggle)
	authed.POST("/pricing/applicable-rule", pricingHandler.ApplicableRule)
	authed.POST("/pricing/quote", pricingHandler.Quote)

	authed.GET("/chat/conversations", chatHandler.List)
	authed.GET("/chat/conversations/:id", chatHandler.Get)
	authed.DELETE("/chat/conversations/:id", chatHandler.Delete)
	authed.POST("/chat/conversations/:id/messages", chatHandler.AddMessage)
	authed.POST("/chat/conversations/:id/ai-response", chatHandler.AIResponse)
	authed.POST("/chat/conversations/:id/simulate", chatHandler.Simulate)
	authed.POST("/chat/conversations/:id/read", chatHandler.MarkRead)
	authed.POST("/chat/conversations/:id/resolve", chatHandler.Resolve)
	authed.GET("/chat/active", chatHandler.GetActive)
	authed.PUT("/chat/active", chatHandler.SetActive)
	authed.GET("/chat/unread", chatHandler.Unread)
	authed.GET("/chat/ws", chatHandler.Stream)

	authed.GET("/preferences/locale", preferenceHandler.GetLocale)
	authed.PUT("/preferences/locale", preferenceHandler.SetLocale)

	authed.GET("/settings", settingHandler.List)
	authed.PUT("/settings/:key", settingHandler.Update)
}
