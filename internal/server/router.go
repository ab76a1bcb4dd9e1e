package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/assistant"
	"travel-vault-server/internal/auth"
	"travel-vault-server/internal/handler"
	"travel-vault-server/internal/hub"
	"travel-vault-server/internal/middleware"
	"travel-vault-server/internal/vault"
)

type Deps struct {
	Sessions    *vault.SessionStore
	Loyalty     *vault.LoyaltyStore
	KTNs        *vault.KTNStore
	Settings    *vault.SettingsStore
	Engine      *assistant.Engine
	Hub         *hub.Hub
	TokenConfig auth.TokenConfig
	Version     string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	versionHandler := &handler.VersionHandler{Version: deps.Version}
	r.GET("/v1/version", versionHandler.Check)

	signInLimiter := middleware.NewRateLimiter(10, time.Minute)
	authHandler := &handler.AuthHandler{
		Sessions:      deps.Sessions,
		TokenConfig:   deps.TokenConfig,
		SignInLimiter: signInLimiter,
	}
	r.POST("/v1/auth/apple", authHandler.SignIn)

	protected := r.Group("/v1")
	protected.Use(middleware.RequireAuth(deps.TokenConfig, deps.Sessions))
	protected.GET("/me", authHandler.Me)
	protected.POST("/auth/signout", authHandler.SignOut)

	loyaltyHandler := &handler.LoyaltyHandler{Store: deps.Loyalty}
	protected.GET("/loyalty", loyaltyHandler.List)
	protected.POST("/loyalty", loyaltyHandler.Create)
	protected.PUT("/loyalty/:id", loyaltyHandler.Update)
	protected.DELETE("/loyalty/:id", loyaltyHandler.Delete)

	ktnHandler := &handler.KTNHandler{Store: deps.KTNs}
	protected.GET("/ktn", ktnHandler.List)
	protected.POST("/ktn", ktnHandler.Create)
	protected.PUT("/ktn/:id", ktnHandler.Update)
	protected.DELETE("/ktn/:id", ktnHandler.Delete)

	settingsHandler := &handler.SettingsHandler{Store: deps.Settings}
	protected.GET("/settings", settingsHandler.Get)
	protected.PUT("/settings", settingsHandler.Put)
	protected.POST("/settings/dark-mode/toggle", settingsHandler.ToggleDarkMode)

	assistantHandler := &handler.AssistantHandler{Engine: deps.Engine}
	protected.GET("/assistant/messages", assistantHandler.Messages)
	protected.POST("/assistant/messages", assistantHandler.Send)
	protected.POST("/assistant/messages/:id/retry", assistantHandler.Retry)
	protected.POST("/assistant/messages/:id/bookmark", assistantHandler.ToggleBookmark)
	protected.POST("/assistant/messages/:id/category", assistantHandler.SetCategory)
	protected.GET("/assistant/bookmarks", assistantHandler.Bookmarks)
	protected.GET("/assistant/category", assistantHandler.ByCategory)
	protected.GET("/assistant/search", assistantHandler.Search)
	protected.GET("/assistant/quick-actions", assistantHandler.QuickActions)
	protected.POST("/assistant/clear", assistantHandler.Clear)
	protected.GET("/assistant/sessions", assistantHandler.Sessions)
	protected.POST("/assistant/sessions", assistantHandler.NewSession)
	protected.DELETE("/assistant/sessions/:id", assistantHandler.DeleteSession)

	wsHandler := &handler.WebSocketHandler{
		Hub:         deps.Hub,
		Sessions:    deps.Sessions,
		Engine:      deps.Engine,
		TokenConfig: deps.TokenConfig,
	}
	r.GET("/ws", wsHandler.Serve)

	return r
}
