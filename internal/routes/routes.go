package routes

import (
	"log/slog"
	"net/http"

	"card-bookmark-api/internal/auth"
	"card-bookmark-api/internal/handlers"
	"card-bookmark-api/internal/middleware"
	"card-bookmark-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// CardService is the card service as seen by the router.
type CardService interface {
	handlers.CardService
	Len() int
	Version() uint64
}

// Deps carries everything the router dispatches to.
type Deps struct {
	Cards      CardService
	Hub        *realtime.Hub
	CORSOrigin string
	Logger     *slog.Logger

	// Issuer enables token auth on the mutating routes when non-nil.
	Issuer *auth.Issuer
	Admin  auth.AdminCredentials
}

func SetupRoutes(deps Deps) *gin.Engine {
	ginRouter := gin.Default()

	origin := deps.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint, answered from the cache
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"cards":   deps.Cards.Len(),
			"version": deps.Cards.Version(),
		})
	})

	cardHandler := handlers.NewCardHandler(deps.Cards)
	ginRouter.GET("/cards", cardHandler.List)
	if deps.Hub != nil {
		ginRouter.GET("/ws/cards", handlers.CardFeed(deps.Hub, deps.Logger))
	}

	writes := ginRouter.Group("")
	if deps.Issuer != nil {
		ginRouter.POST("/login", handlers.Login(deps.Issuer, deps.Admin))
		writes.Use(middleware.JWTAuthMiddleware(deps.Issuer))
	}
	{
		writes.POST("/card", cardHandler.Create)
		writes.DELETE("/card/:id", cardHandler.Delete)
	}

	return ginRouter
}
