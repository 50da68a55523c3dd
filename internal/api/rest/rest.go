package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/arcnft/marketplace-sync/internal/api/middleware"
	"github.com/arcnft/marketplace-sync/internal/auth"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig, gate auth.Gate) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Content proxy (public read access)
		v1.GET("/content/:cid", handler.GetContent)

		// Token endpoints (public read access)
		v1.GET("/nfts", handler.ListNFTs)
		v1.GET("/nfts/:contract/:token", handler.GetNFT)

		// Index writes (requires API key authentication)
		v1.POST("/index", middleware.APIKeyAuth(authCfg), handler.IndexToken)
		v1.POST("/listings", middleware.APIKeyAuth(authCfg), handler.CreateListing)
		v1.POST("/sales", middleware.APIKeyAuth(authCfg), handler.RecordSale)

		// Wallet authentication
		v1.POST("/auth/challenge", handler.Challenge)
		v1.POST("/auth/login", handler.Login)

		// Profile endpoints (reads are public, writes need a wallet session)
		v1.GET("/profiles/:wallet", handler.GetProfile)
		v1.PUT("/profiles/:wallet", middleware.WalletAuth(gate), handler.UpdateProfile)
	}
}
