package api

import (
	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/clefworks/midigen/internal/api/handlers"
	apimiddleware "github.com/clefworks/midigen/internal/api/middleware"
	"github.com/clefworks/midigen/internal/config"
)

// SetupRouter wires the HTTP transport: the streamable MCP endpoint plus a
// health check, behind recovery/Sentry/request-tracking middleware.
func SetupRouter(cfg *config.Config, version string, mcp *mcpserver.MCPServer) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg, version)
	router.GET("/health", healthHandler.HealthCheck)

	// MCP endpoint (streamable HTTP transport)
	streamable := mcpserver.NewStreamableHTTPServer(mcp)
	router.Any("/mcp", gin.WrapH(streamable))

	return router
}
