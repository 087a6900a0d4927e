package main

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/clefworks/midigen/internal/api"
	"github.com/clefworks/midigen/internal/config"
	"github.com/clefworks/midigen/internal/logger"
	"github.com/clefworks/midigen/internal/mcpserver"
	"github.com/clefworks/midigen/internal/midi"
	"github.com/clefworks/midigen/internal/services"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	// Load environment variables
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger.Init(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:           cfg.SentryDSN,
			Environment:   cfg.Environment,
			Release:       "midigen@" + releaseVersion,
			EnableTracing: false,
			Debug:         cfg.Environment != environmentProduction,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", logger.Fields{"error": err.Error()})
		} else {
			logger.Info("Sentry initialized", logger.Fields{
				"environment": cfg.Environment,
				"release":     releaseVersion,
			})
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	// Wire the build pipeline
	emitter := midi.NewEmitter(cfg.OutputDir)
	builder := services.NewBuildService(emitter)
	mcp := mcpserver.New(releaseVersion, builder)

	if cfg.IsHTTPMode() {
		if cfg.Environment == environmentProduction {
			gin.SetMode(gin.ReleaseMode)
		}

		router := api.SetupRouter(cfg, releaseVersion, mcp)
		logger.Info("Starting MCP server over HTTP", logger.Fields{
			"port":       cfg.Port,
			"output_dir": cfg.OutputDir,
		})
		if err := router.Run(":" + cfg.Port); err != nil {
			sentry.CaptureException(err)
			logger.Fatal("Failed to start HTTP server", err, nil)
		}
		return
	}

	logger.Info("Starting MCP server over stdio", logger.Fields{
		"output_dir": cfg.OutputDir,
	})
	if err := server.ServeStdio(mcp); err != nil {
		sentry.CaptureException(err)
		logger.Fatal("MCP server terminated", err, nil)
	}
}
