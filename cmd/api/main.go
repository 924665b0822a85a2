package main

import (
	"context"
	"fmt"
	"time"

	"docindex/config"
	"docindex/internal/api/healthcheck"
	"docindex/internal/api/images"
	"docindex/internal/api/ingest"
	"docindex/internal/api/query"
	"docindex/internal/api/retriever"
	"docindex/internal/api/upload"
	"docindex/internal/database"
	"docindex/internal/middleware"
	"docindex/pkg/logger"

	"github.com/gofiber/fiber/v3"
	milvus "github.com/milvus-io/milvus-sdk-go/v2/client"
)

// connectMilvusWithRetry keeps trying because Milvus may take tens of
// seconds to boot alongside the service.
func connectMilvusWithRetry(address string, attempts int, perAttemptTimeout, delay time.Duration) (milvus.Client, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), perAttemptTimeout)
		cli, err := milvus.NewClient(ctx, milvus.Config{Address: address})
		cancel()
		if err == nil {
			return cli, nil
		}
		lastErr = err
		time.Sleep(delay)
	}
	return nil, lastErr
}

func main() {
	appCfg := fiber.Config{
		AppName: config.Cfg.Server.AppName,
	}
	if config.Cfg.Server.BodyLimit > 0 {
		appCfg.BodyLimit = config.Cfg.Server.BodyLimit
	}
	if config.Cfg.Server.Concurrency > 0 {
		appCfg.Concurrency = config.Cfg.Server.Concurrency
	}
	app := fiber.New(appCfg)

	app.Use(middleware.PanicRecovery())
	if config.Cfg.Server.Concurrency > 0 {
		app.Use(middleware.ConnectionLimit(middleware.NewConnectionLimiter(config.Cfg.Server.Concurrency)))
	}

	if err := database.Migrate(); err != nil {
		logger.Error(err, "database migrate failed")
	}

	// Milvus connectivity check on startup
	if cli, err := connectMilvusWithRetry(config.Cfg.Milvus.Address, 10, 5*time.Second, 2*time.Second); err != nil {
		logger.Error(err, "milvus connect error")
	} else {
		cli.Close()
		logger.Info("milvus ok")
	}

	// routes
	healthcheck.RegisterRoutes(app)
	upload.RegisterRoutes(app)
	ingest.RegisterRoutes(app)
	query.RegisterRoutes(app)
	retriever.RegisterRoutes(app)
	images.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}
}
