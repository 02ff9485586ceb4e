package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/fileconv/internal/codec/document"
	"github.com/dropDatabas3/fileconv/internal/codec/raster"
	"github.com/dropDatabas3/fileconv/internal/config"
	"github.com/dropDatabas3/fileconv/internal/convert"
	httpserver "github.com/dropDatabas3/fileconv/internal/http"
	"github.com/dropDatabas3/fileconv/internal/http/router"
	"github.com/dropDatabas3/fileconv/internal/keystore"
	"github.com/dropDatabas3/fileconv/internal/metrics"
	"github.com/dropDatabas3/fileconv/internal/observability/logger"
)

func main() {
	// .env si existe; en prod las vars vienen del entorno directamente
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfgPath := os.Getenv("FILECONV_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "fileconv",
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	masterConfigured := cfg.Auth.MasterKey != ""
	if masterConfigured {
		lg.Info("api key auth enabled")
	} else {
		lg.Warn("API_KEY not set: all conversion endpoints are open, key management disabled")
	}

	store := keystore.NewFSStore(cfg.Auth.KeysFile, cfg.Auth.MasterKey)
	dispatcher := convert.NewDispatcher(raster.New(), document.New())

	handler := router.New(router.Deps{
		Store:              store,
		Dispatcher:         dispatcher,
		MasterConfigured:   masterConfigured,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MetricsHandler:     metrics.Register(nil),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.Start(ctx, cfg.Server.Addr, handler); err != nil {
		lg.Fatal("server failed", logger.Err(err))
	}
	lg.Info("bye")
}
