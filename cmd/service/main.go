package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/uniclubs/movement-service/internal/app"
	"github.com/uniclubs/movement-service/internal/config"
	"github.com/uniclubs/movement-service/internal/db"
	"github.com/uniclubs/movement-service/internal/jobs"
	"github.com/uniclubs/movement-service/internal/logging"
	"github.com/uniclubs/movement-service/internal/observability"
)

var release = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Base.Warn("sentry init failed", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Base.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(ctx, database); err != nil {
		lg.Base.Fatal("migrate", zap.Error(err))
	}
	if cfg.SeedCatalog {
		if err := db.SeedCriterionCatalog(ctx, database); err != nil {
			lg.Base.Fatal("seed catalog", zap.Error(err))
		}
	}

	_ = app.StartHTTP(ctx, cfg.HTTPAddr, database)

	runner := jobs.New(ctx)
	runner.Every(cfg.ReconcileInterval, "reconcile", jobs.Reconcile(database, lg.Base))

	lg.Base.Info("movement service up",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("env", cfg.Env),
	)

	<-ctx.Done()
	lg.Base.Info("shutting down")
}
