package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"edakit/adapters/memory"
	"edakit/adapters/postgres"
	"edakit/adapters/tabular"
	"edakit/api"
	"edakit/internal"
	"edakit/internal/config"
	"edakit/internal/jobs"
	"edakit/internal/statistics"
	"edakit/ports"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var (
		registry ports.DatasetRegistry
		jobStore ports.JobStore
		results  ports.ResultStore
		checks   = map[string]api.HealthCheck{}
	)

	if cfg.Database.URL != "" {
		db, err := postgres.Connect(postgres.WithSSLMode(cfg.Database.URL, cfg.Database.SSLMode))
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("Schema setup failed: %v", err)
		}
		cancel()

		registry = postgres.NewRegistry(db)
		jobStore = postgres.NewJobStore(db, cfg.Storage.JobTTL)
		results = postgres.NewResultStore(db, cfg.Storage.ResultTTL)
		checks["database"] = func(ctx context.Context) error { return db.PingContext(ctx) }

		// Expired documents accumulate without a reaper
		go purgeLoop(db, logger)

		logger.Info("using PostgreSQL stores")
	} else {
		registry = memory.NewRegistry()
		jobStore = memory.NewJobStore(cfg.Storage.JobTTL)
		results = memory.NewResultStore(cfg.Storage.ResultTTL)
		checks["stores"] = func(context.Context) error { return nil }

		logger.Info("DATABASE_URL not set, using in-memory stores")
	}

	loader := tabular.NewFileLoader(registry, cfg.Storage.DatasetDir, logger)

	manager := jobs.NewManager(registry, loader, jobStore, results, jobs.Options{
		Workers:              cfg.Analysis.Workers,
		CorrelationThreshold: cfg.Analysis.CorrelationThreshold,
		Statistics: statistics.Options{
			HistogramBins:   cfg.Analysis.HistogramBins,
			CategoricalTopN: cfg.Analysis.CategoricalTopN,
		},
		ExecTimeout: 10 * time.Minute,
	}, logger)

	server := api.NewServer(cfg.Server.GinMode, manager, results, checks, logger)

	addr := ":" + cfg.Server.Port
	logger.Info("starting analysis service on %s", addr)
	if err := server.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// purgeLoop deletes expired documents hourly
func purgeLoop(db *sqlx.DB, logger *internal.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		n, err := postgres.PurgeExpired(ctx, db)
		cancel()
		if err != nil {
			logger.Warn("expired document purge failed: %v", err)
			continue
		}
		if n > 0 {
			logger.Debug("purged %d expired documents", n)
		}
	}
}
