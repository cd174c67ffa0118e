package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-rituals/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-rituals/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-rituals/internal/adapters/metrics"
	"github.com/comitanigiacomo/kanso-rituals/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-rituals/internal/config"
	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-rituals/internal/core/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func openStateRepository(ctx context.Context, cfg *config.Config) (domain.StateRepository, *sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Println("Using in-memory storage, state will not survive a restart.")
		return repository.NewInMemoryStateRepository(), nil, nil

	case config.DriverPostgres:
		log.Println("Connecting to database...")
		db, err := sqlx.Connect("pgx", cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		repo := repository.NewPostgresStateRepository(db, cfg.StateTable)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("Database connected successfully.")
		return repo, db, nil

	default:
		db, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSQLiteStateRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Printf("Local storage ready at %s", cfg.SQLitePath)
		return repo, db, nil
	}
}

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: invalid configuration: %v", err)
	}

	ctx := context.Background()

	stateRepo, db, err := openStateRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Critical: Failed to open storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = cache.NewRedisClient(cache.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
			stateRepo = repository.NewCachedStateRepository(stateRepo, rdb)
		}
	}

	seed, err := config.LoadSeedHabits(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Critical: Failed to load seed habits: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer := metrics.NewPrometheus(registry)

	store := services.NewTrackingStore(ctx, stateRepo, seed, services.WithObserver(observer))

	deps := adapterHTTP.RouterDependencies{
		HabitHandler:  adapterHTTP.NewHabitHandler(store),
		EntryHandler:  adapterHTTP.NewEntryHandler(store),
		WeeklyHandler: adapterHTTP.NewWeeklyHandler(store),
		StatsHandler:  adapterHTTP.NewStatsHandler(store),
		Redis:         rdb,
		Gatherer:      registry,
		RateLimit:     cfg.RateLimit,
		RateWindow:    cfg.RateLimitWindow,
		StartTime:     startTime,
	}
	if db != nil {
		deps.DB = db
	}

	router := adapterHTTP.NewRouter(deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Rituals running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
