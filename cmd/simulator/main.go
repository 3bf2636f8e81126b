package main

import (
	"context"
	"log"
	"time"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/ledger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/monitor"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/report"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/sim"
)

func main() {
	// 0. Initialize Logger
	logger.Init("info")

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Reputation shadow (Redis > Memory)
	var shadow repository.ShadowStore
	if cfg.Redis.Addr != "" {
		redisShadow, err := repository.NewRedisShadowStore(cfg)
		if err == nil {
			logger.Info("✅ Connected to Redis, shadow store is shared")
			shadow = redisShadow
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to memory", "error", err)
		}
	}
	if shadow == nil {
		shadow = repository.NewMemoryShadowStore()
	}

	// 3. Results archive (Postgres > CSV-only)
	var resultsRepo report.ResultsRepo
	if cfg.Database.DSN != "" {
		db, err := repository.NewDB(cfg)
		if err == nil {
			logger.Info("✅ Connected to PostgreSQL, results will be archived")
			resultsRepo = repository.NewPostgresResultsRepo(db)
		} else {
			logger.Error("⚠️ Failed to connect to DB, results will be CSV-only", "error", err)
		}
	}

	// 4. Core services
	client := ledger.NewClient(cfg.Fabric)
	collector := report.NewCollector(resultsRepo)

	var mon *monitor.Server
	engineOpts := []sim.Option{}
	if cfg.Monitor.Enabled {
		mon = monitor.NewServer(cfg.Monitor, shadow)
		mon.Start()
		engineOpts = append(engineOpts, sim.WithRoundSink(mon.RoundCompleted))
	}

	engine := sim.NewEngine(cfg.Simulation, client, shadow, engineOpts...)

	// 5. Run the simulation
	ctx := context.Background()
	logger.Info("🚀 Simulation starting",
		"run_id", collector.RunID(),
		"participants", cfg.Simulation.Participants,
		"rounds", cfg.Simulation.Rounds)

	results, err := engine.Run(ctx)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	// 6. Persist and render
	if err := collector.Persist(ctx, cfg.Output.Dir, results.Snapshots, results.Defaults, results.Rounds); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
	if err := report.RenderCharts(cfg.Output.Dir, results.Snapshots, results.Defaults, results.Rounds, cfg.Simulation.Participants); err != nil {
		log.Fatalf("Failed to render charts: %v", err)
	}
	logger.Info("Simulation completed, data and charts written", "dir", cfg.Output.Dir)

	if mon != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mon.Stop(shutdownCtx); err != nil {
			logger.Error("monitor shutdown failed", "error", err.Error())
		}
	}
}
