package main

import (
	"context"
	"log"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/ledger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/sim"
)

func main() {
	logger.Init("info")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Shadow store: Redis makes the seeded reputations visible to a
	// separately launched simulator; memory only survives this process.
	var shadow repository.ShadowStore
	if cfg.Redis.Addr != "" {
		redisShadow, err := repository.NewRedisShadowStore(cfg)
		if err == nil {
			logger.Info("✅ Connected to Redis, seeded reputations will be shared")
			shadow = redisShadow
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to memory", "error", err)
		}
	}
	if shadow == nil {
		shadow = repository.NewMemoryShadowStore()
	}

	client := ledger.NewClient(cfg.Fabric)
	seeder := sim.NewSeeder(cfg.Simulation, client, shadow)

	logger.Info("🚀 Seeding participants", "count", cfg.Simulation.Participants)
	registered, failed := seeder.Run(context.Background())
	logger.Info("Seeding finished", "registered", registered, "failed", failed)
}
