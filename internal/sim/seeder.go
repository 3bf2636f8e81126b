package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/keys"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/ledger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
)

// Seeder onboards participants: a fresh P-256 key pair each, public key
// registered on the ledger together with the starting reputation and
// balance. Registration failures are logged and skipped, not fatal.
type Seeder struct {
	cfg    config.SimulationConfig
	cc     ledger.Chaincode
	shadow repository.ShadowStore
	rng    *rand.Rand
}

func NewSeeder(cfg config.SimulationConfig, cc ledger.Chaincode, shadow repository.ShadowStore, opts ...SeederOption) *Seeder {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Seeder{
		cfg:    cfg,
		cc:     cc,
		shadow: shadow,
		rng:    rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SeederOption func(*Seeder)

func WithSeederRand(rng *rand.Rand) SeederOption {
	return func(s *Seeder) { s.rng = rng }
}

// Run registers every participant and returns (registered, failed).
func (s *Seeder) Run(ctx context.Context) (int, int) {
	registered, failed := 0, 0
	for _, id := range ParticipantIDs(s.cfg.Participants) {
		rep := s.cfg.MinInitialRep + s.rng.Intn(s.cfg.MaxInitialRep-s.cfg.MinInitialRep+1)

		pair, err := keys.Generate()
		if err != nil {
			logger.LogError(ctx, err, "key generation failed", "participant", id)
			failed++
			continue
		}
		if err := pair.SelfCheck(); err != nil {
			logger.LogError(ctx, err, "key self-check failed", "participant", id)
			failed++
			continue
		}
		pemPub, err := pair.PublicKeyPEM()
		if err != nil {
			logger.LogError(ctx, err, "public key encoding failed", "participant", id)
			failed++
			continue
		}

		if err := s.cc.CreateParticipant(ctx, id, rep, s.cfg.InitialBalance, pemPub); err != nil {
			logger.LogError(ctx, err, "CreateParticipant invoke failed", "participant", id)
			failed++
			continue
		}

		if err := s.shadow.Set(ctx, id, rep); err != nil {
			logger.LogError(ctx, err, "shadow write failed", "participant", id)
		}
		logger.Info("registered participant", "participant", id, "reputation", rep, "balance", s.cfg.InitialBalance)
		registered++
	}
	return registered, failed
}
