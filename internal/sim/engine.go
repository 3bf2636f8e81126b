package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/ledger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/metrics"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
)

// Engine runs the round-based trading simulation against the chaincode.
// It is sequential and single-threaded; every ledger call failure is
// logged and survived using locally held values.
type Engine struct {
	cfg          config.SimulationConfig
	cc           ledger.Chaincode
	shadow       repository.ShadowStore
	rng          *rand.Rand
	participants []string
	onRound      func(model.RoundSummary)
}

// Results is everything a run produced, ready for the report layer.
type Results struct {
	Snapshots []model.ReputationSnapshot
	Defaults  []model.DefaultEvent
	Rounds    []model.RoundSummary
}

type Option func(*Engine)

// WithRand fixes the RNG, making runs reproducible in tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithRoundSink registers a callback fired after each completed round.
func WithRoundSink(fn func(model.RoundSummary)) Option {
	return func(e *Engine) { e.onRound = fn }
}

func NewEngine(cfg config.SimulationConfig, cc ledger.Chaincode, shadow repository.ShadowStore, opts ...Option) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:          cfg,
		cc:           cc,
		shadow:       shadow,
		rng:          rand.New(rand.NewSource(seed)),
		participants: ParticipantIDs(cfg.Participants),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParticipantIDs returns the canonical participant identifiers
// user1..userN shared by seeder and simulator.
func ParticipantIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("user%d", i))
	}
	return ids
}

// InitShadow fills in shadow reputation for any participant the store
// does not know yet, uniform in the configured seed range. A Redis
// shadow already populated by the seeder is left untouched.
func (e *Engine) InitShadow(ctx context.Context) error {
	for _, id := range e.participants {
		_, ok, err := e.shadow.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("shadow read for %s: %w", id, err)
		}
		if ok {
			continue
		}
		rep := e.cfg.MinInitialRep + e.rng.Intn(e.cfg.MaxInitialRep-e.cfg.MinInitialRep+1)
		if err := e.shadow.Set(ctx, id, rep); err != nil {
			return fmt.Errorf("shadow init for %s: %w", id, err)
		}
	}
	return nil
}

// Run executes the configured number of rounds and returns the
// accumulated results.
func (e *Engine) Run(ctx context.Context) (*Results, error) {
	if err := e.InitShadow(ctx); err != nil {
		return nil, err
	}

	results := &Results{}
	for round := 1; round <= e.cfg.Rounds; round++ {
		start := time.Now()
		summary := e.runRound(ctx, round, results)
		metrics.RoundDuration.Observe(time.Since(start).Seconds())
		metrics.ExcludedParticipants.Set(float64(summary.Excluded))

		results.Rounds = append(results.Rounds, summary)
		if e.onRound != nil {
			e.onRound(summary)
		}
		logger.Info("round complete",
			"round", round,
			"orders", summary.Orders,
			"matched", summary.Matched,
			"success", summary.Success,
			"defaults", summary.Defaults,
			"excluded", summary.Excluded)
	}
	return results, nil
}

func (e *Engine) runRound(ctx context.Context, round int, results *Results) model.RoundSummary {
	orders, excluded := e.placeOrders(ctx, round)

	var buys, sells []model.Order
	for _, o := range orders {
		if o.Side == model.SideBuy {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}
	e.rng.Shuffle(len(buys), func(i, j int) { buys[i], buys[j] = buys[j], buys[i] })
	e.rng.Shuffle(len(sells), func(i, j int) { sells[i], sells[j] = sells[j], sells[i] })

	matched := len(buys)
	if len(sells) < matched {
		matched = len(sells)
	}

	success, defaults := 0, 0
	for i := 0; i < matched; i++ {
		trade := e.settlePair(ctx, round, buys[i], sells[i])
		if trade.Outcome == model.OutcomeDefault {
			defaults++
			results.Defaults = append(results.Defaults, model.DefaultEvent{
				Round:       round,
				Participant: trade.Defaulter,
			})
		} else {
			success++
		}
		metrics.TradesTotal.WithLabelValues(trade.Outcome).Inc()
	}

	results.Snapshots = append(results.Snapshots, e.collectSnapshots(ctx, round)...)

	return model.RoundSummary{
		Round:    round,
		Orders:   len(orders),
		Matched:  matched,
		Success:  success,
		Defaults: defaults,
		Excluded: excluded,
	}
}

// placeOrders generates one order per eligible participant and submits
// each to the ledger. An order whose submission fails stays in the local
// round; the ledger copy is best-effort.
func (e *Engine) placeOrders(ctx context.Context, round int) ([]model.Order, int) {
	var orders []model.Order
	excluded := 0
	for _, id := range e.participants {
		rep, ok, err := e.shadow.Get(ctx, id)
		if err != nil {
			logger.LogError(ctx, err, "shadow read failed, excluding participant", "participant", id)
			excluded++
			continue
		}
		if !ok || rep < e.cfg.ReputationThreshold {
			excluded++
			continue
		}

		side := model.SideBuy
		if e.rng.Intn(2) == 1 {
			side = model.SideSell
		}
		order := model.Order{
			OrderID:       fmt.Sprintf("ORD%d_%s", round, id),
			ParticipantID: id,
			Side:          side,
			Quantity:      e.cfg.MinQuantity + e.rng.Intn(e.cfg.MaxQuantity-e.cfg.MinQuantity+1),
			Price:         e.cfg.MinPrice + e.rng.Intn(e.cfg.MaxPrice-e.cfg.MinPrice+1),
		}
		orders = append(orders, order)

		if err := e.cc.CreateOrder(ctx, order.OrderID, order.ParticipantID, order.Quantity, order.Price, order.Side); err != nil {
			logger.LogError(ctx, err, "CreateOrder invoke failed", "order", order.OrderID)
		}
	}
	return orders, excluded
}

// settlePair draws the default model for one matched pair, settles it on
// the ledger and applies the mirrored reputation update to the shadow.
func (e *Engine) settlePair(ctx context.Context, round int, buy, sell model.Order) model.Trade {
	trade := model.Trade{
		BuyOrderID:  buy.OrderID,
		SellOrderID: sell.OrderID,
		Buyer:       buy.ParticipantID,
		Seller:      sell.ParticipantID,
		Outcome:     model.OutcomeSuccess,
	}

	if e.rng.Float64() < e.cfg.DefaultProbability {
		trade.Outcome = model.OutcomeDefault
		if e.rng.Intn(2) == 0 {
			trade.Defaulter = trade.Buyer
		} else {
			trade.Defaulter = trade.Seller
		}
	}

	if err := e.cc.IssueToken(ctx, trade.BuyOrderID, trade.SellOrderID, trade.Outcome, trade.Defaulter); err != nil {
		logger.LogError(ctx, err, "IssueToken invoke failed",
			"buy_order", trade.BuyOrderID, "sell_order", trade.SellOrderID, "outcome", trade.Outcome)
	}

	// Mirror the chaincode's reputation rule, clamped to [0, max]
	if trade.Outcome == model.OutcomeDefault {
		if err := e.shadow.Penalize(ctx, trade.Defaulter, e.cfg.DefaultPenalty); err != nil {
			logger.LogError(ctx, err, "shadow penalize failed", "participant", trade.Defaulter)
		}
	} else {
		for _, id := range []string{trade.Buyer, trade.Seller} {
			if err := e.shadow.Reward(ctx, id, e.cfg.SuccessReward, e.cfg.MaxReputation); err != nil {
				logger.LogError(ctx, err, "shadow reward failed", "participant", id)
			}
		}
	}
	return trade
}

// collectSnapshots queries each participant's reputation from the
// ledger; on query failure the shadow value stands in.
func (e *Engine) collectSnapshots(ctx context.Context, round int) []model.ReputationSnapshot {
	snaps := make([]model.ReputationSnapshot, 0, len(e.participants))
	for _, id := range e.participants {
		rep, err := e.cc.QueryReputation(ctx, id)
		source := model.SnapshotSourceLedger
		if err != nil {
			logger.Warn("QueryReputation failed, using shadow value", "participant", id, "error", err.Error())
			rep, _, _ = e.shadow.Get(ctx, id)
			source = model.SnapshotSourceShadow
		}
		snaps = append(snaps, model.ReputationSnapshot{
			Round:       round,
			Participant: id,
			Reputation:  rep,
			Source:      source,
		})
	}
	return snaps
}
