package sim

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type issueCall struct {
	buyOrderID  string
	sellOrderID string
	outcome     string
	defaulter   string
}

type createdParticipant struct {
	id      string
	rep     int
	balance int
	pem     string
}

type fakeChaincode struct {
	created     []createdParticipant
	orders      []model.Order
	issued      []issueCall
	queryRep    int
	failInvokes bool
	failQueries bool
}

func (f *fakeChaincode) CreateParticipant(ctx context.Context, id string, reputation, balance int, pubKeyPEM string) error {
	if f.failInvokes {
		return errors.New("endorsement failed")
	}
	f.created = append(f.created, createdParticipant{id, reputation, balance, pubKeyPEM})
	return nil
}

func (f *fakeChaincode) CreateOrder(ctx context.Context, orderID, participantID string, quantity, price int, side string) error {
	f.orders = append(f.orders, model.Order{
		OrderID:       orderID,
		ParticipantID: participantID,
		Side:          side,
		Quantity:      quantity,
		Price:         price,
	})
	if f.failInvokes {
		return errors.New("endorsement failed")
	}
	return nil
}

func (f *fakeChaincode) IssueToken(ctx context.Context, buyOrderID, sellOrderID, outcome, defaulter string) error {
	f.issued = append(f.issued, issueCall{buyOrderID, sellOrderID, outcome, defaulter})
	if f.failInvokes {
		return errors.New("endorsement failed")
	}
	return nil
}

func (f *fakeChaincode) QueryReputation(ctx context.Context, participantID string) (int, error) {
	if f.failQueries {
		return 0, errors.New("peer unreachable")
	}
	return f.queryRep, nil
}

func testSimConfig() config.SimulationConfig {
	return config.SimulationConfig{
		Participants:        10,
		Rounds:              3,
		DefaultProbability:  0,
		ReputationThreshold: 20,
		MaxReputation:       100,
		SuccessReward:       1,
		DefaultPenalty:      5,
		InitialBalance:      1000,
		MinInitialRep:       40,
		MaxInitialRep:       60,
		MinQuantity:         1,
		MaxQuantity:         10,
		MinPrice:            50,
		MaxPrice:            100,
		Seed:                1,
	}
}

func presetShadow(t *testing.T, shadow repository.ShadowStore, n, rep int) {
	t.Helper()
	for _, id := range ParticipantIDs(n) {
		require.NoError(t, shadow.Set(context.Background(), id, rep))
	}
}

func shadowSum(t *testing.T, shadow repository.ShadowStore) int {
	t.Helper()
	snap, err := shadow.Snapshot(context.Background())
	require.NoError(t, err)
	sum := 0
	for _, rep := range snap {
		sum += rep
	}
	return sum
}

func TestMatchedNeverExceedsShorterSide(t *testing.T) {
	cc := &fakeChaincode{queryRep: 50, failQueries: true}
	shadow := repository.NewMemoryShadowStore()
	engine := NewEngine(testSimConfig(), cc, shadow, WithRand(rand.New(rand.NewSource(7))))

	results, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results.Rounds, 3)

	issuedTotal := 0
	for _, r := range results.Rounds {
		// matched pairs cannot exceed the shorter side, hence half the orders
		assert.LessOrEqual(t, r.Matched, r.Orders/2)
		assert.Equal(t, r.Matched, r.Success+r.Defaults)
		issuedTotal += r.Matched
	}
	assert.Equal(t, issuedTotal, len(cc.issued))
}

func TestSuccessRewardsBothParties(t *testing.T) {
	cfg := testSimConfig()
	cfg.DefaultProbability = 0

	cc := &fakeChaincode{failQueries: true}
	shadow := repository.NewMemoryShadowStore()
	presetShadow(t, shadow, cfg.Participants, 50)

	engine := NewEngine(cfg, cc, shadow, WithRand(rand.New(rand.NewSource(3))))
	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	successTotal := 0
	for _, r := range results.Rounds {
		assert.Zero(t, r.Defaults)
		successTotal += r.Success
	}
	assert.Empty(t, results.Defaults)

	// every successful trade raised exactly two reputations by one
	want := cfg.Participants*50 + 2*successTotal*cfg.SuccessReward
	assert.Equal(t, want, shadowSum(t, shadow))

	for _, call := range cc.issued {
		assert.Equal(t, model.OutcomeSuccess, call.outcome)
		assert.Empty(t, call.defaulter)
	}
}

func TestDefaultPenalizesExactlyOneParty(t *testing.T) {
	cfg := testSimConfig()
	cfg.DefaultProbability = 1.0
	cfg.Rounds = 2

	cc := &fakeChaincode{failQueries: true}
	shadow := repository.NewMemoryShadowStore()
	presetShadow(t, shadow, cfg.Participants, 50)

	engine := NewEngine(cfg, cc, shadow, WithRand(rand.New(rand.NewSource(11))))
	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	defaultTotal := 0
	for _, r := range results.Rounds {
		assert.Zero(t, r.Success)
		defaultTotal += r.Defaults
	}
	assert.Len(t, results.Defaults, defaultTotal)

	// every default cost exactly one participant the penalty
	want := cfg.Participants*50 - defaultTotal*cfg.DefaultPenalty
	assert.Equal(t, want, shadowSum(t, shadow))

	for _, call := range cc.issued {
		assert.Equal(t, model.OutcomeDefault, call.outcome)
		assert.NotEmpty(t, call.defaulter)
	}
}

func TestLowReputationParticipantsNeverTrade(t *testing.T) {
	cfg := testSimConfig()
	cc := &fakeChaincode{failQueries: true}
	shadow := repository.NewMemoryShadowStore()
	presetShadow(t, shadow, cfg.Participants, 50)
	require.NoError(t, shadow.Set(context.Background(), "user1", 10)) // below threshold

	engine := NewEngine(cfg, cc, shadow, WithRand(rand.New(rand.NewSource(5))))
	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	for _, o := range cc.orders {
		assert.NotEqual(t, "user1", o.ParticipantID)
	}
	for _, r := range results.Rounds {
		assert.Equal(t, 1, r.Excluded)
		assert.Equal(t, cfg.Participants-1, r.Orders)
	}
}

func TestLedgerFailuresAreSurvived(t *testing.T) {
	cfg := testSimConfig()
	cc := &fakeChaincode{failInvokes: true, failQueries: true}
	shadow := repository.NewMemoryShadowStore()
	presetShadow(t, shadow, cfg.Participants, 50)

	engine := NewEngine(cfg, cc, shadow, WithRand(rand.New(rand.NewSource(9))))
	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results.Rounds, cfg.Rounds)
	require.Len(t, results.Snapshots, cfg.Rounds*cfg.Participants)
	for _, s := range results.Snapshots {
		assert.Equal(t, model.SnapshotSourceShadow, s.Source)
	}
}

func TestSnapshotsPreferLedgerValue(t *testing.T) {
	cfg := testSimConfig()
	cfg.Rounds = 1
	cc := &fakeChaincode{queryRep: 99}
	shadow := repository.NewMemoryShadowStore()
	presetShadow(t, shadow, cfg.Participants, 50)

	engine := NewEngine(cfg, cc, shadow, WithRand(rand.New(rand.NewSource(2))))
	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results.Snapshots, cfg.Participants)
	for _, s := range results.Snapshots {
		assert.Equal(t, 99, s.Reputation)
		assert.Equal(t, model.SnapshotSourceLedger, s.Source)
	}
}

func TestOrderIDsAreRoundScoped(t *testing.T) {
	cfg := testSimConfig()
	cfg.Rounds = 2
	cc := &fakeChaincode{failQueries: true}
	shadow := repository.NewMemoryShadowStore()
	presetShadow(t, shadow, cfg.Participants, 50)

	engine := NewEngine(cfg, cc, shadow, WithRand(rand.New(rand.NewSource(4))))
	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, o := range cc.orders {
		assert.False(t, seen[o.OrderID], "order id %s reused", o.OrderID)
		seen[o.OrderID] = true
		assert.GreaterOrEqual(t, o.Quantity, cfg.MinQuantity)
		assert.LessOrEqual(t, o.Quantity, cfg.MaxQuantity)
		assert.GreaterOrEqual(t, o.Price, cfg.MinPrice)
		assert.LessOrEqual(t, o.Price, cfg.MaxPrice)
	}
}
