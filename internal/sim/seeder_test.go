package sim

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeederRegistersAllParticipants(t *testing.T) {
	cfg := testSimConfig()
	cfg.Participants = 5

	cc := &fakeChaincode{}
	shadow := repository.NewMemoryShadowStore()
	seeder := NewSeeder(cfg, cc, shadow, WithSeederRand(rand.New(rand.NewSource(1))))

	registered, failed := seeder.Run(context.Background())
	assert.Equal(t, 5, registered)
	assert.Zero(t, failed)
	require.Len(t, cc.created, 5)

	for _, p := range cc.created {
		assert.GreaterOrEqual(t, p.rep, cfg.MinInitialRep)
		assert.LessOrEqual(t, p.rep, cfg.MaxInitialRep)
		assert.Equal(t, cfg.InitialBalance, p.balance)
		assert.True(t, strings.HasPrefix(p.pem, "-----BEGIN PUBLIC KEY-----"))

		rep, ok, err := shadow.Get(context.Background(), p.id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, p.rep, rep)
	}
}

func TestSeederCountsFailures(t *testing.T) {
	cfg := testSimConfig()
	cfg.Participants = 3

	cc := &fakeChaincode{failInvokes: true}
	shadow := repository.NewMemoryShadowStore()
	seeder := NewSeeder(cfg, cc, shadow, WithSeederRand(rand.New(rand.NewSource(1))))

	registered, failed := seeder.Run(context.Background())
	assert.Zero(t, registered)
	assert.Equal(t, 3, failed)

	snap, err := shadow.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}
