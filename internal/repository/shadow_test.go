package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryShadowStoreClampsReward(t *testing.T) {
	s := NewMemoryShadowStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user1", 99))
	require.NoError(t, s.Reward(ctx, "user1", 1, 100))
	require.NoError(t, s.Reward(ctx, "user1", 1, 100))

	rep, ok, err := s.Get(ctx, "user1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100, rep)
}

func TestMemoryShadowStoreFloorsPenalty(t *testing.T) {
	s := NewMemoryShadowStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user1", 3))
	require.NoError(t, s.Penalize(ctx, "user1", 5))

	rep, _, err := s.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 0, rep)
}

func TestMemoryShadowStoreMissingParticipant(t *testing.T) {
	s := NewMemoryShadowStore()

	_, ok, err := s.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryShadowStoreSnapshotIsCopy(t *testing.T) {
	s := NewMemoryShadowStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "user1", 40))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	snap["user1"] = 0

	rep, _, err := s.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 40, rep)
}
