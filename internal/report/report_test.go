package report

import (
	"testing"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() ([]model.ReputationSnapshot, []model.DefaultEvent, []model.RoundSummary) {
	snaps := []model.ReputationSnapshot{
		{Round: 1, Participant: "user1", Reputation: 40, Source: model.SnapshotSourceLedger},
		{Round: 1, Participant: "user2", Reputation: 60, Source: model.SnapshotSourceLedger},
		{Round: 2, Participant: "user1", Reputation: 41, Source: model.SnapshotSourceShadow},
		{Round: 2, Participant: "user2", Reputation: 55, Source: model.SnapshotSourceLedger},
	}
	defaults := []model.DefaultEvent{
		{Round: 2, Participant: "user2"},
		{Round: 2, Participant: "user2"},
		{Round: 1, Participant: "user1"},
	}
	rounds := []model.RoundSummary{
		{Round: 1, Orders: 2, Matched: 1, Success: 0, Defaults: 1, Excluded: 0},
		{Round: 2, Orders: 2, Matched: 1, Success: 1, Defaults: 0, Excluded: 0},
	}
	return snaps, defaults, rounds
}

func TestWriteAndLoadCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snaps, defaults, rounds := sampleData()

	require.NoError(t, WriteCSV(dir, snaps, defaults, rounds))

	gotSnaps, gotDefaults, gotRounds, err := LoadCSV(dir)
	require.NoError(t, err)

	require.Len(t, gotSnaps, len(snaps))
	for i, s := range snaps {
		assert.Equal(t, s.Round, gotSnaps[i].Round)
		assert.Equal(t, s.Participant, gotSnaps[i].Participant)
		assert.Equal(t, s.Reputation, gotSnaps[i].Reputation)
	}

	require.Len(t, gotDefaults, len(defaults))
	assert.Equal(t, "user2", gotDefaults[0].Participant)

	require.Len(t, gotRounds, len(rounds))
	assert.Equal(t, rounds[0], gotRounds[0])
	assert.Equal(t, rounds[1], gotRounds[1])
}

func TestAvgReputationByRound(t *testing.T) {
	snaps, _, _ := sampleData()
	rounds, avgs := AvgReputationByRound(snaps)

	require.Equal(t, []int{1, 2}, rounds)
	require.Len(t, avgs, 2)
	assert.InDelta(t, 50.0, avgs[0], 1e-9)
	assert.InDelta(t, 48.0, avgs[1], 1e-9)
}

func TestSuccessRateByRound(t *testing.T) {
	rounds := []model.RoundSummary{
		{Round: 1, Matched: 4, Success: 3},
		{Round: 2, Matched: 0, Success: 0}, // no trades, no division
	}
	ids, rates := SuccessRateByRound(rounds)
	require.Equal(t, []int{1, 2}, ids)
	assert.InDelta(t, 75.0, rates[0], 1e-9)
	assert.Zero(t, rates[1])
}

func TestDefaultFrequencyIncludesZeroBucket(t *testing.T) {
	_, defaults, _ := sampleData()
	freqs, counts := DefaultFrequency(defaults, 5)

	// user1 defaulted once, user2 twice, three participants never
	require.Equal(t, []int{0, 1, 2}, freqs)
	assert.Equal(t, []int{3, 1, 1}, counts)
}

func TestRenderChartsWritesFiles(t *testing.T) {
	dir := t.TempDir()
	snaps, defaults, rounds := sampleData()

	require.NoError(t, RenderCharts(dir, snaps, defaults, rounds, 5))

	for _, name := range []string{AvgReputationPNG, SuccessRatePNG, DefaultFrequencyPNG} {
		assert.FileExists(t, dir+"/"+name)
	}
}
