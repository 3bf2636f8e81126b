package report

import (
	"sort"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/shopspring/decimal"
)

// AvgReputationByRound returns (rounds, averages) sorted by round.
func AvgReputationByRound(snaps []model.ReputationSnapshot) ([]int, []float64) {
	sums := make(map[int]decimal.Decimal)
	counts := make(map[int]int64)
	for _, s := range snaps {
		sums[s.Round] = sums[s.Round].Add(decimal.NewFromInt(int64(s.Reputation)))
		counts[s.Round]++
	}

	rounds := make([]int, 0, len(sums))
	for r := range sums {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)

	avgs := make([]float64, 0, len(rounds))
	for _, r := range rounds {
		avg := sums[r].Div(decimal.NewFromInt(counts[r]))
		avgs = append(avgs, avg.InexactFloat64())
	}
	return rounds, avgs
}

// SuccessRateByRound returns (rounds, ratePercent). Rounds with zero
// matched trades report a zero rate rather than dividing by zero.
func SuccessRateByRound(rounds []model.RoundSummary) ([]int, []float64) {
	ids := make([]int, 0, len(rounds))
	rates := make([]float64, 0, len(rounds))
	for _, r := range rounds {
		ids = append(ids, r.Round)
		if r.Matched == 0 {
			rates = append(rates, 0)
			continue
		}
		rate := decimal.NewFromInt(int64(r.Success)).
			Div(decimal.NewFromInt(int64(r.Matched))).
			Mul(decimal.NewFromInt(100))
		rates = append(rates, rate.InexactFloat64())
	}
	return ids, rates
}

// DefaultFrequency buckets participants by how often they defaulted
// across the whole run, including the zero-defaults bucket.
func DefaultFrequency(defaults []model.DefaultEvent, totalParticipants int) ([]int, []int) {
	perUser := make(map[string]int)
	for _, d := range defaults {
		perUser[d.Participant]++
	}

	dist := map[int]int{0: totalParticipants - len(perUser)}
	for _, n := range perUser {
		dist[n]++
	}

	freqs := make([]int, 0, len(dist))
	for f := range dist {
		freqs = append(freqs, f)
	}
	sort.Ints(freqs)

	counts := make([]int, 0, len(freqs))
	for _, f := range freqs {
		counts = append(counts, dist[f])
	}
	return freqs, counts
}
