package model

// ReputationSnapshot is one participant's reputation as observed after a
// round. Source records whether the value came from the ledger query or
// from the local shadow copy (query failed).
type ReputationSnapshot struct {
	Round       int    `json:"round"`
	Participant string `json:"user"`
	Reputation  int    `json:"reputation"`
	Source      string `json:"source"`
}

const (
	SnapshotSourceLedger = "ledger"
	SnapshotSourceShadow = "shadow"
)

// DefaultEvent records a single defaulted trade.
type DefaultEvent struct {
	Round       int    `json:"round"`
	Participant string `json:"user"`
}

// RoundSummary aggregates one simulation round.
type RoundSummary struct {
	Round    int `json:"round"`
	Orders   int `json:"orders"`
	Matched  int `json:"matched"`
	Success  int `json:"success"`
	Defaults int `json:"defaults"`
	Excluded int `json:"excluded_users"`
}
