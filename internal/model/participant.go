package model

// Participant mirrors the chaincode's participant record. The harness
// only ever writes it at seeding time; afterwards the ledger owns it.
type Participant struct {
	ID         string `json:"id"`
	Reputation int    `json:"reputation"`
	Balance    int    `json:"balance"`
	PublicKey  string `json:"publicKey"` // PKIX PEM
}
