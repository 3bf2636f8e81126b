package model

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeDefault = "DEFAULT"
)

// Order is a one-round trading intent. Orders live only for the round
// that created them; the ledger copy is best-effort.
type Order struct {
	OrderID       string `json:"orderID"`
	ParticipantID string `json:"participantID"`
	Side          string `json:"side"`
	Quantity      int    `json:"quantity"`
	Price         int    `json:"price"`
}

// Trade is a matched buy/sell pair together with its simulated outcome.
// Defaulter is empty unless Outcome is DEFAULT.
type Trade struct {
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Buyer       string `json:"buyer"`
	Seller      string `json:"seller"`
	Outcome     string `json:"outcome"`
	Defaulter   string `json:"defaulter,omitempty"`
}
