package ledger

import (
	"context"
	"fmt"
	"strconv"
)

// Chaincode is the typed surface of the RepuTrade contract the harness
// consumes. Implemented by *Client; faked in tests.
type Chaincode interface {
	CreateParticipant(ctx context.Context, id string, reputation, balance int, pubKeyPEM string) error
	CreateOrder(ctx context.Context, orderID, participantID string, quantity, price int, side string) error
	IssueToken(ctx context.Context, buyOrderID, sellOrderID, outcome, defaulter string) error
	QueryReputation(ctx context.Context, participantID string) (int, error)
}

func (c *Client) CreateParticipant(ctx context.Context, id string, reputation, balance int, pubKeyPEM string) error {
	return c.Submit(ctx, "CreateParticipant",
		id, strconv.Itoa(reputation), strconv.Itoa(balance), pubKeyPEM)
}

func (c *Client) CreateOrder(ctx context.Context, orderID, participantID string, quantity, price int, side string) error {
	return c.Submit(ctx, "CreateOrder",
		orderID, participantID, strconv.Itoa(quantity), strconv.Itoa(price), side)
}

// IssueToken settles a matched pair with the simulated outcome flag and
// the defaulting party (empty on success).
func (c *Client) IssueToken(ctx context.Context, buyOrderID, sellOrderID, outcome, defaulter string) error {
	return c.Submit(ctx, "IssueToken", buyOrderID, sellOrderID, outcome, defaulter)
}

func (c *Client) QueryReputation(ctx context.Context, participantID string) (int, error) {
	out, err := c.Query(ctx, "QueryReputation", participantID)
	if err != nil {
		return 0, err
	}
	rep, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("unexpected reputation payload %q: %w", out, err)
	}
	return rep, nil
}
