package fulfillment

import (
	"context"

	"github.com/flexprice/connectcheckout/internal/domain/checkout"
)

// Handler completes a paid purchase: grant access, ship goods, send a receipt.
// It is called once per verified completion event, so redeliveries of the same
// event reach it again.
type Handler interface {
	Fulfill(ctx context.Context, connectedAccountID string, session checkout.Session) error
}

// HandlerFunc adapts a plain function to Handler
type HandlerFunc func(ctx context.Context, connectedAccountID string, session checkout.Session) error

func (f HandlerFunc) Fulfill(ctx context.Context, connectedAccountID string, session checkout.Session) error {
	return f(ctx, connectedAccountID, session)
}
