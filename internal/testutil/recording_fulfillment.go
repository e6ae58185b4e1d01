package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/connectcheckout/internal/domain/checkout"
	"github.com/flexprice/connectcheckout/internal/fulfillment"
)

var _ fulfillment.Handler = (*RecordingFulfillmentHandler)(nil)

type FulfillmentCall struct {
	ConnectedAccountID string
	Session            checkout.Session
}

// RecordingFulfillmentHandler remembers every fulfillment it is asked to perform
type RecordingFulfillmentHandler struct {
	mu    sync.Mutex
	calls []FulfillmentCall
	Err   error
}

func NewRecordingFulfillmentHandler() *RecordingFulfillmentHandler {
	return &RecordingFulfillmentHandler{}
}

func (h *RecordingFulfillmentHandler) Fulfill(_ context.Context, connectedAccountID string, session checkout.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, FulfillmentCall{ConnectedAccountID: connectedAccountID, Session: session})
	return h.Err
}

func (h *RecordingFulfillmentHandler) Calls() []FulfillmentCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]FulfillmentCall(nil), h.calls...)
}

func (h *RecordingFulfillmentHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
	h.Err = nil
}
