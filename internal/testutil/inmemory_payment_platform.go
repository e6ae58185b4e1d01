package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/interfaces"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var _ interfaces.PaymentPlatformClient = (*InMemoryPaymentPlatform)(nil)

// InMemoryPaymentPlatform records every call made against it. Webhook
// verification uses the real signature scheme so tests can sign payloads
// with SignWebhookPayload.
type InMemoryPaymentPlatform struct {
	mu sync.Mutex

	Accounts []*interfaces.ConnectedAccount
	Sessions []*interfaces.CheckoutSessionInput

	// Err, when set, is returned by every upstream call
	Err error
	// ParseErr, when set, is returned by ParseWebhookEvent
	ParseErr error

	LoginLinkCalls []string
	ListCalls      int
}

func NewInMemoryPaymentPlatform() *InMemoryPaymentPlatform {
	return &InMemoryPaymentPlatform{}
}

func (p *InMemoryPaymentPlatform) CreateCheckoutSession(_ context.Context, input *interfaces.CheckoutSessionInput) (*interfaces.CheckoutSessionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	copied := *input
	p.Sessions = append(p.Sessions, &copied)
	id := fmt.Sprintf("cs_test_%d", len(p.Sessions))

	return &interfaces.CheckoutSessionResult{
		ID:  id,
		URL: "https://checkout.stripe.com/c/pay/" + id,
	}, nil
}

func (p *InMemoryPaymentPlatform) ListConnectedAccounts(_ context.Context, limit int64) ([]*interfaces.ConnectedAccount, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ListCalls++
	if p.Err != nil {
		return nil, p.Err
	}

	accounts := p.Accounts
	if limit > 0 && int64(len(accounts)) > limit {
		accounts = accounts[:limit]
	}
	return append([]*interfaces.ConnectedAccount(nil), accounts...), nil
}

func (p *InMemoryPaymentPlatform) CreateLoginLink(_ context.Context, accountID string) (*interfaces.LoginLink, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.LoginLinkCalls = append(p.LoginLinkCalls, accountID)
	if p.Err != nil {
		return nil, p.Err
	}

	return &interfaces.LoginLink{
		URL:     "https://connect.stripe.com/express/" + accountID,
		Created: time.Now().Unix(),
	}, nil
}

func (p *InMemoryPaymentPlatform) ParseWebhookEvent(payload []byte, signature string, webhookSecret string) (*stripe.Event, error) {
	p.mu.Lock()
	parseErr := p.ParseErr
	p.mu.Unlock()
	if parseErr != nil {
		return nil, parseErr
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to verify webhook signature").
			Mark(ierr.ErrUnauthenticated)
	}
	return &event, nil
}

// CheckoutSessionCount returns how many sessions were created
func (p *InMemoryPaymentPlatform) CheckoutSessionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sessions)
}

// SignWebhookPayload returns a valid Stripe-Signature header for payload
func SignWebhookPayload(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	}).Header
}

// CheckoutEventPayload builds a webhook body for a checkout session event
func CheckoutEventPayload(eventID, eventType, accountID, sessionID string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": %q,
  "object": "event",
  "type": %q,
  "account": %q,
  "created": 1700000000,
  "livemode": false,
  "data": {"object": {"id": %q, "object": "checkout.session", "payment_status": "paid", "status": "complete", "amount_total": 3000, "currency": "usd"}}
}`, eventID, eventType, accountID, sessionID))
}
