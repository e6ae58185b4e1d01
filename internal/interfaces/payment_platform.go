package interfaces

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

// CheckoutSessionInput describes a hosted checkout session created on behalf of a connected account
type CheckoutSessionInput struct {
	ConnectedAccountID   string
	Quantity             int64
	UnitAmount           int64
	Currency             string
	ApplicationFeeAmount int64
	ProductName          string
	ProductImages        []string
	SuccessURL           string
	CancelURL            string
	// IdempotencyKey makes a retried request return the session created by the first attempt
	IdempotencyKey string
}

type CheckoutSessionResult struct {
	ID  string
	URL string
}

type ConnectedAccount struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	Email            string `json:"email,omitempty"`
	BusinessName     string `json:"business_name,omitempty"`
	Country          string `json:"country,omitempty"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
	// Capabilities mirrors the platform's object so the storefront can filter on card_payments
	Capabilities AccountCapabilities `json:"capabilities"`
}

type AccountCapabilities struct {
	CardPayments string `json:"card_payments,omitempty"`
}

// CardPaymentsActive reports whether direct charges can be taken on the account
func (a *ConnectedAccount) CardPaymentsActive() bool {
	return a.Capabilities.CardPayments == "active"
}

type LoginLink struct {
	URL     string
	Created int64
}

// PaymentPlatformClient is everything the service needs from the payment platform.
// Implementations return errors marked with ierr.ErrUpstream for platform failures.
type PaymentPlatformClient interface {
	CreateCheckoutSession(ctx context.Context, input *CheckoutSessionInput) (*CheckoutSessionResult, error)
	ListConnectedAccounts(ctx context.Context, limit int64) ([]*ConnectedAccount, error)
	CreateLoginLink(ctx context.Context, accountID string) (*LoginLink, error)
	// ParseWebhookEvent verifies the signature header over the raw payload and decodes the event
	ParseWebhookEvent(payload []byte, signature string, webhookSecret string) (*stripe.Event, error)
}
