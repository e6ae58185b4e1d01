package checkout

import (
	"encoding/json"
	"time"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// Request is a buyer's order for a number of units sold by a connected account
type Request struct {
	Quantity           int64
	ConnectedAccountID string
}

// Session is the part of a hosted checkout session that fulfillment needs
type Session struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	Status        string            `json:"status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	// Raw is the verified session object as delivered by the platform
	Raw json.RawMessage `json:"raw,omitempty"`
}

// IsPaid reports whether the funds for the session are available
func (s Session) IsPaid() bool {
	return s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusPaid) ||
		s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusNoPaymentRequired)
}

// WebhookEvent is a platform event whose signature has been verified.
// Session is only set for kinds that require fulfillment.
type WebhookEvent struct {
	ID                 string
	Type               string
	Kind               types.CheckoutEventKind
	ConnectedAccountID string
	Livemode           bool
	CreatedAt          time.Time
	Session            *Session
}

// NewWebhookEvent builds a WebhookEvent from an event returned by signature verification.
// It must never be called with an event decoded from an unverified body.
func NewWebhookEvent(event *stripe.Event) (*WebhookEvent, error) {
	if event == nil || event.Type == "" {
		return nil, ierr.NewError("webhook event has no type").
			WithHint("Webhook event is missing its type").
			Mark(ierr.ErrMalformedEvent)
	}

	e := &WebhookEvent{
		ID:                 event.ID,
		Type:               string(event.Type),
		Kind:               types.ParseCheckoutEventKind(string(event.Type)),
		ConnectedAccountID: event.Account,
		Livemode:           event.Livemode,
		CreatedAt:          time.Unix(event.Created, 0).UTC(),
	}

	if !e.Kind.RequiresFulfillment() {
		return e, nil
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, ierr.NewError("webhook event has no data object").
			WithHint("Webhook event is missing its checkout session").
			WithReportableDetails(map[string]any{
				"event_id":   event.ID,
				"event_type": e.Type,
			}).
			Mark(ierr.ErrMalformedEvent)
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Webhook event carries an invalid checkout session").
			WithReportableDetails(map[string]any{
				"event_id":   event.ID,
				"event_type": e.Type,
			}).
			Mark(ierr.ErrMalformedEvent)
	}

	if cs.ID == "" {
		return nil, ierr.NewError("checkout session has no id").
			WithHint("Webhook event carries an invalid checkout session").
			Mark(ierr.ErrMalformedEvent)
	}

	session := newSession(&cs)
	session.Raw = append(json.RawMessage(nil), event.Data.Raw...)
	e.Session = &session

	return e, nil
}

func newSession(cs *stripe.CheckoutSession) Session {
	s := Session{
		ID:            cs.ID,
		PaymentStatus: string(cs.PaymentStatus),
		Status:        string(cs.Status),
		AmountTotal:   cs.AmountTotal,
		Currency:      string(cs.Currency),
		Metadata:      cs.Metadata,
	}
	if cs.CustomerDetails != nil {
		s.CustomerEmail = cs.CustomerDetails.Email
	}
	return s
}
