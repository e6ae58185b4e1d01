package checkout

import (
	"encoding/json"
	"testing"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func stripeEvent(eventType string, raw string) *stripe.Event {
	return &stripe.Event{
		ID:       "evt_123",
		Type:     stripe.EventType(eventType),
		Account:  "acct_connected",
		Created:  1700000000,
		Livemode: false,
		Data:     &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestNewWebhookEventCompleted(t *testing.T) {
	raw := `{"id":"cs_test_1","object":"checkout.session","payment_status":"paid","status":"complete","amount_total":3000,"currency":"usd","customer_details":{"email":"buyer@example.com"},"metadata":{"order":"42"}}`

	e, err := NewWebhookEvent(stripeEvent("checkout.session.completed", raw))
	require.NoError(t, err)

	assert.Equal(t, "evt_123", e.ID)
	assert.Equal(t, types.CheckoutEventKindSessionCompleted, e.Kind)
	assert.Equal(t, "acct_connected", e.ConnectedAccountID)
	assert.Equal(t, int64(1700000000), e.CreatedAt.Unix())
	require.NotNil(t, e.Session)
	assert.Equal(t, "cs_test_1", e.Session.ID)
	assert.Equal(t, "paid", e.Session.PaymentStatus)
	assert.Equal(t, int64(3000), e.Session.AmountTotal)
	assert.Equal(t, "usd", e.Session.Currency)
	assert.Equal(t, "buyer@example.com", e.Session.CustomerEmail)
	assert.Equal(t, "42", e.Session.Metadata["order"])
	assert.JSONEq(t, raw, string(e.Session.Raw))
	assert.True(t, e.Session.IsPaid())
}

func TestNewWebhookEventAsyncSucceeded(t *testing.T) {
	raw := `{"id":"cs_test_2","object":"checkout.session","payment_status":"paid"}`

	e, err := NewWebhookEvent(stripeEvent("checkout.session.async_payment_succeeded", raw))
	require.NoError(t, err)
	assert.Equal(t, types.CheckoutEventKindAsyncPaymentSucceeded, e.Kind)
	assert.Equal(t, "cs_test_2", e.Session.ID)
}

func TestNewWebhookEventOtherKindSkipsSession(t *testing.T) {
	e, err := NewWebhookEvent(stripeEvent("invoice.created", `{"id":"in_1","object":"invoice"}`))
	require.NoError(t, err)
	assert.Equal(t, types.CheckoutEventKindOther, e.Kind)
	assert.Equal(t, "invoice.created", e.Type)
	assert.Nil(t, e.Session)
}

func TestNewWebhookEventMalformed(t *testing.T) {
	tests := []struct {
		name  string
		event *stripe.Event
	}{
		{name: "nil event", event: nil},
		{name: "missing type", event: stripeEvent("", `{}`)},
		{name: "missing data", event: &stripe.Event{ID: "evt_1", Type: "checkout.session.completed"}},
		{name: "invalid session json", event: stripeEvent("checkout.session.completed", `{"id":`)},
		{name: "session without id", event: stripeEvent("checkout.session.completed", `{"object":"checkout.session"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewWebhookEvent(tt.event)
			assert.Nil(t, e)
			assert.True(t, ierr.IsMalformedEvent(err), "got %v", err)
		})
	}
}

func TestSessionIsPaid(t *testing.T) {
	assert.True(t, Session{PaymentStatus: "paid"}.IsPaid())
	assert.True(t, Session{PaymentStatus: "no_payment_required"}.IsPaid())
	assert.False(t, Session{PaymentStatus: "unpaid"}.IsPaid())
}
