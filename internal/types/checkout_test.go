package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCheckoutEventKind(t *testing.T) {
	tests := []struct {
		eventType string
		want      CheckoutEventKind
		fulfill   bool
	}{
		{"checkout.session.completed", CheckoutEventKindSessionCompleted, true},
		{"checkout.session.async_payment_succeeded", CheckoutEventKindAsyncPaymentSucceeded, true},
		{"checkout.session.async_payment_failed", CheckoutEventKindOther, false},
		{"invoice.created", CheckoutEventKindOther, false},
		{"", CheckoutEventKindOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			got := ParseCheckoutEventKind(tt.eventType)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fulfill, got.RequiresFulfillment())
		})
	}
}

func TestFulfillmentModeValidate(t *testing.T) {
	assert.NoError(t, FulfillmentModeSync.Validate())
	assert.NoError(t, FulfillmentModeQueue.Validate())
	assert.Error(t, FulfillmentMode("kafka").Validate())
}

func TestDedupeBackendValidate(t *testing.T) {
	assert.NoError(t, DedupeBackendMemory.Validate())
	assert.NoError(t, DedupeBackendRedis.Validate())
	assert.Error(t, DedupeBackend("").Validate())
}
