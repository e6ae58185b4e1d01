package types

import (
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/samber/lo"
)

// CheckoutEventKind classifies a verified webhook event by what the dispatcher does with it.
// Every wire type the dispatcher does not act on decodes to CheckoutEventKindOther.
type CheckoutEventKind string

const (
	CheckoutEventKindSessionCompleted      CheckoutEventKind = "session_completed"
	CheckoutEventKindAsyncPaymentSucceeded CheckoutEventKind = "async_payment_succeeded"
	CheckoutEventKindOther                 CheckoutEventKind = "other"
)

// Wire event types sent by the payment platform
const (
	WebhookEventTypeCheckoutSessionCompleted             = "checkout.session.completed"
	WebhookEventTypeCheckoutSessionAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// ParseCheckoutEventKind decodes a wire event type. It never fails.
func ParseCheckoutEventKind(eventType string) CheckoutEventKind {
	switch eventType {
	case WebhookEventTypeCheckoutSessionCompleted:
		return CheckoutEventKindSessionCompleted
	case WebhookEventTypeCheckoutSessionAsyncPaymentSucceeded:
		return CheckoutEventKindAsyncPaymentSucceeded
	default:
		return CheckoutEventKindOther
	}
}

func (k CheckoutEventKind) String() string {
	return string(k)
}

// RequiresFulfillment reports whether events of this kind complete a purchase
func (k CheckoutEventKind) RequiresFulfillment() bool {
	return k == CheckoutEventKindSessionCompleted || k == CheckoutEventKindAsyncPaymentSucceeded
}

// DispatchAction records what the dispatcher did with a verified event
type DispatchAction string

const (
	DispatchActionFulfilled         DispatchAction = "fulfilled"
	DispatchActionIgnored           DispatchAction = "ignored"
	DispatchActionFulfillmentFailed DispatchAction = "fulfillment_failed"
)

func (a DispatchAction) String() string {
	return string(a)
}

// FulfillmentMode selects how fulfillment runs after a verified event
type FulfillmentMode string

const (
	// FulfillmentModeSync runs the fulfillment handler inside the webhook request
	FulfillmentModeSync FulfillmentMode = "sync"
	// FulfillmentModeQueue publishes a job and runs the handler from the pubsub router
	FulfillmentModeQueue FulfillmentMode = "queue"
)

func (m FulfillmentMode) Validate() error {
	allowed := []FulfillmentMode{
		FulfillmentModeSync,
		FulfillmentModeQueue,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid fulfillment mode").
			WithHintf("Fulfillment mode must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DedupeBackend selects the store used to suppress repeated fulfillment
type DedupeBackend string

const (
	DedupeBackendMemory DedupeBackend = "memory"
	DedupeBackendRedis  DedupeBackend = "redis"
)

func (b DedupeBackend) Validate() error {
	allowed := []DedupeBackend{
		DedupeBackendMemory,
		DedupeBackendRedis,
	}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid dedupe backend").
			WithHintf("Dedupe backend must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}
