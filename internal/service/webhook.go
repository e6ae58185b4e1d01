package service

import (
	"context"
	"fmt"

	"github.com/flexprice/connectcheckout/internal/api/dto"
	"github.com/flexprice/connectcheckout/internal/domain/checkout"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/types"
)

type WebhookService interface {
	// HandleWebhook verifies the signature over the raw body and dispatches the event.
	// Once verified an event is always acknowledged: fulfillment failures are
	// reported through the outcome, never as an error.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.DispatchOutcome, error)
}

type webhookService struct {
	ServiceParams
}

func NewWebhookService(params ServiceParams) WebhookService {
	return &webhookService{ServiceParams: params}
}

func (s *webhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.DispatchOutcome, error) {
	secret := s.Config.Stripe.WebhookSecret

	s.Logger.Debugw("processing webhook",
		"request_id", types.GetRequestID(ctx),
		"has_signature_header", signature != "",
		"secret_configured", secret != "",
		"payload_length", len(payload),
	)

	if secret == "" {
		s.Logger.Errorw("webhook secret not configured, rejecting delivery")
		return nil, ierr.NewError("webhook secret not configured").
			WithHint("Webhook secret not configured").
			Mark(ierr.ErrUnauthenticated)
	}

	if signature == "" {
		return nil, ierr.NewError("missing signature header").
			WithHint("Missing Stripe-Signature header").
			Mark(ierr.ErrUnauthenticated)
	}

	event, err := s.PaymentPlatform.ParseWebhookEvent(payload, signature, secret)
	if err != nil {
		s.Logger.Warnw("failed to verify webhook signature",
			"error", err,
			"payload_length", len(payload),
		)
		if ierr.IsUnauthenticated(err) && !ierr.IsUpstream(err) {
			return nil, err
		}
		// only the unauthenticated mark may reach the response
		return nil, ierr.NewError(fmt.Sprintf("webhook verification failed: %s", err.Error())).
			WithHint("Failed to verify webhook signature").
			Mark(ierr.ErrUnauthenticated)
	}

	webhookEvent, err := checkout.NewWebhookEvent(event)
	if err != nil {
		s.Logger.Warnw("failed to decode verified webhook event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return nil, err
	}

	return s.dispatch(ctx, webhookEvent), nil
}

// dispatch calls the fulfillment handler once for every completion event.
// Repeat deliveries of the same event are fulfilled again.
func (s *webhookService) dispatch(ctx context.Context, event *checkout.WebhookEvent) *dto.DispatchOutcome {
	outcome := &dto.DispatchOutcome{
		EventID:   event.ID,
		EventType: event.Type,
		Kind:      event.Kind,
		Action:    types.DispatchActionIgnored,
	}

	switch event.Kind {
	case types.CheckoutEventKindSessionCompleted, types.CheckoutEventKindAsyncPaymentSucceeded:
	default:
		s.Logger.Debugw("ignoring webhook event",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return outcome
	}

	ctx = types.SetConnectedAccountID(ctx, event.ConnectedAccountID)

	s.Sentry.AddBreadcrumb("webhook", "fulfilling checkout session", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"session_id": event.Session.ID,
	})

	if err := s.Fulfillment.Fulfill(ctx, event.ConnectedAccountID, *event.Session); err != nil {
		s.Logger.Errorw("fulfillment failed, acknowledging webhook anyway",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type,
			"connected_account_id", event.ConnectedAccountID,
			"session_id", event.Session.ID,
		)
		s.Sentry.CaptureExceptionWithTags(err, map[string]string{
			"event_type": event.Type,
			"event_id":   event.ID,
		})
		outcome.Action = types.DispatchActionFulfillmentFailed
		return outcome
	}

	s.Logger.Infow("webhook event fulfilled",
		"event_id", event.ID,
		"event_type", event.Type,
		"connected_account_id", event.ConnectedAccountID,
		"session_id", event.Session.ID,
	)
	outcome.Action = types.DispatchActionFulfilled
	return outcome
}
