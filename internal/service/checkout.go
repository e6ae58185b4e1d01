package service

import (
	"context"

	"github.com/flexprice/connectcheckout/internal/api/dto"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/idempotency"
	"github.com/flexprice/connectcheckout/internal/interfaces"
	"github.com/flexprice/connectcheckout/internal/types"
)

const (
	successPath = "/success.html?session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/canceled.html"
)

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, req dto.CreateCheckoutSessionRequest) (*dto.CreateCheckoutSessionResponse, error)
}

type checkoutService struct {
	ServiceParams
	fees        *FeeCalculator
	idempotency *idempotency.Generator
}

func NewCheckoutService(params ServiceParams) (CheckoutService, error) {
	rate, err := params.Config.Checkout.FeeRate()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid application fee rate").
			Mark(ierr.ErrValidation)
	}

	return &checkoutService{
		ServiceParams: params,
		fees:          NewFeeCalculator(rate),
		idempotency:   idempotency.NewGenerator(),
	}, nil
}

// CreateCheckoutSession validates the order, computes the platform fee and
// creates a hosted session as a direct charge on the connected account.
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, req dto.CreateCheckoutSessionRequest) (*dto.CreateCheckoutSessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order := req.ToCheckoutRequest()
	cfg := s.Config.Checkout
	fee, err := s.fees.Compute(cfg.BasePrice, order.Quantity)
	if err != nil {
		s.Logger.Warnw("rejected checkout order",
			"error", err,
			"connected_account_id", order.ConnectedAccountID,
			"quantity", order.Quantity,
		)
		return nil, err
	}

	ctx = types.SetConnectedAccountID(ctx, order.ConnectedAccountID)

	// a client retrying with the same X-Request-ID gets the original session back
	var idempotencyKey string
	if requestID := types.GetClientRequestID(ctx); requestID != "" {
		idempotencyKey = s.idempotency.GenerateKey(idempotency.ScopeCheckoutSession, map[string]interface{}{
			"request_id":           requestID,
			"connected_account_id": order.ConnectedAccountID,
			"quantity":             order.Quantity,
			"unit_amount":          cfg.BasePrice,
		})
	}

	s.Logger.Infow("creating checkout session",
		"request_id", types.GetRequestID(ctx),
		"connected_account_id", order.ConnectedAccountID,
		"quantity", order.Quantity,
		"unit_amount", cfg.BasePrice,
		"currency", cfg.Currency,
		"application_fee_amount", fee,
	)

	result, err := s.PaymentPlatform.CreateCheckoutSession(ctx, &interfaces.CheckoutSessionInput{
		ConnectedAccountID:   order.ConnectedAccountID,
		Quantity:             order.Quantity,
		UnitAmount:           cfg.BasePrice,
		Currency:             cfg.Currency,
		ApplicationFeeAmount: fee,
		ProductName:          cfg.ProductName,
		ProductImages:        cfg.ProductImages,
		SuccessURL:           cfg.Domain + successPath,
		CancelURL:            cfg.Domain + cancelPath,
		IdempotencyKey:       idempotencyKey,
	})
	if err != nil {
		s.Logger.Errorw("failed to create checkout session",
			"error", err,
			"connected_account_id", order.ConnectedAccountID,
		)
		return nil, err
	}

	return &dto.CreateCheckoutSessionResponse{
		SessionID:            result.ID,
		URL:                  result.URL,
		ApplicationFeeAmount: fee,
	}, nil
}
