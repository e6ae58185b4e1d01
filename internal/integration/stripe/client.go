package stripe

import (
	"context"
	"errors"
	"time"

	"github.com/flexprice/connectcheckout/internal/config"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/interfaces"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	appName    = "connectcheckout"
	appVersion = "0.1.0"
)

// Client talks to Stripe with the platform's secret key
type Client struct {
	api    *stripe.Client
	config *config.StripeConfig
	logger *logger.Logger
}

// NewClient creates a new Stripe client from the immutable configuration
func NewClient(cfg *config.Configuration, logger *logger.Logger) interfaces.PaymentPlatformClient {
	stripe.SetAppInfo(&stripe.AppInfo{
		Name:    appName,
		Version: appVersion,
	})

	if cfg.Stripe.APIVersion != "" && cfg.Stripe.APIVersion != stripe.APIVersion {
		logger.Warnw("configured Stripe API version differs from the SDK pin, webhook API version checks are skipped",
			"configured_api_version", cfg.Stripe.APIVersion,
			"sdk_api_version", stripe.APIVersion,
		)
	}

	logger.Infow("stripe client configured",
		"has_secret_key", cfg.Stripe.SecretKey != "",
		"has_publishable_key", cfg.Stripe.PublishableKey != "",
		"has_webhook_secret", cfg.Stripe.WebhookSecret != "",
		"request_timeout", cfg.Stripe.RequestTimeout,
	)

	return &Client{
		api:    stripe.NewClient(cfg.Stripe.SecretKey, nil),
		config: &cfg.Stripe,
		logger: logger,
	}
}

// CreateCheckoutSession creates a hosted payment-mode session as a direct charge on the connected account
func (c *Client) CreateCheckoutSession(ctx context.Context, input *interfaces.CheckoutSessionInput) (*interfaces.CheckoutSessionResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(input.SuccessURL),
		CancelURL:  stripe.String(input.CancelURL),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(input.Quantity),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(input.Currency),
					UnitAmount: stripe.Int64(input.UnitAmount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:   stripe.String(input.ProductName),
						Images: stripe.StringSlice(input.ProductImages),
					},
				},
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(input.ApplicationFeeAmount),
		},
	}
	params.SetStripeAccount(input.ConnectedAccountID)
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}

	session, err := c.api.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		c.logger.Errorw("failed to create Stripe checkout session",
			"error", err,
			"connected_account_id", input.ConnectedAccountID,
			"quantity", input.Quantity,
		)
		return nil, upstreamError(err, "Unable to create checkout session", map[string]any{
			"connected_account_id": input.ConnectedAccountID,
		})
	}

	c.logger.Infow("created Stripe checkout session",
		"session_id", session.ID,
		"connected_account_id", input.ConnectedAccountID,
		"quantity", input.Quantity,
		"application_fee_amount", input.ApplicationFeeAmount,
	)

	return &interfaces.CheckoutSessionResult{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// ListConnectedAccounts returns up to limit accounts connected to the platform
func (c *Client) ListConnectedAccounts(ctx context.Context, limit int64) ([]*interfaces.ConnectedAccount, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	params := &stripe.AccountListParams{}
	params.Limit = stripe.Int64(limit)

	accounts := make([]*interfaces.ConnectedAccount, 0, limit)
	for account, err := range c.api.V1Accounts.List(ctx, params) {
		if err != nil {
			c.logger.Errorw("failed to list Stripe connected accounts", "error", err)
			return nil, upstreamError(err, "Unable to list connected accounts", nil)
		}

		accounts = append(accounts, toConnectedAccount(account))
		if int64(len(accounts)) >= limit {
			break
		}
	}

	return accounts, nil
}

// CreateLoginLink creates a single-use Express dashboard link for a connected account
func (c *Client) CreateLoginLink(ctx context.Context, accountID string) (*interfaces.LoginLink, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	link, err := c.api.V1LoginLinks.Create(ctx, &stripe.LoginLinkCreateParams{
		Account: stripe.String(accountID),
	})
	if err != nil {
		c.logger.Errorw("failed to create Stripe login link",
			"error", err,
			"connected_account_id", accountID,
		)
		return nil, upstreamError(err, "Unable to create dashboard login link", map[string]any{
			"connected_account_id": accountID,
		})
	}

	return &interfaces.LoginLink{
		URL:     link.URL,
		Created: link.Created,
	}, nil
}

// ParseWebhookEvent verifies a webhook signature and decodes the event.
// API version mismatches are ignored so events keep flowing across SDK upgrades.
func (c *Client) ParseWebhookEvent(payload []byte, signature string, webhookSecret string) (*stripe.Event, error) {
	return parseWebhookEvent(payload, signature, webhookSecret, c.config.WebhookTolerance)
}

func parseWebhookEvent(payload []byte, signature string, webhookSecret string, tolerance time.Duration) (*stripe.Event, error) {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}

	options := webhook.ConstructEventOptions{
		Tolerance:                tolerance,
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, webhookSecret, options)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid webhook signature or payload").
			Mark(ierr.ErrUnauthenticated)
	}
	return &event, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.RequestTimeout)
}

// upstreamError converts an SDK failure into an error carrying the platform's message as its hint
func upstreamError(err error, fallbackHint string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}

	hint := fallbackHint
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Msg != "" {
			hint = stripeErr.Msg
		}
		details["stripe_error_type"] = string(stripeErr.Type)
		details["stripe_error_code"] = string(stripeErr.Code)
		details["stripe_request_id"] = stripeErr.RequestID
	}

	if errors.Is(err, context.DeadlineExceeded) {
		hint = "Payment platform request timed out, please retry"
		details["retryable"] = true
	}

	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(details).
		Mark(ierr.ErrUpstream)
}

func toConnectedAccount(account *stripe.Account) *interfaces.ConnectedAccount {
	ca := &interfaces.ConnectedAccount{
		ID:               account.ID,
		Type:             string(account.Type),
		Email:            account.Email,
		Country:          account.Country,
		ChargesEnabled:   account.ChargesEnabled,
		DetailsSubmitted: account.DetailsSubmitted,
	}
	if account.BusinessProfile != nil {
		ca.BusinessName = account.BusinessProfile.Name
	}
	if account.Capabilities != nil {
		ca.Capabilities.CardPayments = string(account.Capabilities.CardPayments)
	}
	return ca
}
