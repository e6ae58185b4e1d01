package service

import (
	"github.com/flexprice/connectcheckout/internal/config"
	"github.com/flexprice/connectcheckout/internal/fulfillment"
	"github.com/flexprice/connectcheckout/internal/interfaces"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Sentry *sentry.Service

	PaymentPlatform interfaces.PaymentPlatformClient
	Fulfillment     fulfillment.Handler
}

func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	sentry *sentry.Service,
	paymentPlatform interfaces.PaymentPlatformClient,
	fulfillmentHandler fulfillment.Handler,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		Sentry:          sentry,
		PaymentPlatform: paymentPlatform,
		Fulfillment:     fulfillmentHandler,
	}
}
