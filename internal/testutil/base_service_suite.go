package testutil

import (
	"context"

	"github.com/flexprice/connectcheckout/internal/config"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/sentry"
	"github.com/stretchr/testify/suite"
)

const TestWebhookSecret = "whsec_test_secret"

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	config      *config.Configuration
	logger      *logger.Logger
	sentry      *sentry.Service
	platform    *InMemoryPaymentPlatform
	fulfillment *RecordingFulfillmentHandler
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.logger = logger.NewNoopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()

	s.config = config.GetDefaultConfig()
	s.config.Stripe.PublishableKey = "pk_test_123"
	s.config.Stripe.WebhookSecret = TestWebhookSecret

	s.sentry = sentry.NewSentryService(s.config, s.logger)
	s.platform = NewInMemoryPaymentPlatform()
	s.fulfillment = NewRecordingFulfillmentHandler()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

func (s *BaseServiceTestSuite) GetPaymentPlatform() *InMemoryPaymentPlatform {
	return s.platform
}

func (s *BaseServiceTestSuite) GetFulfillment() *RecordingFulfillmentHandler {
	return s.fulfillment
}
