package service

import (
	"errors"
	"net/http"
	"testing"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/testutil"
	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/stretchr/testify/suite"
)

type WebhookServiceSuite struct {
	testutil.BaseServiceTestSuite
	service WebhookService
}

func TestWebhookService(t *testing.T) {
	suite.Run(t, new(WebhookServiceSuite))
}

func (s *WebhookServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = s.newService()
}

func (s *WebhookServiceSuite) newService() WebhookService {
	return NewWebhookService(NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetSentry(),
		s.GetPaymentPlatform(),
		s.GetFulfillment(),
	))
}

func (s *WebhookServiceSuite) signed(payload []byte) string {
	return testutil.SignWebhookPayload(payload, testutil.TestWebhookSecret)
}

func (s *WebhookServiceSuite) TestCompletedSessionIsFulfilled() {
	payload := testutil.CheckoutEventPayload("evt_1", types.WebhookEventTypeCheckoutSessionCompleted, "acct_1", "cs_1")

	outcome, err := s.service.HandleWebhook(s.GetContext(), payload, s.signed(payload))
	s.Require().NoError(err)
	s.Equal("evt_1", outcome.EventID)
	s.Equal(types.CheckoutEventKindSessionCompleted, outcome.Kind)
	s.Equal(types.DispatchActionFulfilled, outcome.Action)

	calls := s.GetFulfillment().Calls()
	s.Require().Len(calls, 1)
	s.Equal("acct_1", calls[0].ConnectedAccountID)
	s.Equal("cs_1", calls[0].Session.ID)
	s.Equal("paid", calls[0].Session.PaymentStatus)
	s.Equal(int64(3000), calls[0].Session.AmountTotal)
}

func (s *WebhookServiceSuite) TestAsyncPaymentSucceededIsFulfilled() {
	payload := testutil.CheckoutEventPayload("evt_2", types.WebhookEventTypeCheckoutSessionAsyncPaymentSucceeded, "acct_2", "cs_2")

	outcome, err := s.service.HandleWebhook(s.GetContext(), payload, s.signed(payload))
	s.Require().NoError(err)
	s.Equal(types.CheckoutEventKindAsyncPaymentSucceeded, outcome.Kind)
	s.Equal(types.DispatchActionFulfilled, outcome.Action)
	s.Len(s.GetFulfillment().Calls(), 1)
}

func (s *WebhookServiceSuite) TestOtherEventsAreAcknowledgedAndIgnored() {
	for _, eventType := range []string{"checkout.session.expired", "payment_intent.succeeded", "account.updated"} {
		payload := testutil.CheckoutEventPayload("evt_other", eventType, "acct_1", "cs_1")

		outcome, err := s.service.HandleWebhook(s.GetContext(), payload, s.signed(payload))
		s.Require().NoError(err, eventType)
		s.Equal(types.CheckoutEventKindOther, outcome.Kind)
		s.Equal(types.DispatchActionIgnored, outcome.Action)
	}
	s.Empty(s.GetFulfillment().Calls())
}

func (s *WebhookServiceSuite) TestForgedSignatureNeverFulfills() {
	payload := testutil.CheckoutEventPayload("evt_1", types.WebhookEventTypeCheckoutSessionCompleted, "acct_1", "cs_1")

	tests := []struct {
		name      string
		payload   []byte
		signature string
	}{
		{name: "wrong secret", payload: payload, signature: testutil.SignWebhookPayload(payload, "whsec_attacker")},
		{name: "tampered body", payload: append(append([]byte(nil), payload...), ' '), signature: s.signed(payload)},
		{name: "garbage header", payload: payload, signature: "t=1,v1=deadbeef"},
		{name: "missing header", payload: payload, signature: ""},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			outcome, err := s.service.HandleWebhook(s.GetContext(), tt.payload, tt.signature)
			s.Nil(outcome)
			s.True(ierr.IsUnauthenticated(err), "got %v", err)
			s.NotContains(err.Error(), testutil.TestWebhookSecret)
		})
	}
	s.Empty(s.GetFulfillment().Calls())
}

func (s *WebhookServiceSuite) TestVerificationErrorsCarryOnlyUnauthenticated() {
	s.GetPaymentPlatform().ParseErr = ierr.NewError("stripe unreachable").Mark(ierr.ErrUpstream)
	payload := testutil.CheckoutEventPayload("evt_1", types.WebhookEventTypeCheckoutSessionCompleted, "acct_1", "cs_1")

	outcome, err := s.service.HandleWebhook(s.GetContext(), payload, s.signed(payload))
	s.Nil(outcome)
	s.True(ierr.IsUnauthenticated(err))
	s.False(ierr.IsUpstream(err))
	s.Equal(http.StatusBadRequest, ierr.HTTPStatusFromErr(err))
	s.Empty(s.GetFulfillment().Calls())
}

func (s *WebhookServiceSuite) TestMissingSecretRejectsEverything() {
	s.GetConfig().Stripe.WebhookSecret = ""
	svc := s.newService()
	payload := testutil.CheckoutEventPayload("evt_1", types.WebhookEventTypeCheckoutSessionCompleted, "acct_1", "cs_1")

	outcome, err := svc.HandleWebhook(s.GetContext(), payload, s.signed(payload))
	s.Nil(outcome)
	s.True(ierr.IsUnauthenticated(err))
	s.Empty(s.GetFulfillment().Calls())
}

func (s *WebhookServiceSuite) TestVerifiedButMalformedSession() {
	payload := []byte(`{"id":"evt_bad","object":"event","type":"checkout.session.completed","account":"acct_1","created":1700000000,"data":{"object":{"object":"checkout.session"}}}`)

	outcome, err := s.service.HandleWebhook(s.GetContext(), payload, s.signed(payload))
	s.Nil(outcome)
	s.True(ierr.IsMalformedEvent(err), "got %v", err)
	s.Empty(s.GetFulfillment().Calls())
}

func (s *WebhookServiceSuite) TestRedeliveryFulfillsAgain() {
	payload := testutil.CheckoutEventPayload("evt_1", types.WebhookEventTypeCheckoutSessionCompleted, "acct_1", "cs_1")

	for i := 0; i < 2; i++ {
		outcome, err := s.service.HandleWebhook(s.GetContext(), payload, s.signed(payload))
		s.Require().NoError(err)
		s.Equal(types.DispatchActionFulfilled, outcome.Action)
	}
	s.Len(s.GetFulfillment().Calls(), 2)
}

func (s *WebhookServiceSuite) TestFulfillmentFailureIsStillAcknowledged() {
	s.GetFulfillment().Err = errors.New("warehouse offline")
	payload := testutil.CheckoutEventPayload("evt_1", types.WebhookEventTypeCheckoutSessionCompleted, "acct_1", "cs_1")

	outcome, err := s.service.HandleWebhook(s.GetContext(), payload, s.signed(payload))
	s.Require().NoError(err)
	s.Equal(types.DispatchActionFulfillmentFailed, outcome.Action)
	s.Len(s.GetFulfillment().Calls(), 1)
}
