package service

import (
	"errors"
	"fmt"
	"testing"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/interfaces"
	"github.com/flexprice/connectcheckout/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type AccountServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AccountService
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAccountService(NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetSentry(),
		s.GetPaymentPlatform(),
		s.GetFulfillment(),
	))
}

func (s *AccountServiceSuite) TestGetConfig() {
	for i := 0; i < 12; i++ {
		s.GetPaymentPlatform().Accounts = append(s.GetPaymentPlatform().Accounts, &interfaces.ConnectedAccount{
			ID:   fmt.Sprintf("acct_%d", i),
			Type: "express",
		})
	}

	resp, err := s.service.GetConfig(s.GetContext())
	s.Require().NoError(err)
	s.Len(resp.Accounts, 10)
	s.Equal("acct_0", resp.Accounts[0].ID)
	s.Equal("pk_test_123", resp.PublicKey)
	s.Equal(int64(1000), resp.BasePrice)
	s.Equal("usd", resp.Currency)
}

func (s *AccountServiceSuite) TestGetConfigUpstreamFailure() {
	s.GetPaymentPlatform().Err = ierr.WithError(errors.New("invalid api key")).Mark(ierr.ErrUpstream)

	resp, err := s.service.GetConfig(s.GetContext())
	s.Nil(resp)
	s.True(ierr.IsUpstream(err))
}

func (s *AccountServiceSuite) TestCreateDashboardLink() {
	resp, err := s.service.CreateDashboardLink(s.GetContext(), "acct_1")
	s.Require().NoError(err)
	s.Equal("https://connect.stripe.com/express/acct_1", resp.URL)
	s.Equal([]string{"acct_1"}, s.GetPaymentPlatform().LoginLinkCalls)
}

func (s *AccountServiceSuite) TestCreateDashboardLinkRequiresAccount() {
	resp, err := s.service.CreateDashboardLink(s.GetContext(), "  ")
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
	s.Empty(s.GetPaymentPlatform().LoginLinkCalls)
}
