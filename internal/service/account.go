package service

import (
	"context"
	"strings"

	"github.com/flexprice/connectcheckout/internal/api/dto"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/interfaces"
	"github.com/samber/lo"
)

type AccountService interface {
	GetConfig(ctx context.Context) (*dto.ConfigResponse, error)
	CreateDashboardLink(ctx context.Context, accountID string) (*dto.DashboardLinkResponse, error)
}

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{ServiceParams: params}
}

// GetConfig returns what the storefront needs to render: the connected
// accounts buyers can pay, the publishable key and the unit price.
func (s *accountService) GetConfig(ctx context.Context) (*dto.ConfigResponse, error) {
	accounts, err := s.PaymentPlatform.ListConnectedAccounts(ctx, s.Config.Stripe.AccountListLimit)
	if err != nil {
		return nil, err
	}

	accounts = lo.Filter(accounts, func(a *interfaces.ConnectedAccount, _ int) bool {
		return a != nil && a.ID != ""
	})

	return &dto.ConfigResponse{
		Accounts:  accounts,
		PublicKey: s.Config.Stripe.PublishableKey,
		BasePrice: s.Config.Checkout.BasePrice,
		Currency:  s.Config.Checkout.Currency,
	}, nil
}

func (s *accountService) CreateDashboardLink(ctx context.Context, accountID string) (*dto.DashboardLinkResponse, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ierr.NewError("account id is required").
			WithHint("account_id is required").
			Mark(ierr.ErrValidation)
	}

	link, err := s.PaymentPlatform.CreateLoginLink(ctx, accountID)
	if err != nil {
		s.Logger.Errorw("failed to create dashboard login link",
			"error", err,
			"connected_account_id", accountID,
		)
		return nil, err
	}

	return &dto.DashboardLinkResponse{URL: link.URL}, nil
}
