package dto

import "github.com/flexprice/connectcheckout/internal/interfaces"

type ConfigResponse struct {
	Accounts  []*interfaces.ConnectedAccount `json:"accounts"`
	PublicKey string                         `json:"publicKey"`
	BasePrice int64                          `json:"basePrice"`
	Currency  string                         `json:"currency"`
}

type DashboardLinkRequest struct {
	AccountID string `form:"account_id" validate:"required"`
}

type DashboardLinkResponse struct {
	URL string `json:"url"`
}
