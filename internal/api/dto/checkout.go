package dto

import (
	"strings"

	"github.com/flexprice/connectcheckout/internal/domain/checkout"
	"github.com/flexprice/connectcheckout/internal/validator"
)

// CreateCheckoutSessionRequest is accepted both as JSON and as an HTML form post.
// Account is the legacy form field name and is folded into
// ConnectedAccountID by Normalize. Quantity is capped at the platform's
// per-line-item maximum.
type CreateCheckoutSessionRequest struct {
	Quantity           int64  `json:"quantity" form:"quantity" validate:"required,gt=0,lte=999999"`
	ConnectedAccountID string `json:"connectedAccountId" form:"connectedAccountId" validate:"required"`
	Account            string `json:"account,omitempty" form:"account"`
}

// Normalize trims the account fields and applies the legacy account alias
func (r *CreateCheckoutSessionRequest) Normalize() {
	r.ConnectedAccountID = strings.TrimSpace(r.ConnectedAccountID)
	r.Account = strings.TrimSpace(r.Account)
	if r.ConnectedAccountID == "" {
		r.ConnectedAccountID = r.Account
	}
}

func (r *CreateCheckoutSessionRequest) Validate() error {
	r.Normalize()
	return validator.ValidateRequest(r)
}

func (r *CreateCheckoutSessionRequest) ToCheckoutRequest() checkout.Request {
	return checkout.Request{
		Quantity:           r.Quantity,
		ConnectedAccountID: r.ConnectedAccountID,
	}
}

type CreateCheckoutSessionResponse struct {
	SessionID            string `json:"sessionId"`
	URL                  string `json:"url"`
	ApplicationFeeAmount int64  `json:"applicationFeeAmount"`
}
