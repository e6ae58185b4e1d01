package dto

import "github.com/flexprice/connectcheckout/internal/types"

// DispatchOutcome records what happened to a verified webhook event
type DispatchOutcome struct {
	EventID   string                  `json:"event_id"`
	EventType string                  `json:"event_type"`
	Kind      types.CheckoutEventKind `json:"kind"`
	Action    types.DispatchAction    `json:"action"`
}

// WebhookAckResponse is returned for every verified webhook delivery
type WebhookAckResponse struct {
	Success bool `json:"success"`
}
