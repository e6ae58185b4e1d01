package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID          ContextKey = "ctx_request_id"
	CtxClientRequestID    ContextKey = "ctx_client_request_id"
	CtxConnectedAccountID ContextKey = "ctx_connected_account_id"
)

const (
	HeaderRequestID       = "X-Request-ID"
	HeaderStripeSignature = "Stripe-Signature"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

// GetClientRequestID returns the request id only when the caller supplied it
func GetClientRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxClientRequestID).(string); ok {
		return requestID
	}
	return ""
}

func SetClientRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxClientRequestID, requestID)
}

func GetConnectedAccountID(ctx context.Context) string {
	if accountID, ok := ctx.Value(CtxConnectedAccountID).(string); ok {
		return accountID
	}
	return ""
}

// SetConnectedAccountID sets the connected account the current operation acts on behalf of
func SetConnectedAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, CtxConnectedAccountID, accountID)
}
