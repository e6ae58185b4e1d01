package fulfillment

import (
	"context"

	"github.com/flexprice/connectcheckout/internal/domain/checkout"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/types"
)

// LoggingHandler records the purchase and does nothing else.
// Replace it with a real handler to actually deliver goods.
type LoggingHandler struct {
	logger *logger.Logger
}

func NewLoggingHandler(logger *logger.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) Fulfill(ctx context.Context, connectedAccountID string, session checkout.Session) error {
	h.logger.Infow("fulfilling checkout session",
		"request_id", types.GetRequestID(ctx),
		"connected_account_id", connectedAccountID,
		"session_id", session.ID,
		"payment_status", session.PaymentStatus,
		"paid", session.IsPaid(),
		"amount_total", session.AmountTotal,
		"currency", session.Currency,
	)
	return nil
}
