package fulfillment

import (
	"context"
	"time"

	"github.com/flexprice/connectcheckout/internal/cache"
	"github.com/flexprice/connectcheckout/internal/domain/checkout"
	"github.com/flexprice/connectcheckout/internal/logger"
)

// DedupHandler suppresses repeat fulfillment of a session within a window.
// A session is claimed before the wrapped handler runs and released again if
// that handler fails, so a later redelivery can retry it.
type DedupHandler struct {
	next   Handler
	store  cache.Cache
	window time.Duration
	logger *logger.Logger
}

func NewDedupHandler(next Handler, store cache.Cache, window time.Duration, logger *logger.Logger) *DedupHandler {
	return &DedupHandler{
		next:   next,
		store:  store,
		window: window,
		logger: logger,
	}
}

func (h *DedupHandler) Fulfill(ctx context.Context, connectedAccountID string, session checkout.Session) error {
	key := cache.GenerateKey(cache.PrefixFulfilledSession, connectedAccountID, session.ID)

	if !h.store.SetIfAbsent(ctx, key, time.Now().UTC().Format(time.RFC3339), h.window) {
		h.logger.Infow("skipping already fulfilled checkout session",
			"connected_account_id", connectedAccountID,
			"session_id", session.ID,
		)
		return nil
	}

	if err := h.next.Fulfill(ctx, connectedAccountID, session); err != nil {
		h.store.Delete(ctx, key)
		return err
	}

	return nil
}
