package router

import (
	"context"
	"errors"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/logger"
)

// ShouldRetry reports whether a failed job is worth handing back to the retry middleware.
// Jobs that can never succeed (bad payloads, validation failures) are dropped.
func ShouldRetry(logger *logger.Logger, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		logger.Debugw("not retrying cancelled job", "error", err)
		return false
	}

	if ierr.IsValidation(err) ||
		ierr.IsMalformedEvent(err) ||
		ierr.IsNotFound(err) {
		logger.Debugw("non-retryable job error", "error", err)
		return false
	}

	return true
}
