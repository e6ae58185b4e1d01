package v1

import (
	"io"
	"net/http"

	"github.com/flexprice/connectcheckout/internal/api/dto"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/service"
	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/gin-gonic/gin"
)

// maxWebhookBodyBytes caps the body read; anything longer fails signature verification
const maxWebhookBodyBytes = 65536

type WebhookHandler struct {
	service service.WebhookService
	log     *logger.Logger
}

func NewWebhookHandler(service service.WebhookService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, log: log}
}

// @Summary Handle Stripe webhook events
// @Description Verifies the Stripe-Signature header over the raw body and fulfills completed checkout sessions
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe webhook signature"
// @Success 200 {object} dto.WebhookAckResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhook [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	// the signature covers the exact bytes, so the body is read raw and never re-encoded
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read request body").
			Mark(ierr.ErrMalformedEvent))
		return
	}

	outcome, err := h.service.HandleWebhook(c.Request.Context(), body, c.GetHeader(types.HeaderStripeSignature))
	if err != nil {
		c.Error(err)
		return
	}

	h.log.Debugw("webhook acknowledged",
		"event_id", outcome.EventID,
		"event_type", outcome.EventType,
		"action", outcome.Action,
	)

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Success: true})
}
