package fulfillment

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/connectcheckout/internal/domain/checkout"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/pubsub"
	pubsubRouter "github.com/flexprice/connectcheckout/internal/pubsub/router"
	"github.com/flexprice/connectcheckout/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Job is the message published for a queued fulfillment
type Job struct {
	ID                 string           `json:"id"`
	ConnectedAccountID string           `json:"connected_account_id"`
	Session            checkout.Session `json:"session"`
	RequestID          string           `json:"request_id,omitempty"`
	EnqueuedAt         time.Time        `json:"enqueued_at"`
}

// QueuedHandler hands fulfillment off to the pubsub router and returns as soon
// as the job is published. Errors from the eventual handler never reach the webhook.
type QueuedHandler struct {
	pubSub pubsub.Publisher
	topic  string
	logger *logger.Logger
}

func NewQueuedHandler(pubSub pubsub.Publisher, topic string, logger *logger.Logger) *QueuedHandler {
	return &QueuedHandler{
		pubSub: pubSub,
		topic:  topic,
		logger: logger,
	}
}

func (h *QueuedHandler) Fulfill(ctx context.Context, connectedAccountID string, session checkout.Session) error {
	job := Job{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FULFILLMENT_JOB),
		ConnectedAccountID: connectedAccountID,
		Session:            session,
		RequestID:          types.GetRequestID(ctx),
		EnqueuedAt:         time.Now().UTC(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode fulfillment job").
			Mark(ierr.ErrFulfillment)
	}

	msg := message.NewMessage(job.ID, payload)
	msg.Metadata.Set("connected_account_id", connectedAccountID)
	msg.Metadata.Set("session_id", session.ID)

	if err := h.pubSub.Publish(ctx, h.topic, msg); err != nil {
		h.logger.Errorw("failed to publish fulfillment job",
			"error", err,
			"job_id", job.ID,
			"session_id", session.ID,
			"topic", h.topic,
		)
		return ierr.WithError(err).
			WithHint("Failed to queue fulfillment").
			WithReportableDetails(map[string]interface{}{
				"job_id":     job.ID,
				"session_id": session.ID,
			}).
			Mark(ierr.ErrFulfillment)
	}

	h.logger.Infow("queued fulfillment job",
		"job_id", job.ID,
		"connected_account_id", connectedAccountID,
		"session_id", session.ID,
		"topic", h.topic,
	)
	return nil
}

// Consumer drains the fulfillment topic into a Handler
type Consumer struct {
	subscriber pubsub.Subscriber
	topic      string
	next       Handler
	logger     *logger.Logger
}

func NewConsumer(subscriber pubsub.Subscriber, topic string, next Handler, logger *logger.Logger) *Consumer {
	return &Consumer{
		subscriber: subscriber,
		topic:      topic,
		next:       next,
		logger:     logger,
	}
}

func (c *Consumer) RegisterHandler(router *pubsubRouter.Router) {
	router.AddNoPublishHandler(
		"checkout_fulfillment_handler",
		c.topic,
		c.subscriber,
		c.processMessage,
	)
}

func (c *Consumer) processMessage(msg *message.Message) error {
	var job Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		c.logger.Errorw("failed to unmarshal fulfillment job",
			"error", err,
			"message_uuid", msg.UUID,
		)
		return nil // Don't retry on unmarshal errors
	}

	ctx := msg.Context()
	if job.RequestID != "" {
		ctx = types.SetRequestID(ctx, job.RequestID)
	}
	ctx = types.SetConnectedAccountID(ctx, job.ConnectedAccountID)

	err := c.next.Fulfill(ctx, job.ConnectedAccountID, job.Session)
	if err == nil {
		return nil
	}

	if !pubsubRouter.ShouldRetry(c.logger, err) {
		c.logger.Errorw("dropping fulfillment job",
			"error", err,
			"job_id", job.ID,
			"session_id", job.Session.ID,
		)
		return nil
	}

	return err
}
