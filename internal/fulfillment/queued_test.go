package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/connectcheckout/internal/config"
	"github.com/flexprice/connectcheckout/internal/domain/checkout"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/pubsub/memory"
	pubsubRouter "github.com/flexprice/connectcheckout/internal/pubsub/router"
	"github.com/flexprice/connectcheckout/internal/sentry"
	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "checkout_fulfillment_test"

func TestQueuedHandlerPublishesJob(t *testing.T) {
	log := logger.NewNoopLogger()
	ps := memory.NewPubSub(log)
	defer ps.Close()

	messages, err := ps.Subscribe(context.Background(), testTopic)
	require.NoError(t, err)

	h := NewQueuedHandler(ps, testTopic, log)
	ctx := types.SetRequestID(context.Background(), "req_1")
	session := checkout.Session{ID: "cs_test_1", AmountTotal: 3000, Currency: "usd"}

	require.NoError(t, h.Fulfill(ctx, "acct_1", session))

	select {
	case msg := <-messages:
		var job Job
		require.NoError(t, json.Unmarshal(msg.Payload, &job))
		assert.Equal(t, msg.UUID, job.ID)
		assert.Contains(t, job.ID, types.UUID_PREFIX_FULFILLMENT_JOB+"_")
		assert.Equal(t, "acct_1", job.ConnectedAccountID)
		assert.Equal(t, "cs_test_1", job.Session.ID)
		assert.Equal(t, "req_1", job.RequestID)
		assert.Equal(t, "cs_test_1", msg.Metadata.Get("session_id"))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no job published")
	}
}

func TestAckedJobsAreNotRedelivered(t *testing.T) {
	log := logger.NewNoopLogger()
	ps := memory.NewPubSub(log)
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := ps.Subscribe(ctx, testTopic)
	require.NoError(t, err)

	h := NewQueuedHandler(ps, testTopic, log)
	for _, id := range []string{"cs_1", "cs_2", "cs_3"} {
		require.NoError(t, h.Fulfill(context.Background(), "acct_1", checkout.Session{ID: id}))
	}

	for i := 0; i < 3; i++ {
		select {
		case msg := <-first:
			msg.Ack()
		case <-time.After(2 * time.Second):
			t.Fatalf("job %d not delivered", i)
		}
	}

	second, err := ps.Subscribe(ctx, testTopic)
	require.NoError(t, err)

	select {
	case msg := <-second:
		t.Fatalf("acked job %s delivered again", msg.UUID)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConsumerProcessMessage(t *testing.T) {
	log := logger.NewNoopLogger()
	job := Job{ID: "fjob_1", ConnectedAccountID: "acct_1", Session: checkout.Session{ID: "cs_1"}, RequestID: "req_9"}
	payload, err := json.Marshal(job)
	require.NoError(t, err)

	t.Run("delivers job to handler", func(t *testing.T) {
		var gotAccount, gotRequest string
		c := NewConsumer(nil, testTopic, HandlerFunc(func(ctx context.Context, acct string, s checkout.Session) error {
			gotAccount = acct
			gotRequest = types.GetRequestID(ctx)
			return nil
		}), log)

		assert.NoError(t, c.processMessage(message.NewMessage("m1", payload)))
		assert.Equal(t, "acct_1", gotAccount)
		assert.Equal(t, "req_9", gotRequest)
	})

	t.Run("drops undecodable payload", func(t *testing.T) {
		called := false
		c := NewConsumer(nil, testTopic, HandlerFunc(func(context.Context, string, checkout.Session) error {
			called = true
			return nil
		}), log)

		assert.NoError(t, c.processMessage(message.NewMessage("m2", []byte("not json"))))
		assert.False(t, called)
	})

	t.Run("drops non retryable failure", func(t *testing.T) {
		c := NewConsumer(nil, testTopic, HandlerFunc(func(context.Context, string, checkout.Session) error {
			return ierr.NewError("bad session").Mark(ierr.ErrValidation)
		}), log)

		assert.NoError(t, c.processMessage(message.NewMessage("m3", payload)))
	})

	t.Run("returns retryable failure", func(t *testing.T) {
		c := NewConsumer(nil, testTopic, HandlerFunc(func(context.Context, string, checkout.Session) error {
			return errors.New("temporarily unavailable")
		}), log)

		assert.Error(t, c.processMessage(message.NewMessage("m4", payload)))
	})
}

func TestQueuedFulfillmentThroughRouter(t *testing.T) {
	log := logger.NewNoopLogger()
	cfg := config.GetDefaultConfig()
	cfg.Fulfillment.Retry.MaxRetries = 0

	ps := memory.NewPubSub(log)
	router, err := pubsubRouter.NewRouter(cfg, log, sentry.NewSentryService(cfg, log))
	require.NoError(t, err)

	delivered := make(chan string, 1)
	consumer := NewConsumer(ps, testTopic, HandlerFunc(func(_ context.Context, acct string, s checkout.Session) error {
		delivered <- acct + "/" + s.ID
		return nil
	}), log)
	consumer.RegisterHandler(router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = router.Run(ctx)
	}()
	defer router.Close()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	h := NewQueuedHandler(ps, testTopic, log)
	require.NoError(t, h.Fulfill(context.Background(), "acct_7", checkout.Session{ID: "cs_7"}))

	select {
	case got := <-delivered:
		assert.Equal(t, "acct_7/cs_7", got)
	case <-time.After(5 * time.Second):
		t.Fatal("job was not consumed")
	}
}
