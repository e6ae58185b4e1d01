package fulfillment

import (
	"testing"

	"github.com/flexprice/connectcheckout/internal/cache"
	"github.com/flexprice/connectcheckout/internal/config"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/pubsub/memory"
	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newParams(t *testing.T, cfg *config.Configuration) PipelineParams {
	log := logger.NewNoopLogger()
	return PipelineParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    cfg,
		Logger:    log,
		PubSub:    memory.NewPubSub(log),
	}
}

func TestNewPipeline(t *testing.T) {
	t.Run("sync without dedupe", func(t *testing.T) {
		p, err := NewPipeline(newParams(t, config.GetDefaultConfig()))
		require.NoError(t, err)
		assert.IsType(t, &LoggingHandler{}, p.Handler)
		assert.Nil(t, p.Consumer)
	})

	t.Run("sync with memory dedupe", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Fulfillment.Dedupe.Enabled = true
		p, err := NewPipeline(newParams(t, cfg))
		require.NoError(t, err)
		assert.IsType(t, &DedupHandler{}, p.Handler)
	})

	t.Run("sync with redis dedupe", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Fulfillment.Dedupe.Enabled = true
		cfg.Fulfillment.Dedupe.Backend = types.DedupeBackendRedis
		p, err := NewPipeline(newParams(t, cfg))
		require.NoError(t, err)
		require.IsType(t, &DedupHandler{}, p.Handler)
		assert.IsType(t, &cache.RedisCache{}, p.Handler.(*DedupHandler).store)
	})

	t.Run("unknown dedupe backend", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Fulfillment.Dedupe.Enabled = true
		cfg.Fulfillment.Dedupe.Backend = "memcached"
		_, err := NewPipeline(newParams(t, cfg))
		assert.Error(t, err)
	})

	t.Run("queue mode", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Fulfillment.Mode = types.FulfillmentModeQueue
		p, err := NewPipeline(newParams(t, cfg))
		require.NoError(t, err)
		assert.IsType(t, &QueuedHandler{}, p.Handler)
		require.NotNil(t, p.Consumer)
		assert.IsType(t, &LoggingHandler{}, p.Consumer.next)
	})

	t.Run("invalid mode", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Fulfillment.Mode = "carrier-pigeon"
		_, err := NewPipeline(newParams(t, cfg))
		assert.Error(t, err)
	})
}
