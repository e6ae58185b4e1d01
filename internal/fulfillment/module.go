package fulfillment

import (
	"github.com/flexprice/connectcheckout/internal/cache"
	"github.com/flexprice/connectcheckout/internal/config"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/pubsub"
	rdb "github.com/flexprice/connectcheckout/internal/redis"
	"github.com/flexprice/connectcheckout/internal/types"
	"go.uber.org/fx"
)

// Pipeline is the fulfillment chain built from configuration.
// Handler is what the webhook dispatcher calls; Consumer is nil unless
// fulfillment runs from the pubsub router.
type Pipeline struct {
	Handler  Handler
	Consumer *Consumer
}

type PipelineParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Configuration
	Logger    *logger.Logger
	PubSub    pubsub.PubSub
}

// Module provides the fulfillment pipeline and the Handler it exposes
var Module = fx.Options(
	fx.Provide(
		NewPipeline,
		func(p *Pipeline) Handler { return p.Handler },
	),
)

func NewPipeline(p PipelineParams) (*Pipeline, error) {
	cfg := p.Config.Fulfillment

	var handler Handler = NewLoggingHandler(p.Logger)

	if cfg.Dedupe.Enabled {
		store, err := newDedupeStore(p.Lifecycle, p.Config, p.Logger)
		if err != nil {
			return nil, err
		}
		handler = NewDedupHandler(handler, store, cfg.Dedupe.Window, p.Logger)
	}

	if err := cfg.Mode.Validate(); err != nil {
		return nil, err
	}

	p.Logger.Infow("fulfillment pipeline configured",
		"mode", cfg.Mode,
		"dedupe_enabled", cfg.Dedupe.Enabled,
		"dedupe_backend", cfg.Dedupe.Backend,
	)

	if cfg.Mode == types.FulfillmentModeSync {
		return &Pipeline{Handler: handler}, nil
	}

	return &Pipeline{
		Handler:  NewQueuedHandler(p.PubSub, cfg.Topic, p.Logger),
		Consumer: NewConsumer(p.PubSub, cfg.Topic, handler, p.Logger),
	}, nil
}

func newDedupeStore(lc fx.Lifecycle, cfg *config.Configuration, logger *logger.Logger) (cache.Cache, error) {
	backend := cfg.Fulfillment.Dedupe.Backend
	if err := backend.Validate(); err != nil {
		return nil, err
	}

	if backend == types.DedupeBackendRedis {
		client := rdb.NewClient(cfg, logger)
		rdb.RegisterHooks(lc, client)
		return cache.NewRedisCache(client.Client, logger), nil
	}

	return cache.NewInMemoryCache(), nil
}
