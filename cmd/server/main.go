package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/flexprice/connectcheckout/internal/api"
	v1 "github.com/flexprice/connectcheckout/internal/api/v1"
	"github.com/flexprice/connectcheckout/internal/config"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/fulfillment"
	"github.com/flexprice/connectcheckout/internal/integration/stripe"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/pubsub/memory"
	pubsubRouter "github.com/flexprice/connectcheckout/internal/pubsub/router"
	"github.com/flexprice/connectcheckout/internal/pyroscope"
	"github.com/flexprice/connectcheckout/internal/sentry"
	"github.com/flexprice/connectcheckout/internal/service"
	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/flexprice/connectcheckout/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,

			// Payment platform
			stripe.NewClient,

			// PubSub
			memory.NewPubSub,
			pubsubRouter.NewRouter,
		),
		sentry.Module(),
		pyroscope.Module(),
		fulfillment.Module,
	)

	// Services
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewCheckoutService,
			service.NewAccountService,
			service.NewWebhookService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	checkoutService service.CheckoutService,
	accountService service.AccountService,
	webhookService service.WebhookService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(),
		Config:    v1.NewConfigHandler(accountService, logger),
		Checkout:  v1.NewCheckoutHandler(checkoutService, logger),
		Dashboard: v1.NewDashboardHandler(accountService, logger),
		Webhook:   v1.NewWebhookHandler(webhookService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Logging.Level != types.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	pipeline *fulfillment.Pipeline,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	// hooks run in order: the consumer must be subscribed before webhooks are served
	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startMessageRouter(lc, router, pipeline, log)
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startMessageRouter(lc, router, pipeline, log)
		startAWSLambdaAPI(lc, r, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address, "static_dir", cfg.Server.StaticDir)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startAWSLambdaAPI(lc fx.Lifecycle, r *gin.Engine, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting AWS Lambda API handler")
			ginLambda := ginadapter.New(r)
			go lambda.Start(ginLambda.ProxyWithContext)
			return nil
		},
	})
}

// startMessageRouter runs the pubsub router when fulfillment is queued.
// OnStart returns only once the consumer is subscribed, since queued jobs
// published before that are dropped.
func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	pipeline *fulfillment.Pipeline,
	logger *logger.Logger,
) {
	if pipeline.Consumer == nil {
		return
	}

	// Register handlers before starting the router
	pipeline.Consumer.RegisterHandler(router)

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting message router")
			go func() {
				if err := router.Run(runCtx); err != nil {
					logger.Errorw("message router failed", "error", err)
				}
			}()

			select {
			case <-router.Running():
				logger.Info("message router running")
				return nil
			case <-ctx.Done():
				cancel()
				return ierr.WithError(ctx.Err()).
					WithHint("Message router did not start").
					Mark(ierr.ErrSystem)
			}
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping message router")
			cancel()
			return router.Close()
		},
	})
}
