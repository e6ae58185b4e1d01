package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/connectcheckout/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment  DeploymentConfig  `mapstructure:"deployment" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Logging     LoggingConfig     `mapstructure:"logging" validate:"required"`
	Stripe      StripeConfig      `mapstructure:"stripe" validate:"required"`
	Checkout    CheckoutConfig    `mapstructure:"checkout" validate:"required"`
	Fulfillment FulfillmentConfig `mapstructure:"fulfillment" validate:"required"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Pyroscope   PyroscopeConfig   `mapstructure:"pyroscope"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address   string `mapstructure:"address" validate:"required"`
	StaticDir string `mapstructure:"static_dir"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

// StripeConfig holds the platform account credentials. None of these values may be logged.
type StripeConfig struct {
	SecretKey        string        `mapstructure:"secret_key"`
	PublishableKey   string        `mapstructure:"publishable_key"`
	WebhookSecret    string        `mapstructure:"webhook_secret"`
	APIVersion       string        `mapstructure:"api_version"`
	WebhookTolerance time.Duration `mapstructure:"webhook_tolerance"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" validate:"required"`
	AccountListLimit int64         `mapstructure:"account_list_limit" validate:"gt=0,lte=100"`
}

type CheckoutConfig struct {
	BasePrice          int64    `mapstructure:"base_price" validate:"gte=0"`
	Currency           string   `mapstructure:"currency" validate:"required"`
	Domain             string   `mapstructure:"domain" validate:"required"`
	ProductName        string   `mapstructure:"product_name" validate:"required"`
	ProductImages      []string `mapstructure:"product_images"`
	ApplicationFeeRate string   `mapstructure:"application_fee_rate" validate:"required"`
}

type FulfillmentConfig struct {
	Mode   types.FulfillmentMode `mapstructure:"mode" validate:"required"`
	Topic  string                `mapstructure:"topic"`
	Retry  RetryConfig           `mapstructure:"retry"`
	Dedupe DedupeConfig          `mapstructure:"dedupe"`
}

type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type DedupeConfig struct {
	Enabled bool                `mapstructure:"enabled"`
	Backend types.DedupeBackend `mapstructure:"backend"`
	Window  time.Duration       `mapstructure:"window"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_password"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	DisableGCRuns   bool     `mapstructure:"disable_gc_runs"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

// legacyEnv maps config keys to the variable names used by the sample .env file
var legacyEnv = map[string]string{
	"stripe.secret_key":      "STRIPE_SECRET_KEY",
	"stripe.publishable_key": "STRIPE_PUBLISHABLE_KEY",
	"stripe.webhook_secret":  "STRIPE_WEBHOOK_SECRET",
	"stripe.api_version":     "STRIPE_API_VERSION",
	"checkout.base_price":    "BASE_PRICE",
	"checkout.currency":      "CURRENCY",
	"checkout.domain":        "DOMAIN",
	"server.static_dir":      "STATIC_DIR",
}

func NewConfig() (*Configuration, error) {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/connectcheckout")

	v.SetEnvPrefix("CONNECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	for key, legacy := range legacyEnv {
		envKey := "CONNECT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":4242")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("logging.level", types.LogLevelInfo)

	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.publishable_key", "")
	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.api_version", "")
	v.SetDefault("stripe.webhook_tolerance", 5*time.Minute)
	v.SetDefault("stripe.request_timeout", 30*time.Second)
	v.SetDefault("stripe.account_list_limit", 10)

	v.SetDefault("checkout.base_price", 1000)
	v.SetDefault("checkout.currency", "usd")
	v.SetDefault("checkout.domain", "http://localhost:4242")
	v.SetDefault("checkout.product_name", "Guitar lesson")
	v.SetDefault("checkout.product_images", []string{"https://i.ibb.co/2PNy7yB/guitar.png"})
	v.SetDefault("checkout.application_fee_rate", "0.10")

	v.SetDefault("fulfillment.mode", types.FulfillmentModeSync)
	v.SetDefault("fulfillment.topic", "checkout_fulfillment")
	v.SetDefault("fulfillment.retry.max_retries", 3)
	v.SetDefault("fulfillment.retry.initial_interval", time.Second)
	v.SetDefault("fulfillment.retry.max_interval", 10*time.Second)
	v.SetDefault("fulfillment.retry.multiplier", 2.0)
	v.SetDefault("fulfillment.retry.max_elapsed_time", time.Minute)
	v.SetDefault("fulfillment.dedupe.enabled", false)
	v.SetDefault("fulfillment.dedupe.backend", types.DedupeBackendMemory)
	v.SetDefault("fulfillment.dedupe.window", 24*time.Hour)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("pyroscope.enabled", false)
	v.SetDefault("pyroscope.server_address", "")
	v.SetDefault("pyroscope.application_name", "connectcheckout")
	v.SetDefault("pyroscope.basic_auth_user", "")
	v.SetDefault("pyroscope.basic_auth_password", "")
	v.SetDefault("pyroscope.sample_rate", 100)
	v.SetDefault("pyroscope.disable_gc_runs", false)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if err := c.Fulfillment.Mode.Validate(); err != nil {
		return err
	}

	if c.Fulfillment.Mode == types.FulfillmentModeQueue && c.Fulfillment.Topic == "" {
		return errors.New("fulfillment.topic is required in queue mode")
	}

	if c.Fulfillment.Dedupe.Enabled {
		if err := c.Fulfillment.Dedupe.Backend.Validate(); err != nil {
			return err
		}
		if c.Fulfillment.Dedupe.Window <= 0 {
			return errors.New("fulfillment.dedupe.window must be positive")
		}
	}

	if _, err := c.Checkout.FeeRate(); err != nil {
		return err
	}

	return nil
}

// FeeRate parses the configured application fee rate, which must lie in [0, 1]
func (c CheckoutConfig) FeeRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.ApplicationFeeRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid checkout.application_fee_rate %q: %w", c.ApplicationFeeRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("checkout.application_fee_rate must be between 0 and 1, got %s", rate)
	}
	return rate, nil
}

// GetDefaultConfig returns a default configuration for local development and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":4242"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Stripe: StripeConfig{
			WebhookTolerance: 5 * time.Minute,
			RequestTimeout:   30 * time.Second,
			AccountListLimit: 10,
		},
		Checkout: CheckoutConfig{
			BasePrice:          1000,
			Currency:           "usd",
			Domain:             "http://localhost:4242",
			ProductName:        "Guitar lesson",
			ProductImages:      []string{"https://i.ibb.co/2PNy7yB/guitar.png"},
			ApplicationFeeRate: "0.10",
		},
		Fulfillment: FulfillmentConfig{
			Mode:  types.FulfillmentModeSync,
			Topic: "checkout_fulfillment",
			Retry: RetryConfig{
				MaxRetries:      3,
				InitialInterval: time.Second,
				MaxInterval:     10 * time.Second,
				Multiplier:      2,
				MaxElapsedTime:  time.Minute,
			},
			Dedupe: DedupeConfig{
				Backend: types.DedupeBackendMemory,
				Window:  24 * time.Hour,
			},
		},
	}
}
