package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Cart     CartConfig
	Catalog  CatalogConfig
	Upstream UpstreamConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KMERCH_APP_ENV" required:"true"`
	Port         string `envconfig:"KMERCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KMERCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KMERCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"KMERCH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KMERCH_REDIS_ADDR"`
	Password     string        `envconfig:"KMERCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"KMERCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KMERCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KMERCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KMERCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KMERCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KMERCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig carries the knobs for the USD conversion pipeline.
// The exchange rate is intentionally optional: when it is missing the
// normalizer keeps working with an identity rate and reports the
// degradation through its warning side-channel.
type PricingConfig struct {
	USDExchangeRate      float64 `envconfig:"KMERCH_PRICING_USD_EXCHANGE_RATE"`
	ShippingSurchargeUSD float64 `envconfig:"KMERCH_PRICING_SHIPPING_SURCHARGE_USD" default:"0"`
	ImportTaxRate        float64 `envconfig:"KMERCH_PRICING_IMPORT_TAX_RATE" default:"0.6"`
	MarginRate           float64 `envconfig:"KMERCH_PRICING_MARGIN_RATE" default:"0.05"`
	ProcessorFeeRate     float64 `envconfig:"KMERCH_PRICING_PROCESSOR_FEE_RATE" default:"0.05"`
}

// HasExchangeRate reports whether a usable USD exchange rate was configured.
func (p PricingConfig) HasExchangeRate() bool {
	return p.USDExchangeRate > 0
}

// ExchangeRate returns the configured rate, or 1 when unset.
func (p PricingConfig) ExchangeRate() float64 {
	if !p.HasExchangeRate() {
		return 1
	}
	return p.USDExchangeRate
}

func (p PricingConfig) validate() error {
	if p.USDExchangeRate < 0 {
		return fmt.Errorf("%s must not be negative", EnvPricingExchangeRate)
	}
	if p.ShippingSurchargeUSD < 0 {
		return fmt.Errorf("%s must not be negative", EnvPricingShippingSurcharge)
	}
	if p.ImportTaxRate < 0 || p.ImportTaxRate >= 10 {
		return fmt.Errorf("%s out of range", EnvPricingImportTaxRate)
	}
	if p.MarginRate < 0 || p.MarginRate >= 1 {
		return fmt.Errorf("%s out of range", EnvPricingMarginRate)
	}
	if p.ProcessorFeeRate < 0 || p.ProcessorFeeRate >= 1 {
		return fmt.Errorf("%s out of range", EnvPricingProcessorFeeRate)
	}
	return nil
}

type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"KMERCH_CART_SNAPSHOT_TTL" default:"720h"`
	CookieName  string        `envconfig:"KMERCH_CART_SESSION_COOKIE" default:"km_session"`
}

type CatalogConfig struct {
	DefaultPageSize int `envconfig:"KMERCH_CATALOG_DEFAULT_PAGE_SIZE" default:"12"`
}

type UpstreamConfig struct {
	CatalogBaseURL string        `envconfig:"KMERCH_UPSTREAM_CATALOG_BASE_URL" required:"true"`
	OrdersURL      string        `envconfig:"KMERCH_UPSTREAM_ORDERS_URL"`
	Timeout        time.Duration `envconfig:"KMERCH_UPSTREAM_TIMEOUT" default:"10s"`
}
