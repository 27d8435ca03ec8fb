package config

const EnvPrefix = "kmerch"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                   = "KMERCH_APP_ENV"
	EnvAppPort                  = "KMERCH_APP_PORT"
	EnvLogLevel                 = "KMERCH_LOG_LEVEL"
	EnvRedisURL                 = "KMERCH_REDIS_URL"
	EnvPricingExchangeRate      = "KMERCH_PRICING_USD_EXCHANGE_RATE"
	EnvPricingShippingSurcharge = "KMERCH_PRICING_SHIPPING_SURCHARGE_USD"
	EnvPricingImportTaxRate     = "KMERCH_PRICING_IMPORT_TAX_RATE"
	EnvPricingMarginRate        = "KMERCH_PRICING_MARGIN_RATE"
	EnvPricingProcessorFeeRate  = "KMERCH_PRICING_PROCESSOR_FEE_RATE"
	EnvCartSnapshotTTL          = "KMERCH_CART_SNAPSHOT_TTL"
	EnvCatalogDefaultPageSize   = "KMERCH_CATALOG_DEFAULT_PAGE_SIZE"
	EnvUpstreamCatalogBaseURL   = "KMERCH_UPSTREAM_CATALOG_BASE_URL"
	EnvUpstreamOrdersURL        = "KMERCH_UPSTREAM_ORDERS_URL"
)
