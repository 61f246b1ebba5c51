package app

import (
	"context"
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/smartplatform/gateway/internal/domain/credit"
	"github.com/smartplatform/gateway/internal/domain/device"
	"github.com/smartplatform/gateway/internal/domain/generation"

	// Inbound adapters
	generationhttp "github.com/smartplatform/gateway/internal/adapter/inbound/http/generation"
	legalhttp "github.com/smartplatform/gateway/internal/adapter/inbound/http/legal"

	// Ports
	"github.com/smartplatform/gateway/internal/port/inbound"
	"github.com/smartplatform/gateway/internal/port/outbound"

	// Outbound adapters
	"github.com/smartplatform/gateway/internal/adapter/outbound/aiprovider"
	"github.com/smartplatform/gateway/internal/adapter/outbound/identity"
	"github.com/smartplatform/gateway/internal/adapter/outbound/memory"
	"github.com/smartplatform/gateway/internal/adapter/outbound/postgres"
	redisadapter "github.com/smartplatform/gateway/internal/adapter/outbound/redis"
	s3adapter "github.com/smartplatform/gateway/internal/adapter/outbound/s3"

	// Infrastructure
	"github.com/smartplatform/gateway/internal/infra/cache"
	"github.com/smartplatform/gateway/internal/infra/config"
	"github.com/smartplatform/gateway/internal/infra/database"
	"github.com/smartplatform/gateway/internal/infra/httpclient"

	// Utils
	"github.com/smartplatform/gateway/internal/utils/logger"
	"github.com/smartplatform/gateway/internal/utils/metrics"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "gateway"

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideZapLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideHTTPClient,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideRateLimiter,
)

// ProvideLogger creates the HTTP access logger.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return zapLog, func() { _ = zapLog.Sync() }, nil
}

// ProvideRegistry creates the registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(MetricsNamespace, reg)
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideDatabase opens the ledger database. The memory driver needs none
// and yields a nil handle.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		return nil, func() {}, nil
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional; without it
// rate limits are kept per process.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (*goredis.Client, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, using in-process rate limits", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// ProvideRateLimiter creates the inbound rate limiter.
func ProvideRateLimiter(redis *goredis.Client) outbound.RateLimiterPort {
	if redis == nil {
		return memory.NewRateLimiter()
	}
	return redisadapter.NewRateLimiter(redis)
}

// ===== Outbound Adapter Providers =====

// AdapterSet provides outbound adapters.
var AdapterSet = wire.NewSet(
	ProvideLedgerStore,
	ProvideIdentityVerifier,
	ProvideAssetStore,
	ProvideGenerationProvider,
)

// ProvideLedgerStore selects the ledger store for the configured driver.
func ProvideLedgerStore(cfg *config.Config, db *gorm.DB) outbound.LedgerStorePort {
	if cfg.Database.Driver == config.DriverMemory || db == nil {
		return memory.NewLedgerStore()
	}
	return postgres.NewLedgerStoreAdapter(db)
}

// ProvideIdentityVerifier creates the bearer credential verifier.
func ProvideIdentityVerifier(cfg *config.Config) (outbound.IdentityVerifierPort, error) {
	return identity.NewJWTVerifier(&identity.JWTConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
		Leeway: cfg.Auth.Leeway,
	})
}

// ProvideAssetStore creates the object store for generated images, or nil
// when storage is not configured.
func ProvideAssetStore(cfg *config.Config, client *http.Client) (outbound.AssetStorePort, error) {
	if !cfg.Storage.Enabled() {
		return nil, nil
	}
	return s3adapter.NewAssetStore(context.Background(), &cfg.Storage, client)
}

// ProvideGenerationProvider builds the Gemini client behind the circuit
// breaker, plus image offloading when an asset store is available.
func ProvideGenerationProvider(
	cfg *config.Config,
	client *http.Client,
	assets outbound.AssetStorePort,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) (outbound.GenerationProviderPort, error) {
	gemini, err := aiprovider.NewGemini(context.Background(), &aiprovider.GeminiConfig{
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		TextModel:  cfg.Provider.TextModel,
		ImageModel: cfg.Provider.ImageModel,
		UseADC:     cfg.Provider.UseADC,
	}, client)
	if err != nil {
		return nil, err
	}

	var provider outbound.GenerationProviderPort = gemini
	if assets != nil {
		provider = aiprovider.NewAssetOffloader(provider, assets, cfg.Storage.Prefix)
	}

	return aiprovider.NewResilientProvider(provider, &aiprovider.ResilienceConfig{
		Timeout:           cfg.Provider.Timeout,
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Burst:             cfg.Provider.Burst,
		FailureThreshold:  cfg.Provider.FailureThreshold,
		CircuitTimeout:    cfg.Provider.CircuitTimeout,
	}, m, zapLog), nil
}

// ===== Domain Providers =====

// DomainSet provides the credit, device and generation domains.
var DomainSet = wire.NewSet(
	ProvideCreditDomain,
	wire.Bind(new(inbound.CreditDomain), new(*credit.Domain)),
	ProvideDeviceDomain,
	ProvideGenerationDomain,
)

// ProvideCreditDomain creates the credit ledger domain.
func ProvideCreditDomain(
	cfg *config.Config,
	store outbound.LedgerStorePort,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) *credit.Domain {
	return credit.NewCreditDomain(store, &credit.Config{
		InitialBalance: cfg.Credits.InitialBalance,
		ResetWindow:    cfg.Credits.ResetWindow,
		Costs:          cfg.Credits.CostOverrides(),
		Retry: credit.RetryConfig{
			MaxAttempts:     cfg.Credits.Retry.MaxAttempts,
			InitialInterval: cfg.Credits.Retry.InitialInterval,
			MaxInterval:     cfg.Credits.Retry.MaxInterval,
		},
	}, m, zapLog)
}

// ProvideDeviceDomain creates the device binding guard. New accounts get
// the same initial record the credit domain would create.
func ProvideDeviceDomain(
	store outbound.LedgerStorePort,
	credits *credit.Domain,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) inbound.DeviceDomain {
	return device.NewDeviceDomain(store, credits.InitialLedger, credits.RetryConfig(), m, zapLog)
}

// ProvideGenerationDomain creates the request orchestrator.
func ProvideGenerationDomain(
	verifier outbound.IdentityVerifierPort,
	devices inbound.DeviceDomain,
	credits inbound.CreditDomain,
	provider outbound.GenerationProviderPort,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) inbound.GenerationDomain {
	return generation.NewGenerationDomain(verifier, devices, credits, provider, m, zapLog)
}

// ===== HTTP Handler Providers =====

// HandlerSet provides HTTP handlers.
var HandlerSet = wire.NewSet(
	generationhttp.NewHandler,
	legalhttp.NewHandler,
)

// AppSet is the complete provider graph.
var AppSet = wire.NewSet(
	InfraSet,
	AdapterSet,
	DomainSet,
	HandlerSet,
)
