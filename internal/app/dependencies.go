package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	generationhttp "github.com/smartplatform/gateway/internal/adapter/inbound/http/generation"
	legalhttp "github.com/smartplatform/gateway/internal/adapter/inbound/http/legal"
	"github.com/smartplatform/gateway/internal/domain/credit"
	"github.com/smartplatform/gateway/internal/infra/config"
	"github.com/smartplatform/gateway/internal/port/inbound"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"github.com/smartplatform/gateway/internal/utils/logger"
	"github.com/smartplatform/gateway/internal/utils/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *goredis.Client
	HTTPClient  *http.Client
	RateLimiter outbound.RateLimiterPort
	Logger      *logger.Logger
	ZapLogger   *zap.Logger
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics

	// Domains
	CreditDomain     *credit.Domain
	DeviceDomain     inbound.DeviceDomain
	GenerationDomain inbound.GenerationDomain

	// HTTP Handlers
	GenerationHandler *generationhttp.Handler
	LegalHandler      *legalhttp.Handler
}
