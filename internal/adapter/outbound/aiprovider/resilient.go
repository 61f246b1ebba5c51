package aiprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"github.com/smartplatform/gateway/internal/utils/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ResilienceConfig configures the provider guard.
type ResilienceConfig struct {
	// Timeout bounds a single provider call. Zero means no extra bound.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold uint32
	// CircuitTimeout is how long the circuit stays open before a probe.
	CircuitTimeout time.Duration
}

// DefaultResilienceConfig returns the defaults used when nothing is configured.
func DefaultResilienceConfig() *ResilienceConfig {
	return &ResilienceConfig{
		Timeout:          120 * time.Second,
		FailureThreshold: 5,
		CircuitTimeout:   30 * time.Second,
	}
}

// resilientProvider wraps a provider with a circuit breaker and an outbound
// throttle.
type resilientProvider struct {
	next    outbound.GenerationProviderPort
	breaker *gobreaker.CircuitBreaker[*model.GenerationResult]
	limiter *rate.Limiter
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewResilientProvider decorates next.
func NewResilientProvider(
	next outbound.GenerationProviderPort,
	cfg *ResilienceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) outbound.GenerationProviderPort {
	if cfg == nil {
		cfg = DefaultResilienceConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	p := &resilientProvider{
		next:    next,
		timeout: cfg.Timeout,
		metrics: m,
		logger:  logger.Named("provider").With(zap.String("provider", next.Name())),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	p.breaker = gobreaker.NewCircuitBreaker[*model.GenerationResult](gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.CircuitTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isProviderHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return p
}

func (p *resilientProvider) Name() string { return p.next.Name() }

func (p *resilientProvider) Generate(ctx context.Context, in *model.GenerationInput) (*model.GenerationResult, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err := p.breaker.Execute(func() (*model.GenerationResult, error) {
		return p.next.Generate(ctx, in)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		p.metrics.RecordCircuitOpen(p.next.Name())
		return nil, fmt.Errorf("%w: circuit open", ErrProviderUnavailable)
	}
	return result, err
}

// isProviderHealthy reports whether err says nothing about provider health.
// Caller cancellations and rejected inputs do not count towards tripping.
func isProviderHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrInvalidRequest)
}
