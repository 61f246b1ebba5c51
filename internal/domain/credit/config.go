package credit

import (
	"time"

	"github.com/smartplatform/gateway/internal/model"
)

const (
	DefaultInitialBalance int64 = 100
	DefaultResetWindow          = 24 * time.Hour
	DefaultFeatureCost    int64 = 10
)

// Config holds credit metering configuration.
type Config struct {
	InitialBalance int64
	ResetWindow    time.Duration
	// Costs overrides the default price of individual feature kinds.
	Costs map[model.FeatureKind]int64
	Retry RetryConfig
}

// RetryConfig bounds retries of contended ledger transactions.
type RetryConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig returns the default credit configuration.
func DefaultConfig() *Config {
	return &Config{
		InitialBalance: DefaultInitialBalance,
		ResetWindow:    DefaultResetWindow,
		Retry: RetryConfig{
			MaxAttempts:     5,
			InitialInterval: 20 * time.Millisecond,
			MaxInterval:     500 * time.Millisecond,
		},
	}
}

func (c *Config) withDefaults() *Config {
	out := DefaultConfig()
	if c == nil {
		return out
	}
	if c.InitialBalance > 0 {
		out.InitialBalance = c.InitialBalance
	}
	if c.ResetWindow > 0 {
		out.ResetWindow = c.ResetWindow
	}
	if c.Retry.MaxAttempts > 0 {
		out.Retry.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.InitialInterval > 0 {
		out.Retry.InitialInterval = c.Retry.InitialInterval
	}
	if c.Retry.MaxInterval > 0 {
		out.Retry.MaxInterval = c.Retry.MaxInterval
	}
	out.Costs = c.Costs
	return out
}
