package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"go.uber.org/zap"
)

// retry runs op again with exponential backoff while the store reports
// contention. Any other error ends the loop immediately.
func (d *Domain) retry(ctx context.Context, op string, fn func() (*model.AccountLedger, error)) (*model.AccountLedger, error) {
	return RetryLedger(ctx, d.cfg.Retry, op, fn, func(err error, next time.Duration) {
		d.metrics.RecordLedgerRetry(op)
		d.logger.Debug("ledger contention, retrying",
			zap.String("operation", op),
			zap.Duration("backoff", next),
			zap.Error(err),
		)
	})
}

// RetryLedger is the bounded retry loop shared by everything that writes the
// ledger. Exhausting the attempts yields ErrLedgerUnavailable.
func RetryLedger[T any](ctx context.Context, cfg RetryConfig, op string, fn func() (T, error), notify backoff.Notify) (T, error) {
	b := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		b.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		b.MaxInterval = cfg.MaxInterval
	}

	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = DefaultConfig().Retry.MaxAttempts
	}

	res, err := backoff.Retry(ctx, func() (T, error) {
		res, err := fn()
		if err != nil && !errors.Is(err, outbound.ErrLedgerConflict) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts), backoff.WithNotify(notify))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	if errors.Is(err, outbound.ErrLedgerConflict) {
		return res, fmt.Errorf("%w: %s: %v", ErrLedgerUnavailable, op, err)
	}
	return res, err
}
