package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/inbound"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"github.com/smartplatform/gateway/internal/utils/metrics"
	"github.com/smartplatform/gateway/internal/utils/requestctx"
	"go.uber.org/zap"
)

const (
	defaultUsageLimit = 50
	maxUsageLimit     = 500
)

// Domain implements credit metering: the reset rule, authorization and
// settlement. All cross-request exclusion is delegated to the ledger store.
type Domain struct {
	store   outbound.LedgerStorePort
	costs   CostTable
	cfg     *Config
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCreditDomain creates a new credit domain service.
func NewCreditDomain(
	store outbound.LedgerStorePort,
	cfg *Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Domain {
	cfg = cfg.withDefaults()
	return &Domain{
		store:   store,
		costs:   NewCostTable(cfg.Costs),
		cfg:     cfg,
		now:     time.Now,
		metrics: m,
		logger:  logger.Named("credit"),
	}
}

// WithClock replaces the time source.
func (d *Domain) WithClock(now func() time.Time) *Domain {
	d.now = now
	return d
}

// Compile-time interface check
var _ inbound.CreditDomain = (*Domain)(nil)

// Authorize checks that accountID can afford kind. The account is created
// on first use and the reset rule is applied under the same lock as the
// cost check. Nothing is deducted.
func (d *Domain) Authorize(ctx context.Context, accountID string, kind model.FeatureKind) (*model.CreditAuthorization, error) {
	if accountID == "" {
		return nil, ErrMissingAccount
	}
	cost, ok := d.costs.Cost(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFeature, kind)
	}

	var now time.Time
	rec, err := d.updateAccount(ctx, "authorize", accountID, func(rec *model.AccountLedger) ([]*model.UsageEvent, error) {
		now = d.now()
		d.applyReset(rec, now)
		if rec.Balance < cost {
			return nil, ErrInsufficientCredits
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientCredits) {
			d.metrics.RecordAuthorization(kind.String(), "insufficient")
			d.logger.Info("authorization denied",
				zap.String("account_id", accountID),
				zap.String("feature", kind.String()),
				zap.Int64("cost", cost),
			)
			return nil, err
		}
		d.metrics.RecordAuthorization(kind.String(), "error")
		return nil, err
	}

	d.metrics.RecordAuthorization(kind.String(), "allowed")
	d.logger.Debug("authorized",
		zap.String("account_id", accountID),
		zap.String("feature", kind.String()),
		zap.Int64("cost", cost),
		zap.Int64("balance", rec.Balance),
	)

	return &model.CreditAuthorization{
		AccountID: accountID,
		Kind:      kind,
		Cost:      cost,
		IssuedAt:  now,
		RequestID: requestctx.RequestID(ctx),
	}, nil
}

// Settle deducts the authorized cost, floored at zero, and appends one usage
// event in the same transaction. It returns the new balance.
func (d *Domain) Settle(ctx context.Context, auth *model.CreditAuthorization) (int64, error) {
	if auth == nil || auth.AccountID == "" || auth.Cost < 0 {
		return 0, ErrInvalidAuthorization
	}

	var charged int64
	rec, err := d.retry(ctx, "settle", func() (*model.AccountLedger, error) {
		return d.store.Update(ctx, auth.AccountID, func(rec *model.AccountLedger) ([]*model.UsageEvent, error) {
			now := d.now()
			d.applyReset(rec, now)

			charged = min(auth.Cost, rec.Balance)
			rec.Balance -= charged

			return []*model.UsageEvent{{
				ID:             uuid.New(),
				AccountID:      auth.AccountID,
				FeatureKind:    auth.Kind,
				CreditsCharged: charged,
				RequestID:      auth.RequestID,
				OccurredAt:     now,
			}}, nil
		})
	})
	if err != nil {
		if errors.Is(err, outbound.ErrLedgerRecordNotFound) {
			d.logger.Error("settlement against missing ledger record",
				zap.String("account_id", auth.AccountID),
				zap.String("feature", auth.Kind.String()),
				zap.Int64("cost", auth.Cost),
				zap.String("request_id", auth.RequestID),
			)
			return 0, fmt.Errorf("%w: account %s", ErrLedgerInconsistency, auth.AccountID)
		}
		return 0, err
	}

	if charged < auth.Cost {
		d.logger.Warn("settlement floored at zero",
			zap.String("account_id", auth.AccountID),
			zap.Int64("cost", auth.Cost),
			zap.Int64("charged", charged),
		)
	}
	d.metrics.RecordCharge(auth.Kind.String(), charged)
	d.logger.Info("settled",
		zap.String("account_id", auth.AccountID),
		zap.String("feature", auth.Kind.String()),
		zap.Int64("charged", charged),
		zap.Int64("balance", rec.Balance),
	)

	return rec.Balance, nil
}

// Status returns the current balance, persisting a reset if one is due.
func (d *Domain) Status(ctx context.Context, accountID string) (*model.CreditStatus, error) {
	if accountID == "" {
		return nil, ErrMissingAccount
	}

	rec, err := d.updateAccount(ctx, "status", accountID, func(rec *model.AccountLedger) ([]*model.UsageEvent, error) {
		d.applyReset(rec, d.now())
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return &model.CreditStatus{
		Balance:     rec.Balance,
		LastResetAt: rec.LastResetAt,
		NextResetAt: rec.LastResetAt.Add(d.cfg.ResetWindow),
		DeviceBound: rec.HasBoundDevice(),
	}, nil
}

// UsageHistory returns the newest usage events of an account.
func (d *Domain) UsageHistory(ctx context.Context, accountID string, limit int) ([]*model.UsageEvent, error) {
	if accountID == "" {
		return nil, ErrMissingAccount
	}
	if limit <= 0 {
		limit = defaultUsageLimit
	}
	if limit > maxUsageLimit {
		limit = maxUsageLimit
	}
	return d.store.ListUsageEvents(ctx, accountID, limit)
}

// Costs returns the price list.
func (d *Domain) Costs() []model.FeatureCost {
	return d.costs.List()
}

// InitialLedger returns the record a new account starts with.
func (d *Domain) InitialLedger(accountID string) *model.AccountLedger {
	return &model.AccountLedger{
		AccountID:   accountID,
		Balance:     d.cfg.InitialBalance,
		LastResetAt: d.now(),
	}
}

// RetryConfig returns the retry bounds used for contended ledger writes.
func (d *Domain) RetryConfig() RetryConfig {
	return d.cfg.Retry
}

// applyReset restores the full balance once the reset window has elapsed.
// lastResetAt only ever moves forward.
func (d *Domain) applyReset(rec *model.AccountLedger, now time.Time) bool {
	if now.Sub(rec.LastResetAt) <= d.cfg.ResetWindow {
		return false
	}
	rec.Balance = d.cfg.InitialBalance
	rec.LastResetAt = now
	return true
}

// updateAccount runs fn under the store lock, creating the account first if
// it does not exist yet.
func (d *Domain) updateAccount(ctx context.Context, op, accountID string, fn outbound.LedgerMutator) (*model.AccountLedger, error) {
	return d.retry(ctx, op, func() (*model.AccountLedger, error) {
		rec, err := d.store.Update(ctx, accountID, fn)
		if !errors.Is(err, outbound.ErrLedgerRecordNotFound) {
			return rec, err
		}
		if _, err := d.store.GetOrCreate(ctx, d.InitialLedger(accountID)); err != nil {
			return nil, fmt.Errorf("create ledger: %w", err)
		}
		return d.store.Update(ctx, accountID, fn)
	})
}
