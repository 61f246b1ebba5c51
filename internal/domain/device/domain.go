package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartplatform/gateway/internal/domain/credit"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/inbound"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"github.com/smartplatform/gateway/internal/utils/metrics"
	"go.uber.org/zap"
)

// maxDeviceIDLength bounds the caller-supplied fingerprint.
const maxDeviceIDLength = 255

// InitialLedgerFunc builds the record a new account starts with.
type InitialLedgerFunc func(accountID string) *model.AccountLedger

// Domain binds each account to the first device it is used from.
type Domain struct {
	store   outbound.LedgerStorePort
	initial InitialLedgerFunc
	retry   credit.RetryConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewDeviceDomain creates a new device binding guard.
func NewDeviceDomain(
	store outbound.LedgerStorePort,
	initial InitialLedgerFunc,
	retry credit.RetryConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Domain {
	if initial == nil {
		initial = func(accountID string) *model.AccountLedger {
			return &model.AccountLedger{
				AccountID:   accountID,
				Balance:     credit.DefaultInitialBalance,
				LastResetAt: time.Now(),
			}
		}
	}
	return &Domain{
		store:   store,
		initial: initial,
		retry:   retry,
		metrics: m,
		logger:  logger.Named("device"),
	}
}

// Compile-time interface check
var _ inbound.DeviceDomain = (*Domain)(nil)

// Check allows the request if deviceID is, or becomes, the account's bound
// device. The first bind is a compare-and-set on the unset field, so two
// devices racing on a fresh account cannot both win.
func (d *Domain) Check(ctx context.Context, accountID, deviceID string) error {
	accountID = strings.TrimSpace(accountID)
	deviceID = strings.TrimSpace(deviceID)
	if accountID == "" || deviceID == "" {
		return ErrMissingIdentity
	}
	if len(deviceID) > maxDeviceIDLength {
		return ErrInvalidDevice
	}

	outcome, err := credit.RetryLedger(ctx, d.retry, "bind", func() (string, error) {
		return d.check(ctx, accountID, deviceID)
	}, func(err error, next time.Duration) {
		d.metrics.RecordLedgerRetry("bind")
	})
	if err != nil {
		return err
	}

	d.metrics.RecordDeviceCheck(outcome)
	switch outcome {
	case "mismatch":
		d.logger.Warn("device mismatch",
			zap.String("account_id", accountID),
			zap.String("device_id", deviceID),
		)
		return ErrDeviceMismatch
	case "bound":
		d.logger.Info("device bound",
			zap.String("account_id", accountID),
			zap.String("device_id", deviceID),
		)
	}
	return nil
}

func (d *Domain) check(ctx context.Context, accountID, deviceID string) (string, error) {
	rec, err := d.store.GetOrCreate(ctx, d.initial(accountID))
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}

	if rec.HasBoundDevice() {
		if rec.BoundDeviceID == deviceID {
			return "allowed", nil
		}
		return "mismatch", nil
	}

	bound, err := d.store.BindDevice(ctx, accountID, deviceID)
	if err != nil {
		return "", fmt.Errorf("bind device: %w", err)
	}
	if bound {
		return "bound", nil
	}

	// Lost the race: someone bound first. Compare against the winner.
	rec, err = d.store.Get(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("reload ledger: %w", err)
	}
	if rec != nil && rec.BoundDeviceID == deviceID {
		return "allowed", nil
	}
	return "mismatch", nil
}
