package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres error codes treated as transient contention.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// ledgerStoreAdapter implements outbound.LedgerStorePort on gorm.
// Each Update is one transaction holding a row lock on the account.
type ledgerStoreAdapter struct {
	db *gorm.DB
}

// NewLedgerStoreAdapter creates a new ledger store database adapter.
func NewLedgerStoreAdapter(db *gorm.DB) outbound.LedgerStorePort {
	return &ledgerStoreAdapter{db: db}
}

func (a *ledgerStoreAdapter) Get(ctx context.Context, accountID string) (*model.AccountLedger, error) {
	var rec model.AccountLedger
	err := a.db.WithContext(ctx).Where("account_id = ?", accountID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, mapLedgerError(err)
	}
	return &rec, nil
}

func (a *ledgerStoreAdapter) GetOrCreate(ctx context.Context, initial *model.AccountLedger) (*model.AccountLedger, error) {
	var rec model.AccountLedger
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := initial.Clone()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(insert).Error; err != nil {
			return err
		}
		return tx.Where("account_id = ?", initial.AccountID).First(&rec).Error
	})
	if err != nil {
		return nil, mapLedgerError(err)
	}
	return &rec, nil
}

func (a *ledgerStoreAdapter) Update(ctx context.Context, accountID string, fn outbound.LedgerMutator) (*model.AccountLedger, error) {
	var out model.AccountLedger
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec model.AccountLedger
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ?", accountID).
			First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return outbound.ErrLedgerRecordNotFound
			}
			return err
		}

		before := rec.Clone()
		events, err := fn(&rec)
		if err != nil {
			return err
		}

		if !rec.SameState(before) {
			rec.UpdatedAt = time.Now()
			err := tx.Model(&model.AccountLedger{}).
				Where("account_id = ?", accountID).
				Updates(map[string]any{
					"balance":         rec.Balance,
					"last_reset_at":   rec.LastResetAt,
					"bound_device_id": rec.BoundDeviceID,
					"updated_at":      rec.UpdatedAt,
				}).Error
			if err != nil {
				return fmt.Errorf("write ledger: %w", err)
			}
		}

		if len(events) > 0 {
			if err := tx.Create(&events).Error; err != nil {
				return fmt.Errorf("append usage events: %w", err)
			}
		}

		out = rec
		return nil
	})
	if err != nil {
		return nil, mapLedgerError(err)
	}
	return &out, nil
}

func (a *ledgerStoreAdapter) BindDevice(ctx context.Context, accountID, deviceID string) (bool, error) {
	result := a.db.WithContext(ctx).
		Model(&model.AccountLedger{}).
		Where("account_id = ? AND bound_device_id = ?", accountID, "").
		Updates(map[string]any{
			"bound_device_id": deviceID,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return false, mapLedgerError(result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	rec, err := a.Get(ctx, accountID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, outbound.ErrLedgerRecordNotFound
	}
	return false, nil
}

func (a *ledgerStoreAdapter) ListUsageEvents(ctx context.Context, accountID string, limit int) ([]*model.UsageEvent, error) {
	var events []*model.UsageEvent
	query := a.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("occurred_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, mapLedgerError(err)
	}
	return events, nil
}

// mapLedgerError classifies lock and serialization failures as
// outbound.ErrLedgerConflict. Everything else passes through.
func mapLedgerError(err error) error {
	if err == nil || errors.Is(err, outbound.ErrLedgerRecordNotFound) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s", outbound.ErrLedgerConflict, pgErr.Message)
		}
		return err
	}

	// SQLite reports contention as SQLITE_BUSY / SQLITE_LOCKED.
	msg := err.Error()
	if strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked") {
		return fmt.Errorf("%w: %s", outbound.ErrLedgerConflict, msg)
	}
	return err
}

// Compile-time check
var _ outbound.LedgerStorePort = (*ledgerStoreAdapter)(nil)
