package outbound

import (
	"context"
	"errors"

	"github.com/smartplatform/gateway/internal/model"
)

var (
	// ErrLedgerRecordNotFound is returned by Update when no record exists for the account.
	ErrLedgerRecordNotFound = errors.New("ledger record not found")

	// ErrLedgerConflict marks transient contention (serialization failure,
	// deadlock, lock timeout, busy database). Callers may retry.
	ErrLedgerConflict = errors.New("ledger write conflict")
)

// LedgerMutator mutates a locked ledger record in place and returns usage
// events to append in the same transaction. Returning an error aborts the
// transaction without writing anything.
type LedgerMutator func(rec *model.AccountLedger) ([]*model.UsageEvent, error)

// LedgerStorePort defines transactional persistence for account ledgers.
type LedgerStorePort interface {
	// Get returns the record or nil if the account has none.
	Get(ctx context.Context, accountID string) (*model.AccountLedger, error)

	// GetOrCreate returns the existing record, or inserts initial and returns it.
	GetOrCreate(ctx context.Context, initial *model.AccountLedger) (*model.AccountLedger, error)

	// Update runs fn against the locked record. The record write (if fn
	// changed anything) and the event appends commit atomically.
	Update(ctx context.Context, accountID string, fn LedgerMutator) (*model.AccountLedger, error)

	// BindDevice sets the bound device only if none is bound yet.
	// It reports whether this call performed the bind.
	BindDevice(ctx context.Context, accountID, deviceID string) (bool, error)

	// ListUsageEvents returns the newest events of an account first.
	ListUsageEvents(ctx context.Context, accountID string, limit int) ([]*model.UsageEvent, error)
}
