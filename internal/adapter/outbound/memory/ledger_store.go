package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/outbound"
)

// ledgerStore is an in-process LedgerStorePort for single-node development
// and tests. Each account has its own lock, so different accounts never
// contend.
type ledgerStore struct {
	mu       sync.RWMutex
	accounts map[string]*accountEntry
}

type accountEntry struct {
	mu     sync.Mutex
	record *model.AccountLedger
	events []*model.UsageEvent
}

// NewLedgerStore creates an empty in-memory ledger store.
func NewLedgerStore() outbound.LedgerStorePort {
	return &ledgerStore{accounts: make(map[string]*accountEntry)}
}

func (s *ledgerStore) entry(accountID string) *accountEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[accountID]
}

func (s *ledgerStore) Get(ctx context.Context, accountID string) (*model.AccountLedger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.entry(accountID)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Clone(), nil
}

func (s *ledgerStore) GetOrCreate(ctx context.Context, initial *model.AccountLedger) (*model.AccountLedger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	e, ok := s.accounts[initial.AccountID]
	if !ok {
		rec := initial.Clone()
		rec.CreatedAt = rec.LastResetAt
		rec.UpdatedAt = rec.LastResetAt
		e = &accountEntry{record: rec}
		s.accounts[initial.AccountID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Clone(), nil
}

func (s *ledgerStore) Update(ctx context.Context, accountID string, fn outbound.LedgerMutator) (*model.AccountLedger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.entry(accountID)
	if e == nil {
		return nil, outbound.ErrLedgerRecordNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	working := e.record.Clone()
	events, err := fn(working)
	if err != nil {
		return nil, err
	}
	if !working.SameState(e.record) {
		e.record = working
	}
	for _, ev := range events {
		c := *ev
		e.events = append(e.events, &c)
	}
	return e.record.Clone(), nil
}

func (s *ledgerStore) BindDevice(ctx context.Context, accountID, deviceID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e := s.entry(accountID)
	if e == nil {
		return false, outbound.ErrLedgerRecordNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record.BoundDeviceID != "" {
		return false, nil
	}
	rec := e.record.Clone()
	rec.BoundDeviceID = deviceID
	e.record = rec
	return true, nil
}

func (s *ledgerStore) ListUsageEvents(ctx context.Context, accountID string, limit int) ([]*model.UsageEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.entry(accountID)
	if e == nil {
		return []*model.UsageEvent{}, nil
	}

	e.mu.Lock()
	out := make([]*model.UsageEvent, 0, len(e.events))
	for i := len(e.events) - 1; i >= 0; i-- {
		c := *e.events[i]
		out = append(out, &c)
	}
	e.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Compile-time check
var _ outbound.LedgerStorePort = (*ledgerStore)(nil)
