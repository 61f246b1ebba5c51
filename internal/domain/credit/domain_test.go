package credit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smartplatform/gateway/internal/adapter/outbound/memory"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/smartplatform/gateway/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Test helpers ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Get(ctx context.Context, accountID string) (*model.AccountLedger, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountLedger), args.Error(1)
}

func (m *MockLedgerStore) GetOrCreate(ctx context.Context, initial *model.AccountLedger) (*model.AccountLedger, error) {
	args := m.Called(ctx, initial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountLedger), args.Error(1)
}

func (m *MockLedgerStore) Update(ctx context.Context, accountID string, fn outbound.LedgerMutator) (*model.AccountLedger, error) {
	args := m.Called(ctx, accountID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountLedger), args.Error(1)
}

func (m *MockLedgerStore) BindDevice(ctx context.Context, accountID, deviceID string) (bool, error) {
	args := m.Called(ctx, accountID, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerStore) ListUsageEvents(ctx context.Context, accountID string, limit int) ([]*model.UsageEvent, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UsageEvent), args.Error(1)
}

func fastRetry() *Config {
	cfg := DefaultConfig()
	cfg.Retry = RetryConfig{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	return cfg
}

func newTestDomain(t *testing.T) (*Domain, outbound.LedgerStorePort, *fakeClock) {
	t.Helper()
	store := memory.NewLedgerStore()
	clock := newFakeClock()
	d := NewCreditDomain(store, fastRetry(), nil, zap.NewNop()).WithClock(clock.Now)
	return d, store, clock
}

func seedAccount(t *testing.T, store outbound.LedgerStorePort, id string, balance int64, lastReset time.Time) {
	t.Helper()
	_, err := store.GetOrCreate(context.Background(), &model.AccountLedger{
		AccountID:   id,
		Balance:     balance,
		LastResetAt: lastReset,
	})
	require.NoError(t, err)
}

func balanceOf(t *testing.T, store outbound.LedgerStorePort, id string) int64 {
	t.Helper()
	rec, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Balance
}

// --- Tests ---

func TestDomain_Authorize(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account lazily without deducting", func(t *testing.T) {
		d, store, clock := newTestDomain(t)

		auth, err := d.Authorize(ctx, "acc-1", model.FeatureTextToImage)
		require.NoError(t, err)
		assert.Equal(t, "acc-1", auth.AccountID)
		assert.Equal(t, int64(10), auth.Cost)
		assert.Equal(t, model.FeatureTextToImage, auth.Kind)

		rec, err := store.Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(100), rec.Balance)
		assert.True(t, rec.LastResetAt.Equal(clock.Now()))
	})

	t.Run("insufficient credits leaves balance unchanged", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 5, clock.Now())

		auth, err := d.Authorize(ctx, "acc", model.FeatureWebsiteBuilder)
		assert.ErrorIs(t, err, ErrInsufficientCredits)
		assert.Nil(t, auth)
		assert.Equal(t, int64(5), balanceOf(t, store, "acc"))
	})

	t.Run("free tier authorizes at zero balance", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 0, clock.Now())

		for _, kind := range []model.FeatureKind{model.FeatureSmartQuestion, model.FeatureJSONPromptGenerator} {
			auth, err := d.Authorize(ctx, "acc", kind)
			require.NoError(t, err)
			assert.Equal(t, int64(0), auth.Cost)
		}
	})

	t.Run("invalid feature never touches the store", func(t *testing.T) {
		store := new(MockLedgerStore)
		d := NewCreditDomain(store, fastRetry(), nil, zap.NewNop())

		_, err := d.Authorize(ctx, "acc", model.FeatureKind("GENERIC_TEXT"))
		assert.ErrorIs(t, err, ErrInvalidFeature)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing account id", func(t *testing.T) {
		d, _, _ := newTestDomain(t)
		_, err := d.Authorize(ctx, "", model.FeatureTextToImage)
		assert.ErrorIs(t, err, ErrMissingAccount)
	})
}

func TestDomain_ResetRule(t *testing.T) {
	ctx := context.Background()

	t.Run("stale balance resets before cost check", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 5, clock.Now().Add(-25*time.Hour))

		auth, err := d.Authorize(ctx, "acc", model.FeatureTextToImage)
		require.NoError(t, err)

		balance, err := d.Settle(ctx, auth)
		require.NoError(t, err)
		assert.Equal(t, int64(90), balance)
	})

	t.Run("exactly 24h is not yet a reset", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 5, clock.Now().Add(-24*time.Hour))

		_, err := d.Authorize(ctx, "acc", model.FeatureTextToImage)
		assert.ErrorIs(t, err, ErrInsufficientCredits)
	})

	t.Run("status persists the reset", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 7, clock.Now())

		clock.Advance(24*time.Hour + time.Second)
		status, err := d.Status(ctx, "acc")
		require.NoError(t, err)
		assert.Equal(t, int64(100), status.Balance)
		assert.True(t, status.LastResetAt.Equal(clock.Now()))
		assert.True(t, status.NextResetAt.Equal(clock.Now().Add(24*time.Hour)))

		rec, err := store.Get(ctx, "acc")
		require.NoError(t, err)
		assert.Equal(t, int64(100), rec.Balance)
		assert.True(t, rec.LastResetAt.Equal(clock.Now()))
	})

	t.Run("status creates the account", func(t *testing.T) {
		d, _, _ := newTestDomain(t)
		status, err := d.Status(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, int64(100), status.Balance)
		assert.False(t, status.DeviceBound)
	})
}

func TestDomain_Settle(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts and appends one usage event", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 50, clock.Now())

		auth, err := d.Authorize(ctx, "acc", model.FeatureTextToVideo)
		require.NoError(t, err)

		balance, err := d.Settle(ctx, auth)
		require.NoError(t, err)
		assert.Equal(t, int64(40), balance)

		events, err := d.UsageHistory(ctx, "acc", 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, model.FeatureTextToVideo, events[0].FeatureKind)
		assert.Equal(t, int64(10), events[0].CreditsCharged)
		assert.True(t, events[0].OccurredAt.Equal(clock.Now()))
	})

	t.Run("floors at zero", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 5, clock.Now())

		balance, err := d.Settle(ctx, &model.CreditAuthorization{AccountID: "acc", Kind: model.FeatureTextToImage, Cost: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)

		events, err := d.UsageHistory(ctx, "acc", 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, int64(5), events[0].CreditsCharged)
	})

	t.Run("free settlement still records usage", func(t *testing.T) {
		d, store, clock := newTestDomain(t)
		seedAccount(t, store, "acc", 0, clock.Now())

		auth, err := d.Authorize(ctx, "acc", model.FeatureSmartQuestion)
		require.NoError(t, err)
		balance, err := d.Settle(ctx, auth)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)

		events, err := d.UsageHistory(ctx, "acc", 10)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("vanished record is an inconsistency", func(t *testing.T) {
		d, _, _ := newTestDomain(t)
		_, err := d.Settle(ctx, &model.CreditAuthorization{AccountID: "ghost", Kind: model.FeatureTextToImage, Cost: 10})
		assert.ErrorIs(t, err, ErrLedgerInconsistency)
	})

	t.Run("nil authorization", func(t *testing.T) {
		d, _, _ := newTestDomain(t)
		_, err := d.Settle(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidAuthorization)
	})
}

func TestDomain_ConcurrentSettle(t *testing.T) {
	ctx := context.Background()
	d, store, clock := newTestDomain(t)
	seedAccount(t, store, "acc", 100, clock.Now())

	const n = 5
	auths := make([]*model.CreditAuthorization, n)
	for i := range auths {
		auth, err := d.Authorize(ctx, "acc", model.FeatureWebAppBuilder)
		require.NoError(t, err)
		auths[i] = auth
	}

	var wg sync.WaitGroup
	for _, auth := range auths {
		wg.Add(1)
		go func(auth *model.CreditAuthorization) {
			defer wg.Done()
			_, err := d.Settle(ctx, auth)
			assert.NoError(t, err)
		}(auth)
	}
	wg.Wait()

	assert.Equal(t, int64(50), balanceOf(t, store, "acc"))
	events, err := d.UsageHistory(ctx, "acc", 100)
	require.NoError(t, err)
	assert.Len(t, events, n)
}

func TestDomain_BalanceNeverNegative(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDomain(t)

	for i := 0; i < 30; i++ {
		auth, err := d.Authorize(ctx, "acc", model.FeatureAIAgentCreator)
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientCredits)
			continue
		}
		_, err = d.Settle(ctx, auth)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, balanceOf(t, store, "acc"), int64(0))
	}
	assert.Equal(t, int64(0), balanceOf(t, store, "acc"))
}

func TestDomain_Retry(t *testing.T) {
	ctx := context.Background()
	rec := &model.AccountLedger{AccountID: "acc", Balance: 90}

	t.Run("retries contention then succeeds", func(t *testing.T) {
		store := new(MockLedgerStore)
		store.On("Update", mock.Anything, "acc", mock.Anything).Return(nil, outbound.ErrLedgerConflict).Twice()
		store.On("Update", mock.Anything, "acc", mock.Anything).Return(rec, nil).Once()

		d := NewCreditDomain(store, fastRetry(), nil, zap.NewNop())
		balance, err := d.Settle(ctx, &model.CreditAuthorization{AccountID: "acc", Kind: model.FeatureTextToImage, Cost: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(90), balance)
		store.AssertNumberOfCalls(t, "Update", 3)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		store := new(MockLedgerStore)
		store.On("Update", mock.Anything, "acc", mock.Anything).Return(nil, outbound.ErrLedgerConflict)

		d := NewCreditDomain(store, fastRetry(), nil, zap.NewNop())
		_, err := d.Settle(ctx, &model.CreditAuthorization{AccountID: "acc", Kind: model.FeatureTextToImage, Cost: 10})
		assert.ErrorIs(t, err, ErrLedgerUnavailable)
		store.AssertNumberOfCalls(t, "Update", 3)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		store := new(MockLedgerStore)
		store.On("Update", mock.Anything, "acc", mock.Anything).Return(nil, assert.AnError)

		d := NewCreditDomain(store, fastRetry(), nil, zap.NewNop())
		_, err := d.Status(ctx, "acc")
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrLedgerUnavailable)
		store.AssertNumberOfCalls(t, "Update", 1)
	})
}

func TestDomain_Costs(t *testing.T) {
	cfg := fastRetry()
	cfg.Costs = map[model.FeatureKind]int64{
		model.FeatureTextToVideo:          25,
		model.FeatureKind("UNKNOWN_KIND"): 1,
		model.FeatureTextToImage:          -3,
	}
	d := NewCreditDomain(memory.NewLedgerStore(), cfg, nil, zap.NewNop())

	costs := d.Costs()
	require.Len(t, costs, len(model.AllFeatureKinds))

	byKind := make(map[model.FeatureKind]model.FeatureCost, len(costs))
	for _, c := range costs {
		byKind[c.Kind] = c
	}
	assert.Equal(t, int64(25), byKind[model.FeatureTextToVideo].Cost)
	assert.Equal(t, int64(10), byKind[model.FeatureTextToImage].Cost)
	assert.True(t, byKind[model.FeatureSmartQuestion].Free)
	assert.True(t, byKind[model.FeatureJSONPromptGenerator].Free)
	assert.False(t, byKind[model.FeatureWebsiteBuilder].Free)
}
