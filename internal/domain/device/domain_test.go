package device

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartplatform/gateway/internal/adapter/outbound/memory"
	"github.com/smartplatform/gateway/internal/domain/credit"
	"github.com/smartplatform/gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDomain() (*Domain, func(ctx context.Context, id string) *model.AccountLedger) {
	store := memory.NewLedgerStore()
	d := NewDeviceDomain(store, nil, credit.RetryConfig{MaxAttempts: 3, InitialInterval: time.Millisecond}, nil, zap.NewNop())
	get := func(ctx context.Context, id string) *model.AccountLedger {
		rec, _ := store.Get(ctx, id)
		return rec
	}
	return d, get
}

func TestDomain_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("bind, block, allow", func(t *testing.T) {
		d, get := newTestDomain()

		require.NoError(t, d.Check(ctx, "acc", "A"))
		assert.Equal(t, "A", get(ctx, "acc").BoundDeviceID)
		assert.Equal(t, int64(100), get(ctx, "acc").Balance)

		assert.ErrorIs(t, d.Check(ctx, "acc", "B"), ErrDeviceMismatch)
		assert.NoError(t, d.Check(ctx, "acc", "A"))
		assert.Equal(t, "A", get(ctx, "acc").BoundDeviceID)
	})

	t.Run("missing identity", func(t *testing.T) {
		d, get := newTestDomain()

		assert.ErrorIs(t, d.Check(ctx, "acc", ""), ErrMissingIdentity)
		assert.ErrorIs(t, d.Check(ctx, "acc", "   "), ErrMissingIdentity)
		assert.ErrorIs(t, d.Check(ctx, "", "A"), ErrMissingIdentity)
		assert.Nil(t, get(ctx, "acc"))
	})

	t.Run("oversized device id", func(t *testing.T) {
		d, get := newTestDomain()

		err := d.Check(ctx, "acc", strings.Repeat("d", maxDeviceIDLength+1))
		assert.ErrorIs(t, err, ErrInvalidDevice)
		assert.NotErrorIs(t, err, ErrMissingIdentity)
		assert.Nil(t, get(ctx, "acc"))

		require.NoError(t, d.Check(ctx, "acc", strings.Repeat("d", maxDeviceIDLength)))
	})

	t.Run("accounts are independent", func(t *testing.T) {
		d, _ := newTestDomain()

		require.NoError(t, d.Check(ctx, "acc-1", "A"))
		require.NoError(t, d.Check(ctx, "acc-2", "B"))
		assert.ErrorIs(t, d.Check(ctx, "acc-2", "A"), ErrDeviceMismatch)
	})
}

func TestDomain_Check_ConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	d, get := newTestDomain()

	devices := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var allowed atomic.Int32
	var wg sync.WaitGroup
	for _, dev := range devices {
		wg.Add(1)
		go func(dev string) {
			defer wg.Done()
			err := d.Check(ctx, "acc", dev)
			if err == nil {
				allowed.Add(1)
				return
			}
			assert.ErrorIs(t, err, ErrDeviceMismatch)
		}(dev)
	}
	wg.Wait()

	assert.Equal(t, int32(1), allowed.Load())
	assert.Contains(t, devices, get(ctx, "acc").BoundDeviceID)
}
