package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository"
)

var _ repository.RecordStore = (*Store)(nil)

func fixedClock() func() time.Time {
	at := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func fields(supply, qty int64) models.RecordFields {
	return models.RecordFields{
		ShipDate:     models.DatePtr(2025, time.March, 5),
		ShopName:     "Daehan Shoes",
		SupplyAmount: supply,
		Qty:          qty,
	}
}

func receive(t *testing.T, sub repository.Subscription) []models.Record {
	t.Helper()
	select {
	case snapshot, ok := <-sub.Snapshots():
		require.True(t, ok, "subscription closed unexpectedly")
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := New(WithClock(fixedClock()))

	id, err := store.Create(ctx, fields(100000, 50))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got.Tax)
	assert.Equal(t, int64(110000), got.Total)
	assert.Equal(t, int64(2000), got.UnitFare)
	assert.Equal(t, fixedClock()(), got.CreatedAt)

	require.NoError(t, store.Update(ctx, id, fields(50000, 20)))
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(55000), got.Total)
	assert.Equal(t, fixedClock()(), got.CreatedAt)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStoreMissingRecord(t *testing.T) {
	ctx := context.Background()
	store := New()

	assert.ErrorIs(t, store.Update(ctx, "missing", fields(1, 1)), repository.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), repository.ErrNotFound)
}

func TestStoreListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := New()

	first, _ := store.Create(ctx, fields(1, 1))
	second, _ := store.Create(ctx, fields(2, 1))
	third, _ := store.Create(ctx, fields(3, 1))
	require.NoError(t, store.Delete(ctx, second))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0].ID)
	assert.Equal(t, third, records[1].ID)
}

func TestSubscribeDeliversCurrentSetThenChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := New()
	store.Seed(models.Record{ID: "seed", RecordFields: fields(1000, 1)})

	sub, err := store.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	initial := receive(t, sub)
	require.Len(t, initial, 1)
	assert.Equal(t, "seed", initial[0].ID)

	_, err = store.Create(ctx, fields(2000, 2))
	require.NoError(t, err)
	assert.Len(t, receive(t, sub), 2)
}

func TestSubscribeCoalescesToLatest(t *testing.T) {
	ctx := context.Background()
	store := New()

	sub, err := store.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	for i := 0; i < 5; i++ {
		_, err := store.Create(ctx, fields(int64(i), 1))
		require.NoError(t, err)
	}

	assert.Len(t, receive(t, sub), 5)
	select {
	case <-sub.Snapshots():
		t.Fatal("expected only the latest snapshot to be pending")
	default:
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := New()

	sub, err := store.Subscribe(ctx)
	require.NoError(t, err)
	receive(t, sub)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Snapshots():
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, sub.Close())
	_, err = store.Create(context.Background(), fields(1, 1))
	assert.NoError(t, err)
}
