package session

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/metrics"
)

func TestBatchCoalescesIntoSingleEmission(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)
	assert.Equal(t, domain.Snapshot{}, receive(t, updates))

	batch := store.Begin()
	require.NoError(t, batch.Apply(func(s *domain.Snapshot) { s.AccessToken = "access" }))
	require.NoError(t, batch.Apply(func(s *domain.Snapshot) { s.UserID = "u1" }))
	require.NoError(t, batch.Apply(func(s *domain.Snapshot) {
		s.Organizations = []domain.OrganizationSummary{{OrgID: "org_1", Name: "Acme"}}
	}))
	assertNoEmission(t, updates)

	batch.End()

	got := receive(t, updates)
	assert.Equal(t, store.Current(), got)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "u1", got.UserID)
	assert.Len(t, got.Organizations, 1)
	assertNoEmission(t, updates)
}

func TestNestedBatchesEmitOnceAtOutermostEnd(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)
	receive(t, updates)

	outer := store.Begin()
	require.NoError(t, outer.Apply(func(s *domain.Snapshot) { s.UserID = "u1" }))

	inner := store.Begin()
	require.NoError(t, inner.Apply(func(s *domain.Snapshot) { s.Email = "ada@example.com" }))
	inner.End()
	assertNoEmission(t, updates)

	store.Update(func(s *domain.Snapshot) { s.Username = "ada" })
	assertNoEmission(t, updates)

	outer.End()
	got := receive(t, updates)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "ada", got.Username)
	assertNoEmission(t, updates)
}

func TestBatchEndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)
	receive(t, updates)

	outer := store.Begin()
	inner := store.Begin()
	require.NoError(t, inner.Apply(func(s *domain.Snapshot) { s.UserID = "u1" }))
	inner.End()
	inner.End()
	assertNoEmission(t, updates)

	outer.End()
	receive(t, updates)

	assert.ErrorIs(t, inner.Apply(func(s *domain.Snapshot) {}), ErrBatchEnded)
}

func TestBatchWithoutChangesDoesNotEmit(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)
	receive(t, updates)

	store.Begin().End()
	assertNoEmission(t, updates)
}

func TestUpdateEmitsImmediatelyOutsideBatch(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)
	receive(t, updates)

	store.Update(func(s *domain.Snapshot) { s.Email = "ada@example.com" })
	assert.Equal(t, "ada@example.com", receive(t, updates).Email)
}

func TestResetWinsOverOpenBatch(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	store.Update(func(s *domain.Snapshot) { s.AccessToken = "old" })
	updates := subscribe(t, store)
	receive(t, updates)

	batch := store.Begin()
	require.NoError(t, batch.Apply(func(s *domain.Snapshot) { s.UserID = "u1" }))

	store.Reset()
	assert.Equal(t, domain.Snapshot{}, receive(t, updates))

	err := batch.Apply(func(s *domain.Snapshot) { s.AccessToken = "stale" })
	require.ErrorIs(t, err, domain.ErrSessionReset)

	batch.End()
	assertNoEmission(t, updates)
	assert.Equal(t, domain.Snapshot{}, store.Current())
}

func TestUpdateAtRejectsStaleGeneration(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	generation := store.Generation()
	store.Reset()

	err := store.UpdateAt(generation, func(s *domain.Snapshot) { s.Email = "late@example.com" })
	require.ErrorIs(t, err, domain.ErrSessionReset)
	assert.Empty(t, store.Current().Email)

	require.NoError(t, store.UpdateAt(store.Generation(), func(s *domain.Snapshot) { s.Email = "now@example.com" }))
	assert.Equal(t, "now@example.com", store.Current().Email)
}

func TestReplaceMakesOtherBatchesStale(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)
	receive(t, updates)

	login := store.Begin()
	switcher := store.Begin()

	require.NoError(t, switcher.Replace(domain.Snapshot{AccessToken: "b", UserID: "ub"}))
	require.NoError(t, switcher.Apply(func(s *domain.Snapshot) { s.Username = "bee" }))
	switcher.End()

	require.ErrorIs(t, login.Apply(func(s *domain.Snapshot) { s.UserID = "ua" }), domain.ErrSessionReset)
	login.End()

	got := receive(t, updates)
	assert.Equal(t, "ub", got.UserID)
	assert.Equal(t, "bee", got.Username)
	assertNoEmission(t, updates)
}

func TestSubscriberReceivesCurrentStateFirst(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	store.Update(func(s *domain.Snapshot) { s.UserID = "u1" })

	updates := subscribe(t, store)
	assert.Equal(t, "u1", receive(t, updates).UserID)
}

func TestSubscriberSeesEmissionsInCommitOrder(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)
	receive(t, updates)

	const total = 200
	go func() {
		for i := 0; i < total; i++ {
			store.Update(func(s *domain.Snapshot) { s.Username = strconv.Itoa(i) })
		}
	}()

	for i := 0; i < total; i++ {
		assert.Equal(t, strconv.Itoa(i), receive(t, updates).Username)
	}
}

func TestCurrentReturnsDeepCopy(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	store.Update(func(s *domain.Snapshot) {
		s.Organizations = []domain.OrganizationSummary{{OrgID: "org_1", Name: "Acme"}}
	})

	snapshot := store.Current()
	snapshot.Organizations[0].Name = "changed"

	assert.Equal(t, "Acme", store.Current().Organizations[0].Name)
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	updates, _ := store.Subscribe(ctx)
	receive(t, updates)

	cancel()
	assertClosed(t, updates)
}

func TestSubscriptionEndsWithCancelFunc(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates, cancel := store.Subscribe(context.Background())
	receive(t, updates)

	cancel()
	cancel()
	assertClosed(t, updates)

	store.Update(func(s *domain.Snapshot) { s.UserID = "u1" })
}

func TestCloseDrainsAndClosesSubscribers(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	updates := subscribe(t, store)

	store.Update(func(s *domain.Snapshot) { s.UserID = "u1" })
	store.Close()
	store.Close()

	assert.Equal(t, domain.Snapshot{}, receive(t, updates))
	assert.Equal(t, "u1", receive(t, updates).UserID)
	assertClosed(t, updates)

	late, _ := store.Subscribe(context.Background())
	assert.Equal(t, "u1", receive(t, late).UserID)
	assertClosed(t, late)
}

func TestEmissionsAreCounted(t *testing.T) {
	t.Parallel()

	_, m := metrics.NewRegistry()
	store := NewStore(nil, m)

	batch := store.Begin()
	require.NoError(t, batch.Apply(func(s *domain.Snapshot) { s.UserID = "u1" }))
	require.NoError(t, batch.Apply(func(s *domain.Snapshot) { s.Email = "ada@example.com" }))
	batch.End()
	store.Reset()

	assert.InDelta(t, 2, testutil.ToFloat64(m.SnapshotEmissions), 0)
}

func subscribe(t *testing.T, store *Store) <-chan domain.Snapshot {
	t.Helper()

	updates, cancel := store.Subscribe(context.Background())
	t.Cleanup(cancel)
	return updates
}

func receive(t *testing.T, updates <-chan domain.Snapshot) domain.Snapshot {
	t.Helper()

	select {
	case snapshot, ok := <-updates:
		require.True(t, ok, "subscription closed")
		return snapshot
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for snapshot")
		return domain.Snapshot{}
	}
}

func assertNoEmission(t *testing.T, updates <-chan domain.Snapshot) {
	t.Helper()

	select {
	case snapshot, ok := <-updates:
		if ok {
			assert.Failf(t, "unexpected emission", "%+v", snapshot)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func assertClosed(t *testing.T, updates <-chan domain.Snapshot) {
	t.Helper()

	select {
	case _, ok := <-updates:
		assert.False(t, ok, "expected closed subscription")
	case <-time.After(time.Second):
		assert.Fail(t, "timed out waiting for close")
	}
}
