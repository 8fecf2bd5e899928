package db

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

func TestMemoryStore_SubscribeTwiceUpserts(t *testing.T) {
	store := NewMemoryStore()

	user, err := store.GetOrCreateUser("42", nil, nil, nil, "uk")
	require.NoError(t, err)

	first, err := store.CreateOrUpdateSubscription(user.ID, "yasno-kyiv", "3.2", 30)
	require.NoError(t, err)

	second, err := store.CreateOrUpdateSubscription(user.ID, "yasno-kyiv", "3.2", 60)
	require.NoError(t, err)

	// same row, latest lead time
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 60, second.NotifyBefore)

	subs, err := store.ListUserSubscriptions(user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 60, subs[0].NotifyBefore)
}

func TestMemoryStore_ResubscribeReactivates(t *testing.T) {
	store := NewMemoryStore()
	user, _ := store.GetOrCreateUser("42", nil, nil, nil, "uk")

	sub, err := store.CreateOrUpdateSubscription(user.ID, "yasno-kyiv", "1.1", 30)
	require.NoError(t, err)
	require.NoError(t, store.DeactivateSubscription(sub.ID))

	subs, _ := store.ListUserSubscriptions(user.ID)
	assert.Empty(t, subs)

	again, err := store.CreateOrUpdateSubscription(user.ID, "yasno-kyiv", "1.1", 15)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.True(t, again.IsActive)

	subs, _ = store.ListUserSubscriptions(user.ID)
	require.Len(t, subs, 1)
}

// Two /start updates for a brand-new user can race; get-or-create must
// resolve both to the same row, never a duplicate or an error.
func TestMemoryStore_ConcurrentFirstContactYieldsOneUser(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	ids := make([]int, 8)
	errs := make([]error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			u, err := store.GetOrCreateUser("42", nil, nil, nil, "uk")
			errs[g] = err
			if u != nil {
				ids[g] = u.ID
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < 8; g++ {
		require.NoError(t, errs[g])
		assert.Equal(t, ids[0], ids[g])
	}
}

func TestMemoryStore_GetOrCreateUserIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	name := "Olena"

	first, err := store.GetOrCreateUser("99", nil, &name, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "uk", first.LanguageCode)

	second, err := store.GetOrCreateUser("99", nil, &name, nil, "uk")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestMemoryStore_ActiveSubscriptionsJoinIdentity(t *testing.T) {
	store := NewMemoryStore()
	user, _ := store.GetOrCreateUser("1001", nil, nil, nil, "uk")
	_, err := store.CreateOrUpdateSubscription(user.ID, "yasno-dnipro", "2.2", 30)
	require.NoError(t, err)

	active, err := store.ListActiveSubscriptions()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "1001", active[0].TelegramID)
	assert.Equal(t, "2.2", active[0].QueueNumber)
}

func TestMemoryStore_NotificationLogDedupeKey(t *testing.T) {
	store := NewMemoryStore()

	sent, err := store.HasNotificationBeenSent(1, "2026-01-11", "08:00", model.NotificationBeforeOutage)
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, store.LogNotification(1, "2026-01-11", "08:00", model.NotificationBeforeOutage))

	sent, _ = store.HasNotificationBeenSent(1, "2026-01-11", "08:00", model.NotificationBeforeOutage)
	assert.True(t, sent)

	// every component of the tuple participates in the key
	sent, _ = store.HasNotificationBeenSent(2, "2026-01-11", "08:00", model.NotificationBeforeOutage)
	assert.False(t, sent)
	sent, _ = store.HasNotificationBeenSent(1, "2026-01-12", "08:00", model.NotificationBeforeOutage)
	assert.False(t, sent)
	sent, _ = store.HasNotificationBeenSent(1, "2026-01-11", "12:00", model.NotificationBeforeOutage)
	assert.False(t, sent)
	sent, _ = store.HasNotificationBeenSent(1, "2026-01-11", "08:00", "outage_start")
	assert.False(t, sent)
}

// The noop store backs deployments without a database: everything is an
// empty result, nothing ever errors.
func TestNoopStore_DegradesQuietly(t *testing.T) {
	store := NewNoopStore()

	user, err := store.GetOrCreateUser("42", nil, nil, nil, "uk")
	assert.NoError(t, err)
	assert.Nil(t, user)

	sub, err := store.CreateOrUpdateSubscription(1, "yasno-kyiv", "1.1", 30)
	assert.NoError(t, err)
	assert.Nil(t, sub)

	subs, err := store.ListActiveSubscriptions()
	assert.NoError(t, err)
	assert.Empty(t, subs)

	sent, err := store.HasNotificationBeenSent(1, "2026-01-11", "08:00", model.NotificationBeforeOutage)
	assert.NoError(t, err)
	assert.False(t, sent)

	assert.NoError(t, store.LogNotification(1, "2026-01-11", "08:00", model.NotificationBeforeOutage))
	assert.NoError(t, store.DeactivateSubscription(1))
}
