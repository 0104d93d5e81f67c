package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

func TestAddRequestRejectsOpenDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")
	profile := seedProfile(t, store, "ana@example.com")

	request := models.Request{
		ProfileID:   profile.ID,
		PantryID:    pantry.ID,
		ItemName:    "Rice",
		RequestDate: models.MustDate("2024-05-01"),
		Quantity:    2,
	}
	require.NoError(t, store.AddRequest(ctx, request))

	err := store.AddRequest(ctx, request)
	assert.ErrorIs(t, err, ErrDuplicate)

	key := models.RequestKey{ProfileID: profile.ID, PantryID: pantry.ID, ItemName: "Rice"}
	require.NoError(t, store.SetRequestCompleted(ctx, key, true))

	request.Quantity = 5
	request.RequestDate = models.MustDate("2024-06-01")
	require.NoError(t, store.AddRequest(ctx, request), "completed requests can be asked for again")

	reopened, err := store.GetRequest(ctx, key)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Equal(t, 5, reopened.Quantity)
	assert.Equal(t, "2024-06-01", reopened.RequestDate.String())
}

func TestAddRequestUnknownReferences(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")

	err := store.AddRequest(ctx, models.Request{
		ProfileID:   404,
		PantryID:    pantry.ID,
		ItemName:    "Rice",
		RequestDate: models.MustDate("2024-05-01"),
		Quantity:    1,
	})
	assert.ErrorIs(t, err, ErrReference)
}

func TestRequestCompletionIsIdempotentAndReversible(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")
	profile := seedProfile(t, store, "ana@example.com")

	require.NoError(t, store.AddRequest(ctx, models.Request{
		ProfileID: profile.ID, PantryID: pantry.ID, ItemName: "Eggs",
		RequestDate: models.MustDate("2024-05-01"), Quantity: 12,
	}))
	key := models.RequestKey{ProfileID: profile.ID, PantryID: pantry.ID, ItemName: "Eggs"}

	for _, completed := range []bool{true, true, false, false} {
		require.NoError(t, store.SetRequestCompleted(ctx, key, completed))
		got, err := store.GetRequest(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, completed, got.Completed)
	}

	err := store.SetRequestCompleted(ctx, models.RequestKey{ProfileID: profile.ID, PantryID: pantry.ID, ItemName: "Nope"}, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndDeleteRequest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")
	profile := seedProfile(t, store, "ana@example.com")

	for _, name := range []string{"Rice", "Beans"} {
		require.NoError(t, store.AddRequest(ctx, models.Request{
			ProfileID: profile.ID, PantryID: pantry.ID, ItemName: name,
			RequestDate: models.MustDate("2024-05-01"), Quantity: 1,
		}))
	}
	rice := models.RequestKey{ProfileID: profile.ID, PantryID: pantry.ID, ItemName: "Rice"}

	err := store.UpdateRequest(ctx, rice, "Beans", 0)
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, store.UpdateRequest(ctx, rice, "Basmati", 3))
	renamed := models.RequestKey{ProfileID: profile.ID, PantryID: pantry.ID, ItemName: "Basmati"}
	got, err := store.GetRequest(ctx, renamed)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	assert.ErrorIs(t, store.UpdateRequest(ctx, rice, "", 9), ErrNotFound)

	require.NoError(t, store.DeleteRequest(ctx, renamed))
	assert.ErrorIs(t, store.DeleteRequest(ctx, renamed), ErrNotFound)

	remaining, err := store.ListRequestsByPantry(ctx, pantry.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Beans", remaining[0].ItemName)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")
	profile := seedProfile(t, store, "ana@example.com")

	first := models.Notification{ProfileID: profile.ID, PantryID: pantry.ID, Detail: "Welcome"}
	require.NoError(t, store.AddNotification(ctx, &first))
	assert.NotZero(t, first.ID)
	require.NoError(t, store.AddNotifications(ctx, []models.Notification{
		{ProfileID: profile.ID, PantryID: pantry.ID, Detail: "Event tomorrow"},
	}))

	changed, err := store.MarkNotificationsRead(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	changed, err = store.MarkNotificationsRead(ctx, profile.ID)
	require.NoError(t, err)
	assert.Zero(t, changed)

	require.NoError(t, store.DeleteNotification(ctx, first.ID))
	assert.ErrorIs(t, store.DeleteNotification(ctx, first.ID), ErrNotFound)

	left, err := store.ListNotificationsByProfile(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.True(t, left[0].IsRead)
}
