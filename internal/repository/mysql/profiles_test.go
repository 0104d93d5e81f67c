package mysql

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

func TestUpsertProfileByEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, isNew, err := store.UpsertProfileByEmail(ctx, models.SignInInput{Name: "Ana", Email: "ana@example.com", EmailPreference: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.False(t, created.EmailPreference)

	pantryID := int64(3)
	updated, isNew, err := store.UpsertProfileByEmail(ctx, models.SignInInput{Email: "ana@example.com", CurrentPantry: &pantryID})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana", updated.Name, "empty name keeps the stored one")
	assert.False(t, updated.EmailPreference, "absent preference keeps the stored one")
	require.NotNil(t, updated.CurrentPantry)
	assert.Equal(t, pantryID, *updated.CurrentPantry)

	fresh, isNew, err := store.UpsertProfileByEmail(ctx, models.SignInInput{Email: "ben@example.com"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, fresh.EmailPreference)
}

func TestPasswordHashIsSetOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, _, err := store.UpsertProfileByEmail(ctx, models.SignInInput{Email: "ana@example.com"})
	require.NoError(t, err)
	_, _, err = store.UpsertProfileByEmail(ctx, models.SignInInput{Email: "ana@example.com", PasswordHash: "first"})
	require.NoError(t, err)
	_, _, err = store.UpsertProfileByEmail(ctx, models.SignInInput{Email: "ana@example.com", PasswordHash: "second"})
	require.NoError(t, err)

	got, err := store.GetProfileByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "first", got.PasswordHash)

	_, err = store.GetProfileByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPantryProfiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ana := seedProfile(t, store, "ana@example.com")
	seedProfile(t, store, "ben@example.com")
	pantry := models.Pantry{Name: "North", AccessCodeHash: "hash"}
	require.NoError(t, store.CreatePantry(ctx, &pantry, ana.ID))

	profiles, err := store.ListPantryProfiles(ctx, pantry.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "ana@example.com", profiles[0].Email)
}

func TestMembershipsAndSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ana := seedProfile(t, store, "ana@example.com")
	ben := seedProfile(t, store, "ben@example.com")

	pantry := models.Pantry{Name: "North", AccessCodeHash: "hash"}
	require.NoError(t, store.CreatePantry(ctx, &pantry, ana.ID))

	authority, err := store.Authority(ctx, ana.ID, pantry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuthorityAdmin, authority)

	member := models.PantryUser{ProfileID: ben.ID, PantryID: pantry.ID, UserAuthority: models.AuthorityRecipient}
	require.NoError(t, store.AddPantryUser(ctx, member))
	assert.ErrorIs(t, store.AddPantryUser(ctx, member), ErrDuplicate)
	assert.ErrorIs(t, store.AddPantryUser(ctx, models.PantryUser{ProfileID: 99, PantryID: pantry.ID, UserAuthority: models.AuthorityRecipient}), ErrReference)

	require.NoError(t, store.UpdateAuthority(ctx, ben.ID, pantry.ID, models.AuthorityStaff))
	assert.ErrorIs(t, store.UpdateAuthority(ctx, ben.ID, 999, models.AuthorityStaff), ErrNotFound)

	staff, err := store.StaffProfileIDs(ctx, pantry.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{ana.ID, ben.ID}, staff)

	subs, err := store.Subscriptions(ctx, ben.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "North", subs[0].PantryName)
	assert.Equal(t, models.AuthorityStaff, subs[0].UserAuthority)

	members, err := store.ListPantryMembers(ctx, pantry.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = store.UpdateProfile(ctx, ben.ID, models.UpdateProfileInput{EmailPreference: boolPtr(false)})
	require.NoError(t, err)
	optedIn, err := store.SubscriberEmails(ctx, pantry.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, optedIn)
	all, err := store.SubscriberEmails(ctx, pantry.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteProfileCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")
	ana := seedProfile(t, store, "ana@example.com")

	require.NoError(t, store.UpsertPantryUser(ctx, models.PantryUser{ProfileID: ana.ID, PantryID: pantry.ID, UserAuthority: models.AuthorityRecipient}))
	require.NoError(t, store.AddRequest(ctx, models.Request{
		ProfileID: ana.ID, PantryID: pantry.ID, ItemName: "Rice",
		RequestDate: models.MustDate("2024-05-01"), Quantity: 1,
	}))
	require.NoError(t, store.AddNotification(ctx, &models.Notification{ProfileID: ana.ID, PantryID: pantry.ID, Detail: "hi"}))

	require.NoError(t, store.DeleteProfile(ctx, ana.ID))
	assert.ErrorIs(t, store.DeleteProfile(ctx, ana.ID), ErrNotFound)

	ids, err := store.SubscriberProfileIDs(ctx, pantry.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	requests, err := store.ListRequestsByProfile(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)
	notifications, err := store.ListNotificationsByProfile(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestFinanceRecords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")

	donation := models.FinanceRecord{
		PantryID:        pantry.ID,
		TransactionType: models.TransactionIncome,
		Amount:          decimal.RequireFromString("250.50"),
		TransactionDate: models.MustDate("2024-02-01"),
		Description:     "Donation",
	}
	require.NoError(t, store.CreateFinance(ctx, &donation))

	require.NoError(t, store.UpdateFinance(ctx, donation.ID, models.FinanceInput{
		TransactionType: models.TransactionExpense,
		Amount:          decimal.RequireFromString("40.25"),
		TransactionDate: models.MustDate("2024-02-02"),
		Description:     "Fuel",
	}))
	got, err := store.GetFinance(ctx, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionExpense, got.TransactionType)
	assert.True(t, decimal.RequireFromString("40.25").Equal(got.Amount))

	assert.ErrorIs(t, store.UpdateFinance(ctx, 999, models.FinanceInput{TransactionType: models.TransactionIncome}), ErrNotFound)
	require.NoError(t, store.DeleteFinance(ctx, donation.ID))
	assert.ErrorIs(t, store.DeleteFinance(ctx, donation.ID), ErrNotFound)
}

func TestEventsLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")

	event := models.Event{PantryID: pantry.ID, EventTitle: "Harvest", IconPath: "icons/harvest.svg"}
	require.NoError(t, store.CreateEvent(ctx, &event))
	assert.NotZero(t, event.ID)

	require.NoError(t, store.UpdateEvent(ctx, event.ID, models.EventInput{EventTitle: "Harvest Fair", IconPath: "icons/fair.svg"}))
	got, err := store.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harvest Fair", got.EventTitle)
	assert.Equal(t, pantry.ID, got.PantryID)

	require.NoError(t, store.DeleteEvent(ctx, event.ID))
	assert.ErrorIs(t, store.DeleteEvent(ctx, event.ID), ErrNotFound)
}

func boolPtr(b bool) *bool { return &b }
