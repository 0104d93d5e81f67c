package profiles_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/auth"
	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql/mysqltest"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
	"github.com/mamadbah2/pantry-helper/internal/service/profiles"
)

func newService(store *mysql.Store) *profiles.Service {
	issuer := auth.NewIssuer("0123456789abcdef0123", time.Hour)
	return profiles.NewService(store, issuer, access.NewChecker(store, nil), nil)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	svc := newService(store)

	session, err := svc.SignIn(ctx, models.SignInInput{Name: "Ana", Email: "  Ana@Example.COM ", Password: "correct horse"})
	require.NoError(t, err)
	assert.True(t, session.Created)
	assert.Equal(t, "ana@example.com", session.Profile.Email)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	again, err := svc.SignIn(ctx, models.SignInInput{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, session.Profile.ID, again.Profile.ID)
	assert.Equal(t, "Ana", again.Profile.Name)

	_, err = svc.SignIn(ctx, models.SignInInput{Email: " ", Password: "correct horse"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	_, err = svc.SignIn(ctx, models.SignInInput{Email: "ana@example.com"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	svc := newService(store)

	off := false
	_, err := svc.SignIn(ctx, models.SignInInput{Name: "Boss", Email: "boss@example.com", Password: "correct horse", EmailPreference: &off})
	require.NoError(t, err)

	on := true
	_, err = svc.SignIn(ctx, models.SignInInput{Name: "Mallory", Email: "boss@example.com", Password: "battery staple", EmailPreference: &on})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	stored, err := store.GetProfileByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Boss", stored.Name, "a rejected sign-in changes nothing")
	assert.False(t, stored.EmailPreference)

	legacy := mysqltest.Profile(t, store, "legacy@example.com")
	_, err = svc.SignIn(ctx, models.SignInInput{Email: legacy.Email, Password: "anything goes"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated, "profiles without a password cannot be claimed")
}

func TestListAndGetNeedMembership(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	admin := mysqltest.Profile(t, store, "admin@example.com")
	ana := mysqltest.Profile(t, store, "ana@example.com")
	ben := mysqltest.Profile(t, store, "ben@example.com")
	pantry := mysqltest.Pantry(t, store, "North", admin.ID)
	mysqltest.Member(t, store, ana.ID, pantry.ID, models.AuthorityRecipient)
	svc := newService(store)

	list, err := svc.List(ctx, admin.ID, pantry.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	_, err = svc.List(ctx, ana.ID, pantry.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.List(ctx, 0, pantry.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = svc.List(ctx, admin.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	self, err := svc.Get(ctx, ana.ID, ana.ID)
	require.NoError(t, err)
	assert.Len(t, self.SubscribedPantryList, 1)
	_, err = svc.Get(ctx, admin.ID, ana.ID)
	assert.NoError(t, err, "staff read their members")
	_, err = svc.Get(ctx, ana.ID, admin.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.Get(ctx, admin.ID, ben.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden, "not a member of the admin's pantry")
	_, err = svc.Get(ctx, 0, ana.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUpdateAndDeleteSelfOnly(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	admin := mysqltest.Profile(t, store, "admin@example.com")
	ana := mysqltest.Profile(t, store, "ana@example.com")
	pantry := mysqltest.Pantry(t, store, "North", admin.ID)
	svc := newService(store)

	off := false
	updated, err := svc.Update(ctx, ana.ID, ana.ID, models.UpdateProfileInput{Name: " Ana B ", EmailPreference: &off})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", updated.Name)
	assert.False(t, updated.EmailPreference)

	_, err = svc.Update(ctx, admin.ID, ana.ID, models.UpdateProfileInput{Name: "Hacked"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Update(ctx, ana.ID, ana.ID, models.UpdateProfileInput{UserAuthority: models.AuthorityAdmin})
	assert.ErrorIs(t, err, apperr.ErrInvalid, "authority without pantry")
	_, err = svc.Update(ctx, ana.ID, ana.ID, models.UpdateProfileInput{UserAuthority: models.AuthorityAdmin, PantryID: pantry.ID})
	assert.ErrorIs(t, err, apperr.ErrForbidden, "self-promotion")

	assert.ErrorIs(t, svc.Delete(ctx, admin.ID, ana.ID), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, ana.ID, ana.ID))
	_, err = svc.Get(ctx, ana.ID, ana.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemberships(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	admin := mysqltest.Profile(t, store, "admin@example.com")
	ana := mysqltest.Profile(t, store, "ana@example.com")
	ben := mysqltest.Profile(t, store, "ben@example.com")
	pantry := mysqltest.Pantry(t, store, "North", admin.ID)
	svc := newService(store)

	join := models.PantryUser{ProfileID: ana.ID, PantryID: pantry.ID, UserAuthority: models.AuthorityRecipient}
	require.NoError(t, svc.AddPantryUser(ctx, ana.ID, join))
	assert.Equal(t, "Profile is already a member of this pantry.", apperr.Message(svc.AddPantryUser(ctx, ana.ID, join), ""))

	selfStaff := models.PantryUser{ProfileID: ben.ID, PantryID: pantry.ID, UserAuthority: models.AuthorityStaff}
	assert.ErrorIs(t, svc.AddPantryUser(ctx, ben.ID, selfStaff), apperr.ErrForbidden)
	require.NoError(t, svc.AddPantryUser(ctx, admin.ID, selfStaff))

	detail, err := svc.Get(ctx, ana.ID, ana.ID)
	require.NoError(t, err)
	require.Len(t, detail.SubscribedPantryList, 1)
	assert.Equal(t, "North", detail.SubscribedPantryList[0].PantryName)

	members, err := svc.ListMembers(ctx, ben.ID, pantry.ID)
	require.NoError(t, err)
	assert.Len(t, members, 3)
	_, err = svc.ListMembers(ctx, ana.ID, pantry.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	emails, err := svc.SubscriberEmails(ctx, ben.ID, pantry.ID)
	require.NoError(t, err)
	assert.Len(t, emails, 3)
	ids, err := svc.SubscriberProfileIDs(ctx, ben.ID, pantry.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{admin.ID, ana.ID, ben.ID}, ids)

	assert.ErrorIs(t, svc.UpdateAuthority(ctx, ben.ID, ana.ID, pantry.ID, models.AuthorityStaff), apperr.ErrForbidden)
	require.NoError(t, svc.UpdateAuthority(ctx, admin.ID, ana.ID, pantry.ID, models.AuthorityStaff))
	assert.ErrorIs(t, svc.UpdateAuthority(ctx, admin.ID, ana.ID, pantry.ID, "owner"), apperr.ErrInvalid)

	assert.ErrorIs(t, svc.RemovePantryUser(ctx, ana.ID, ben.ID, pantry.ID), apperr.ErrForbidden)
	require.NoError(t, svc.RemovePantryUser(ctx, ana.ID, ana.ID, pantry.ID))
	require.NoError(t, svc.RemovePantryUser(ctx, admin.ID, ben.ID, pantry.ID))
	assert.ErrorIs(t, svc.RemovePantryUser(ctx, admin.ID, ben.ID, pantry.ID), apperr.ErrNotFound)

	subs, err := svc.Subscriptions(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
