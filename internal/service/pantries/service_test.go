package pantries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql/mysqltest"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
	"github.com/mamadbah2/pantry-helper/internal/service/pantries"
)

func TestCreateMakesCallerAdmin(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	ana := mysqltest.Profile(t, store, "ana@example.com")
	checker := access.NewChecker(store, nil)
	svc := pantries.NewService(store, checker, nil)

	pantry, err := svc.Create(ctx, ana.ID, models.NewPantryInput{Name: " North "})
	require.NoError(t, err)
	assert.Equal(t, "North", pantry.Name)

	authority, err := checker.Authority(ctx, ana.ID, pantry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuthorityAdmin, authority)

	_, err = svc.Create(ctx, 0, models.NewPantryInput{Name: "South"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = svc.Create(ctx, ana.ID, models.NewPantryInput{Name: "  "})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestVerifyAccessCode(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	admin := mysqltest.Profile(t, store, "admin@example.com")
	ben := mysqltest.Profile(t, store, "ben@example.com")
	svc := pantries.NewService(store, access.NewChecker(store, nil), nil)

	pantry, err := svc.Create(ctx, admin.ID, models.NewPantryInput{Name: "North", AccessCode: "letmein"})
	require.NoError(t, err)
	defaulted, err := svc.Create(ctx, admin.ID, models.NewPantryInput{Name: "South"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessCode(ctx, ben.ID, models.VerifyAccessCodeInput{PantryID: pantry.ID, AccessCode: "wrong"})
	assert.Equal(t, "Invalid access code for the selected pantry", apperr.Message(err, ""))
	_, err = svc.VerifyAccessCode(ctx, ben.ID, models.VerifyAccessCodeInput{PantryID: 999, AccessCode: "letmein"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	authority, err := svc.VerifyAccessCode(ctx, ben.ID, models.VerifyAccessCodeInput{PantryID: pantry.ID, AccessCode: "letmein"})
	require.NoError(t, err)
	assert.Equal(t, models.AuthorityStaff, authority)

	authority, err = svc.VerifyAccessCode(ctx, admin.ID, models.VerifyAccessCodeInput{PantryID: pantry.ID, AccessCode: "letmein"})
	require.NoError(t, err)
	assert.Equal(t, models.AuthorityAdmin, authority, "admins are never demoted")

	authority, err = svc.VerifyAccessCode(ctx, ben.ID, models.VerifyAccessCodeInput{PantryID: defaulted.ID, AccessCode: models.DefaultAccessCode})
	require.NoError(t, err)
	assert.Equal(t, models.AuthorityStaff, authority)
}

func TestUpdateAndDeleteNeedAdmin(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	admin := mysqltest.Profile(t, store, "admin@example.com")
	staff := mysqltest.Profile(t, store, "staff@example.com")
	pantry := mysqltest.Pantry(t, store, "North", admin.ID)
	mysqltest.Member(t, store, staff.ID, pantry.ID, models.AuthorityStaff)
	svc := pantries.NewService(store, access.NewChecker(store, nil), nil)

	assert.ErrorIs(t, svc.Update(ctx, staff.ID, pantry.ID, models.NewPantryInput{Name: "Renamed"}), apperr.ErrForbidden)
	require.NoError(t, svc.Update(ctx, admin.ID, pantry.ID, models.NewPantryInput{Name: "Renamed"}))

	got, err := svc.Get(ctx, pantry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	assert.ErrorIs(t, svc.Delete(ctx, staff.ID, pantry.ID), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, admin.ID, pantry.ID))

	_, err = svc.Get(ctx, pantry.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSaveInfo(t *testing.T) {
	ctx := context.Background()
	store := mysqltest.New(t)
	admin := mysqltest.Profile(t, store, "admin@example.com")
	pantry := mysqltest.Pantry(t, store, "North", admin.ID)
	svc := pantries.NewService(store, access.NewChecker(store, nil), nil)

	_, err := svc.Info(ctx, pantry.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	info, err := svc.SaveInfo(ctx, admin.ID, pantry.ID, models.PantryInfoInput{
		Name:     "North Pantry",
		Email:    "north@example.com",
		Location: "12 Main St",
		Phone:    "(650) 253-0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", info.Phone)

	stored, err := svc.Info(ctx, pantry.ID)
	require.NoError(t, err)
	assert.Equal(t, info, stored)

	_, err = svc.SaveInfo(ctx, admin.ID, pantry.ID, models.PantryInfoInput{Phone: "12"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "650-253-0000", want: "+16502530000"},
		{in: "+44 20 7031 3000", want: "+442070313000"},
		{in: "not a phone", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := pantries.NormalizePhone(tt.in, pantries.DefaultPhoneRegion)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
