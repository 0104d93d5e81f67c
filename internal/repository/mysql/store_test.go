package mysql

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := New(db, nil)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func seedPantry(t *testing.T, store *Store, name string) models.Pantry {
	t.Helper()
	pantry := models.Pantry{Name: name, AccessCodeHash: "hash"}
	require.NoError(t, store.CreatePantry(context.Background(), &pantry, 0))
	return pantry
}

func seedProfile(t *testing.T, store *Store, email string) models.Profile {
	t.Helper()
	profile, created, err := store.UpsertProfileByEmail(context.Background(), models.SignInInput{
		Name:  email,
		Email: email,
	})
	require.NoError(t, err)
	require.True(t, created)
	return profile
}
