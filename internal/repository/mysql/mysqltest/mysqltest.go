// Package mysqltest opens throwaway in-memory stores for service and handler
// tests.
package mysqltest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
)

// New returns a migrated store backed by a private in-memory SQLite
// database.
func New(t *testing.T) *mysql.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := mysql.New(db, nil)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Profile creates a profile for email.
func Profile(t *testing.T, store *mysql.Store, email string) models.Profile {
	t.Helper()
	profile, _, err := store.UpsertProfileByEmail(context.Background(), models.SignInInput{Name: email, Email: email})
	require.NoError(t, err)
	return profile
}

// Pantry creates a pantry administered by admin. admin may be 0.
func Pantry(t *testing.T, store *mysql.Store, name string, admin int64) models.Pantry {
	t.Helper()
	pantry := models.Pantry{Name: name, AccessCodeHash: "hash"}
	require.NoError(t, store.CreatePantry(context.Background(), &pantry, admin))
	return pantry
}

// Member grants profileID the given authority in pantryID.
func Member(t *testing.T, store *mysql.Store, profileID, pantryID int64, authority models.Authority) {
	t.Helper()
	require.NoError(t, store.UpsertPantryUser(context.Background(), models.PantryUser{
		ProfileID:     profileID,
		PantryID:      pantryID,
		UserAuthority: authority,
	}))
}

// Item adds stock to a pantry.
func Item(t *testing.T, store *mysql.Store, pantryID int64, name string, quantity int, exp *models.Date) models.InventoryItem {
	t.Helper()
	item, _, err := store.AddItem(context.Background(), models.NewItemInput{
		Name:     name,
		Quantity: quantity,
		ExpDate:  exp,
		PantryID: pantryID,
	})
	require.NoError(t, err)
	return item
}
