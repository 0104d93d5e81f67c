package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

func TestSaveLayoutReleasesRemovedBoxLocation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")

	beans, _, err := store.AddItem(ctx, models.NewItemInput{Name: "Beans", Quantity: 1, PantryID: pantry.ID})
	require.NoError(t, err)
	corn, _, err := store.AddItem(ctx, models.NewItemInput{Name: "Corn", Quantity: 1, PantryID: pantry.ID})
	require.NoError(t, err)

	beansID, cornID := beans.ID, corn.ID
	require.NoError(t, store.SaveLayout(ctx, pantry.ID, []models.MapLayoutBox{
		{BoxID: "a", W: 1, H: 1, Name: "Aisle 1", ItemID: &beansID},
		{BoxID: "b", W: 1, H: 1, Name: "Aisle 2", ItemID: &cornID},
	}))

	require.NoError(t, store.SaveLayout(ctx, pantry.ID, []models.MapLayoutBox{
		{BoxID: "b", W: 1, H: 1, Name: "Aisle 2 (moved)", ItemID: &cornID},
	}))

	_, err = store.LocationOf(ctx, pantry.ID, beans.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	location, err := store.LocationOf(ctx, pantry.ID, corn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aisle 2 (moved)", location.LocationName)

	listings, err := store.ListItems(ctx, pantry.ID)
	require.NoError(t, err)
	byName := map[string]models.InventoryListing{}
	for _, l := range listings {
		byName[l.Name] = l
	}
	assert.Nil(t, byName["Beans"].LocationName)
	require.NotNil(t, byName["Corn"].LocationName)
	assert.Equal(t, "Aisle 2 (moved)", *byName["Corn"].LocationName)
}

func TestSaveLayoutReplacesEveryBox(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	pantry := seedPantry(t, store, "North")
	other := seedPantry(t, store, "South")

	require.NoError(t, store.SaveLayout(ctx, other.ID, []models.MapLayoutBox{{BoxID: "keep", Name: "Other"}}))
	require.NoError(t, store.SaveLayout(ctx, pantry.ID, []models.MapLayoutBox{
		{BoxID: "1", X: 1, Y: 1, W: 1, H: 1},
		{BoxID: "2", X: 2, Y: 2, W: 1, H: 1},
	}))
	require.NoError(t, store.SaveLayout(ctx, pantry.ID, []models.MapLayoutBox{
		{BoxID: "3", X: 3, Y: 3, W: 4, H: 5, Name: "Cooler"},
	}))

	boxes, err := store.GetLayout(ctx, pantry.ID)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "3", boxes[0].BoxID)
	assert.Equal(t, 4, boxes[0].W)
	assert.Equal(t, pantry.ID, boxes[0].PantryID)

	require.NoError(t, store.SaveLayout(ctx, pantry.ID, nil))
	boxes, err = store.GetLayout(ctx, pantry.ID)
	require.NoError(t, err)
	assert.Empty(t, boxes)

	untouched, err := store.GetLayout(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, untouched, 1)
}
