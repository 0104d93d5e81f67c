package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// GetLayout returns the floor plan boxes of a pantry.
func (s *Store) GetLayout(ctx context.Context, pantryID int64) ([]models.MapLayoutBox, error) {
	boxes := []models.MapLayoutBox{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).Order("id").Find(&boxes).Error; err != nil {
		return nil, fmt.Errorf("get layout of pantry %d: %w", pantryID, translate(err))
	}
	return boxes, nil
}

// SaveLayout replaces a pantry's boxes wholesale. Items that lose their box
// lose their location; items placed on a box get the box name as location.
func (s *Store) SaveLayout(ctx context.Context, pantryID int64, layout []models.MapLayoutBox) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var previous []models.MapLayoutBox
		if err := tx.Where("pantry_id = ?", pantryID).Find(&previous).Error; err != nil {
			return translate(err)
		}

		placed := make(map[int64]struct{}, len(layout))
		for _, box := range layout {
			if box.ItemID != nil {
				placed[*box.ItemID] = struct{}{}
			}
		}

		var released []int64
		for _, box := range previous {
			if box.ItemID == nil {
				continue
			}
			if _, ok := placed[*box.ItemID]; !ok {
				released = append(released, *box.ItemID)
			}
		}
		if len(released) > 0 {
			if err := tx.Where("pantry_id = ? AND inventory_id IN ?", pantryID, released).
				Delete(&models.Location{}).Error; err != nil {
				return translate(err)
			}
		}

		if err := tx.Where("pantry_id = ?", pantryID).Delete(&models.MapLayoutBox{}).Error; err != nil {
			return translate(err)
		}
		if len(layout) == 0 {
			return nil
		}

		boxes := make([]models.MapLayoutBox, len(layout))
		for i, box := range layout {
			box.ID = 0
			box.PantryID = pantryID
			boxes[i] = box
		}
		if err := tx.Create(&boxes).Error; err != nil {
			return translate(err)
		}

		for _, box := range boxes {
			if box.ItemID == nil {
				continue
			}
			location := models.Location{
				PantryID:     pantryID,
				InventoryID:  *box.ItemID,
				LocationName: box.Name,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "pantry_id"}, {Name: "inventory_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"location_name"}),
			}).Create(&location).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save layout of pantry %d: %w", pantryID, err)
	}
	return nil
}

// LocationOf returns the location label of an item.
func (s *Store) LocationOf(ctx context.Context, pantryID, inventoryID int64) (models.Location, error) {
	var location models.Location
	err := first(s.conn(ctx), &location, "pantry_id = ? AND inventory_id = ?", pantryID, inventoryID)
	return location, err
}
