package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

var nowFunc = time.Now

// GetLayout returns the floor plan of a pantry.
func (s *Service) GetLayout(ctx context.Context, pantryID int64) ([]models.MapLayoutBox, error) {
	if pantryID == 0 {
		return nil, errPantryRequired
	}
	return s.store.GetLayout(ctx, pantryID)
}

// SaveLayout replaces the whole floor plan of a pantry and keeps item
// locations in step with the boxes.
func (s *Service) SaveLayout(ctx context.Context, actor int64, in models.SaveLayoutInput) error {
	if in.PantryID == 0 || in.Layout == nil {
		return apperr.Invalid("Pantry ID and layout data are required.")
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return err
	}

	items, err := s.store.ListAllItems(ctx, in.PantryID)
	if err != nil {
		return err
	}
	known := make(map[int64]struct{}, len(items))
	for _, item := range items {
		known[item.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(in.Layout))
	for i := range in.Layout {
		box := &in.Layout[i]
		box.BoxID = strings.TrimSpace(box.BoxID)
		if box.BoxID == "" {
			return apperr.Invalid("Every box needs a boxID.")
		}
		if _, dup := seen[box.BoxID]; dup {
			return apperr.Invalid(fmt.Sprintf("Box %s appears more than once.", box.BoxID))
		}
		seen[box.BoxID] = struct{}{}

		if box.ItemID != nil {
			if *box.ItemID == 0 {
				box.ItemID = nil
				continue
			}
			if _, ok := known[*box.ItemID]; !ok {
				return apperr.Invalid(fmt.Sprintf("Box %s references an item that is not in this pantry.", box.BoxID))
			}
		}
	}

	if err := s.store.SaveLayout(ctx, in.PantryID, in.Layout); err != nil {
		return err
	}

	s.logger.Info("map layout saved", zap.Int64("pantry_id", in.PantryID), zap.Int("boxes", len(in.Layout)))
	return nil
}
