package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

const requestKeyClause = "profile_id = ? AND pantry_id = ? AND item_name = ?"

// AddRequest stores a new request. An open request with the same key fails
// with ErrDuplicate; a completed one is reopened with the new details.
// Unknown profiles or pantries fail with ErrReference.
func (s *Store) AddRequest(ctx context.Context, request models.Request) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Profile{}, "id = ?", request.ProfileID); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Pantry{}, "id = ?", request.PantryID); err != nil {
			return err
		}

		var existing models.Request
		lookup := first(tx, &existing, requestKeyClause, request.ProfileID, request.PantryID, request.ItemName)
		switch {
		case lookup == nil && !existing.Completed:
			return ErrDuplicate
		case lookup == nil:
			return affected(tx.Model(&models.Request{}).
				Where(requestKeyClause, request.ProfileID, request.PantryID, request.ItemName).
				Updates(map[string]interface{}{
					"request_date": request.RequestDate,
					"quantity":     request.Quantity,
					"completed":    request.Completed,
				}))
		case !errors.Is(lookup, ErrNotFound):
			return lookup
		}

		return translate(tx.Create(&request).Error)
	})
	if err != nil {
		return fmt.Errorf("add request for %q: %w", request.ItemName, err)
	}
	return nil
}

func mustExist(tx *gorm.DB, model interface{}, query string, args ...interface{}) error {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrReference
	}
	return nil
}

// GetRequest loads one request.
func (s *Store) GetRequest(ctx context.Context, key models.RequestKey) (models.Request, error) {
	var request models.Request
	err := first(s.conn(ctx), &request, requestKeyClause, key.ProfileID, key.PantryID, key.ItemName)
	return request, err
}

// ListRequestsByPantry returns a pantry's requests, newest first.
func (s *Store) ListRequestsByPantry(ctx context.Context, pantryID int64) ([]models.Request, error) {
	requests := []models.Request{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).
		Order("request_date DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list requests of pantry %d: %w", pantryID, translate(err))
	}
	return requests, nil
}

// ListRequestsByProfile returns a profile's requests across pantries.
func (s *Store) ListRequestsByProfile(ctx context.Context, profileID int64) ([]models.Request, error) {
	requests := []models.Request{}
	if err := s.conn(ctx).Where("profile_id = ?", profileID).
		Order("request_date DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list requests of profile %d: %w", profileID, translate(err))
	}
	return requests, nil
}

// SetRequestCompleted flips the completion flag. Setting the current value
// again succeeds.
func (s *Store) SetRequestCompleted(ctx context.Context, key models.RequestKey, completed bool) error {
	result := s.conn(ctx).Model(&models.Request{}).
		Where(requestKeyClause, key.ProfileID, key.PantryID, key.ItemName).
		Update("completed", completed)
	if err := affected(result); err != nil {
		return fmt.Errorf("set request %q completed=%t: %w", key.ItemName, completed, err)
	}
	return nil
}

// UpdateRequest renames and/or resizes a request. Empty values are left
// unchanged.
func (s *Store) UpdateRequest(ctx context.Context, key models.RequestKey, newItemName string, newQuantity int) error {
	changes := map[string]interface{}{}
	if newItemName != "" {
		changes["item_name"] = newItemName
	}
	if newQuantity != 0 {
		changes["quantity"] = newQuantity
	}
	if len(changes) == 0 {
		return nil
	}

	result := s.conn(ctx).Model(&models.Request{}).
		Where(requestKeyClause, key.ProfileID, key.PantryID, key.ItemName).
		Updates(changes)
	if err := affected(result); err != nil {
		return fmt.Errorf("update request %q: %w", key.ItemName, err)
	}
	return nil
}

// DeleteRequest removes a request.
func (s *Store) DeleteRequest(ctx context.Context, key models.RequestKey) error {
	result := s.conn(ctx).
		Where(requestKeyClause, key.ProfileID, key.PantryID, key.ItemName).
		Delete(&models.Request{})
	if err := affected(result); err != nil {
		return fmt.Errorf("delete request %q: %w", key.ItemName, err)
	}
	return nil
}
