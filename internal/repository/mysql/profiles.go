package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// UpsertProfileByEmail refreshes the profile owning in.Email or creates it.
// Only the fields present in the input are changed on an existing profile;
// new profiles opt in to email unless told otherwise. created reports which
// branch ran.
func (s *Store) UpsertProfileByEmail(ctx context.Context, in models.SignInInput) (models.Profile, bool, error) {
	var profile models.Profile
	created := false
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var existing models.Profile
		lookup := first(tx, &existing, "email = ?", in.Email)
		switch {
		case lookup == nil:
			changes := map[string]interface{}{}
			if in.Name != "" {
				changes["name"] = in.Name
			}
			if in.EmailPreference != nil {
				changes["email_preference"] = *in.EmailPreference
			}
			if in.CurrentPantry != nil {
				changes["current_pantry"] = *in.CurrentPantry
			}
			if existing.PasswordHash == "" && in.PasswordHash != "" {
				changes["password_hash"] = in.PasswordHash
			}
			if len(changes) > 0 {
				if err := tx.Model(&existing).Updates(changes).Error; err != nil {
					return translate(err)
				}
			}
			return first(tx, &profile, "id = ?", existing.ID)
		case !errors.Is(lookup, ErrNotFound):
			return lookup
		}

		profile = models.Profile{
			Name:            in.Name,
			Email:           in.Email,
			EmailPreference: in.EmailPreference == nil || *in.EmailPreference,
			CurrentPantry:   in.CurrentPantry,
			PasswordHash:    in.PasswordHash,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return translate(err)
		}
		created = true
		return nil
	})
	if err != nil {
		return models.Profile{}, false, fmt.Errorf("sign in %s: %w", in.Email, err)
	}
	return profile, created, nil
}

// ListPantryProfiles returns the profiles of every member of a pantry.
func (s *Store) ListPantryProfiles(ctx context.Context, pantryID int64) ([]models.Profile, error) {
	profiles := []models.Profile{}
	err := s.conn(ctx).Table("profiles AS p").
		Select("p.*").
		Joins("JOIN pantry_users AS pu ON pu.profile_id = p.id").
		Where("pu.pantry_id = ?", pantryID).
		Order("p.id").
		Scan(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("list profiles of pantry %d: %w", pantryID, translate(err))
	}
	return profiles, nil
}

// GetProfileByEmail loads the profile owning an email address.
func (s *Store) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var profile models.Profile
	err := first(s.conn(ctx), &profile, "email = ?", email)
	return profile, err
}

// GetProfile loads one profile.
func (s *Store) GetProfile(ctx context.Context, id int64) (models.Profile, error) {
	var profile models.Profile
	err := first(s.conn(ctx), &profile, "id = ?", id)
	return profile, err
}

// UpdateProfile edits a profile and, when authority is set, upserts the
// profile's membership in pantryID within the same transaction.
func (s *Store) UpdateProfile(ctx context.Context, id int64, in models.UpdateProfileInput) (models.Profile, error) {
	var profile models.Profile
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		changes := map[string]interface{}{
			"current_pantry": in.CurrentPantry,
		}
		if in.Name != "" {
			changes["name"] = in.Name
		}
		if in.EmailPreference != nil {
			changes["email_preference"] = *in.EmailPreference
		}
		if err := affected(tx.Model(&models.Profile{}).Where("id = ?", id).Updates(changes)); err != nil {
			return err
		}
		if in.UserAuthority != "" && in.PantryID != 0 {
			if err := upsertPantryUser(tx, models.PantryUser{
				ProfileID:     id,
				PantryID:      in.PantryID,
				UserAuthority: in.UserAuthority,
			}); err != nil {
				return err
			}
		}
		return first(tx, &profile, "id = ?", id)
	})
	if err != nil {
		return models.Profile{}, fmt.Errorf("update profile %d: %w", id, err)
	}
	return profile, nil
}

// DeleteProfile removes a profile with its memberships, requests and
// notifications.
func (s *Store) DeleteProfile(ctx context.Context, id int64) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.PantryUser{}, &models.Request{}, &models.Notification{}} {
			if err := tx.Where("profile_id = ?", id).Delete(model).Error; err != nil {
				return translate(err)
			}
		}
		return affected(tx.Delete(&models.Profile{}, id))
	})
	if err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}
	return nil
}
