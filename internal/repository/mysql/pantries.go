package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// ListPantries returns every pantry.
func (s *Store) ListPantries(ctx context.Context) ([]models.Pantry, error) {
	pantries := []models.Pantry{}
	if err := s.conn(ctx).Order("id").Find(&pantries).Error; err != nil {
		return nil, fmt.Errorf("list pantries: %w", translate(err))
	}
	return pantries, nil
}

// GetPantry loads one pantry.
func (s *Store) GetPantry(ctx context.Context, id int64) (models.Pantry, error) {
	var pantry models.Pantry
	err := first(s.conn(ctx), &pantry, "id = ?", id)
	return pantry, err
}

// CreatePantry inserts a pantry and, when adminProfileID is set, makes that
// profile its admin in the same transaction.
func (s *Store) CreatePantry(ctx context.Context, pantry *models.Pantry, adminProfileID int64) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(pantry).Error; err != nil {
			return translate(err)
		}
		if adminProfileID == 0 {
			return nil
		}
		return upsertPantryUser(tx, models.PantryUser{
			ProfileID:     adminProfileID,
			PantryID:      pantry.ID,
			UserAuthority: models.AuthorityAdmin,
		})
	})
	if err != nil {
		return fmt.Errorf("create pantry %q: %w", pantry.Name, err)
	}
	return nil
}

// UpdatePantry renames a pantry and replaces its access code hash when one
// is given.
func (s *Store) UpdatePantry(ctx context.Context, id int64, name, accessCodeHash string) error {
	changes := map[string]interface{}{"name": name}
	if accessCodeHash != "" {
		changes["access_code_hash"] = accessCodeHash
	}
	if err := affected(s.conn(ctx).Model(&models.Pantry{}).Where("id = ?", id).Updates(changes)); err != nil {
		return fmt.Errorf("update pantry %d: %w", id, err)
	}
	return nil
}

// DeletePantry removes a pantry with its memberships and contact card.
func (s *Store) DeletePantry(ctx context.Context, id int64) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("pantry_id = ?", id).Delete(&models.PantryUser{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("pantry_id = ?", id).Delete(&models.PantryInfo{}).Error; err != nil {
			return translate(err)
		}
		return affected(tx.Delete(&models.Pantry{}, id))
	})
	if err != nil {
		return fmt.Errorf("delete pantry %d: %w", id, err)
	}
	return nil
}

// ListPantryInfo returns every contact card.
func (s *Store) ListPantryInfo(ctx context.Context) ([]models.PantryInfo, error) {
	infos := []models.PantryInfo{}
	if err := s.conn(ctx).Order("pantry_id").Find(&infos).Error; err != nil {
		return nil, fmt.Errorf("list pantry info: %w", translate(err))
	}
	return infos, nil
}

// GetPantryInfo loads the contact card of a pantry.
func (s *Store) GetPantryInfo(ctx context.Context, pantryID int64) (models.PantryInfo, error) {
	var info models.PantryInfo
	err := first(s.conn(ctx), &info, "pantry_id = ?", pantryID)
	return info, err
}

// UpsertPantryInfo creates or replaces the contact card of a pantry.
func (s *Store) UpsertPantryInfo(ctx context.Context, info models.PantryInfo) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pantry_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "location", "phone"}),
	}).Create(&info).Error
	if err != nil {
		return fmt.Errorf("upsert pantry info %d: %w", info.PantryID, translate(err))
	}
	return nil
}

// ListPantryUsers returns every membership.
func (s *Store) ListPantryUsers(ctx context.Context) ([]models.PantryUser, error) {
	users := []models.PantryUser{}
	if err := s.conn(ctx).Order("pantry_id, profile_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list pantry users: %w", translate(err))
	}
	return users, nil
}

// ListPantryMembers joins a pantry's memberships with profile data.
func (s *Store) ListPantryMembers(ctx context.Context, pantryID int64) ([]models.PantryMember, error) {
	members := []models.PantryMember{}
	err := s.conn(ctx).Table("pantry_users AS pu").
		Select("pu.profile_id, p.name, p.email, p.email_preference, pu.user_authority").
		Joins("JOIN profiles AS p ON p.id = pu.profile_id").
		Where("pu.pantry_id = ?", pantryID).
		Order("p.name").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members of pantry %d: %w", pantryID, translate(err))
	}
	return members, nil
}

// AddPantryUser inserts a membership. An existing membership fails with
// ErrDuplicate.
func (s *Store) AddPantryUser(ctx context.Context, user models.PantryUser) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Profile{}, "id = ?", user.ProfileID); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Pantry{}, "id = ?", user.PantryID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.PantryUser{}).
			Where("profile_id = ? AND pantry_id = ?", user.ProfileID, user.PantryID).
			Count(&count).Error; err != nil {
			return translate(err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		return translate(tx.Create(&user).Error)
	})
	if err != nil {
		return fmt.Errorf("add pantry user %d/%d: %w", user.ProfileID, user.PantryID, err)
	}
	return nil
}

// UpsertPantryUser sets a profile's authority in a pantry, creating the
// membership when needed.
func (s *Store) UpsertPantryUser(ctx context.Context, user models.PantryUser) error {
	if err := upsertPantryUser(s.conn(ctx), user); err != nil {
		return fmt.Errorf("upsert pantry user %d/%d: %w", user.ProfileID, user.PantryID, err)
	}
	return nil
}

func upsertPantryUser(db *gorm.DB, user models.PantryUser) error {
	return translate(db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "pantry_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_authority"}),
	}).Create(&user).Error)
}

// DeletePantryUser removes a membership.
func (s *Store) DeletePantryUser(ctx context.Context, profileID, pantryID int64) error {
	result := s.conn(ctx).Where("profile_id = ? AND pantry_id = ?", profileID, pantryID).
		Delete(&models.PantryUser{})
	if err := affected(result); err != nil {
		return fmt.Errorf("delete pantry user %d/%d: %w", profileID, pantryID, err)
	}
	return nil
}

// UpdateAuthority changes the authority of an existing membership.
func (s *Store) UpdateAuthority(ctx context.Context, profileID, pantryID int64, authority models.Authority) error {
	result := s.conn(ctx).Model(&models.PantryUser{}).
		Where("profile_id = ? AND pantry_id = ?", profileID, pantryID).
		Update("user_authority", authority)
	if err := affected(result); err != nil {
		return fmt.Errorf("update authority %d/%d: %w", profileID, pantryID, err)
	}
	return nil
}

// Authority returns a profile's authority in a pantry.
func (s *Store) Authority(ctx context.Context, profileID, pantryID int64) (models.Authority, error) {
	var user models.PantryUser
	if err := first(s.conn(ctx), &user, "profile_id = ? AND pantry_id = ?", profileID, pantryID); err != nil {
		return "", err
	}
	return user.UserAuthority, nil
}

// Subscriptions lists the pantries a profile belongs to.
func (s *Store) Subscriptions(ctx context.Context, profileID int64) ([]models.SubscribedPantry, error) {
	subscriptions := []models.SubscribedPantry{}
	err := s.conn(ctx).Table("pantry_users AS pu").
		Select("pu.pantry_id, p.name AS pantry_name, pu.user_authority").
		Joins("JOIN pantries AS p ON p.id = pu.pantry_id").
		Where("pu.profile_id = ?", profileID).
		Order("pu.pantry_id").
		Scan(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriptions of profile %d: %w", profileID, translate(err))
	}
	return subscriptions, nil
}

// SubscriberEmails returns the email of every member of a pantry. With
// optedInOnly set, members who turned email off are skipped.
func (s *Store) SubscriberEmails(ctx context.Context, pantryID int64, optedInOnly bool) ([]string, error) {
	query := s.conn(ctx).Table("profiles AS p").
		Joins("JOIN pantry_users AS pu ON pu.profile_id = p.id").
		Where("pu.pantry_id = ?", pantryID)
	if optedInOnly {
		query = query.Where("p.email_preference = ?", true)
	}
	emails := []string{}
	if err := query.Order("p.id").Pluck("p.email", &emails).Error; err != nil {
		return nil, fmt.Errorf("list subscriber emails of pantry %d: %w", pantryID, translate(err))
	}
	return emails, nil
}

// SubscriberProfileIDs returns the profile ID of every member of a pantry.
func (s *Store) SubscriberProfileIDs(ctx context.Context, pantryID int64) ([]int64, error) {
	ids := []int64{}
	err := s.conn(ctx).Model(&models.PantryUser{}).
		Where("pantry_id = ?", pantryID).
		Order("profile_id").
		Pluck("profile_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list subscribers of pantry %d: %w", pantryID, translate(err))
	}
	return ids, nil
}

// StaffProfileIDs returns members holding at least staff authority.
func (s *Store) StaffProfileIDs(ctx context.Context, pantryID int64) ([]int64, error) {
	ids := []int64{}
	err := s.conn(ctx).Model(&models.PantryUser{}).
		Where("pantry_id = ? AND user_authority IN ?", pantryID,
			[]models.Authority{models.AuthorityStaff, models.AuthorityAdmin}).
		Order("profile_id").
		Pluck("profile_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list staff of pantry %d: %w", pantryID, translate(err))
	}
	return ids, nil
}
