package mysql

import (
	"context"
	"fmt"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// ListNotificationsByPantry returns every notification sent on behalf of a
// pantry, newest first.
func (s *Store) ListNotificationsByPantry(ctx context.Context, pantryID int64) ([]models.Notification, error) {
	notifications := []models.Notification{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).
		Order("created_at DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications of pantry %d: %w", pantryID, translate(err))
	}
	return notifications, nil
}

// GetNotification loads one notification.
func (s *Store) GetNotification(ctx context.Context, id int64) (models.Notification, error) {
	var notification models.Notification
	err := first(s.conn(ctx), &notification, "id = ?", id)
	return notification, err
}

// ListNotificationsByProfile returns a profile's notifications, newest first.
func (s *Store) ListNotificationsByProfile(ctx context.Context, profileID int64) ([]models.Notification, error) {
	notifications := []models.Notification{}
	if err := s.conn(ctx).Where("profile_id = ?", profileID).
		Order("created_at DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications of profile %d: %w", profileID, translate(err))
	}
	return notifications, nil
}

// AddNotification inserts a notification and fills its ID.
func (s *Store) AddNotification(ctx context.Context, notification *models.Notification) error {
	if err := s.conn(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("add notification: %w", translate(err))
	}
	return nil
}

// AddNotifications inserts a batch of notifications.
func (s *Store) AddNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := s.conn(ctx).CreateInBatches(notifications, 100).Error; err != nil {
		return fmt.Errorf("add notifications: %w", translate(err))
	}
	return nil
}

// DeleteNotification removes a notification.
func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	if err := affected(s.conn(ctx).Delete(&models.Notification{}, id)); err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	return nil
}

// MarkNotificationsRead marks every unread notification of a profile read
// and returns how many changed.
func (s *Store) MarkNotificationsRead(ctx context.Context, profileID int64) (int64, error) {
	result := s.conn(ctx).Model(&models.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark notifications read for profile %d: %w", profileID, translate(result.Error))
	}
	return result.RowsAffected, nil
}
