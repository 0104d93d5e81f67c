package mysql

import (
	"context"
	"fmt"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// ListEvents returns a pantry's events ordered by date.
func (s *Store) ListEvents(ctx context.Context, pantryID int64) ([]models.Event, error) {
	events := []models.Event{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).
		Order("event_date, id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events of pantry %d: %w", pantryID, translate(err))
	}
	return events, nil
}

// GetEvent loads one event.
func (s *Store) GetEvent(ctx context.Context, id int64) (models.Event, error) {
	var event models.Event
	err := first(s.conn(ctx), &event, "id = ?", id)
	return event, err
}

// CreateEvent inserts an event and fills its ID.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := s.conn(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event %q: %w", event.EventTitle, translate(err))
	}
	return nil
}

// UpdateEvent overwrites an event's editable fields. The pantry never
// changes.
func (s *Store) UpdateEvent(ctx context.Context, id int64, in models.EventInput) error {
	result := s.conn(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(map[string]interface{}{
		"event_title":    in.EventTitle,
		"event_detail":   in.EventDetail,
		"icon_path":      in.IconPath,
		"event_date":     in.EventDate,
		"event_location": in.EventLocation,
	})
	if err := affected(result); err != nil {
		return fmt.Errorf("update event %d: %w", id, err)
	}
	return nil
}

// DeleteEvent removes an event.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	if err := affected(s.conn(ctx).Delete(&models.Event{}, id)); err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}
