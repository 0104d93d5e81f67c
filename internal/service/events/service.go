package events

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
)

// Store is the persistence surface for events.
type Store interface {
	ListEvents(ctx context.Context, pantryID int64) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, id int64, in models.EventInput) error
	DeleteEvent(ctx context.Context, id int64) error
}

// Announcer tells a pantry's members about event changes.
type Announcer interface {
	EventAnnounced(ctx context.Context, event models.Event)
	EventCancelled(ctx context.Context, event models.Event)
}

// Service manages pantry events.
type Service struct {
	store    Store
	announce Announcer
	access   *access.Checker
	logger   *zap.Logger
}

// NewService constructs an event service. announce may be nil.
func NewService(store Store, announce Announcer, checker *access.Checker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, announce: announce, access: checker, logger: logger}
}

var errEventNotFound = apperr.NotFound("Event not found")

// List returns a pantry's events.
func (s *Service) List(ctx context.Context, pantryID int64) ([]models.Event, error) {
	return s.store.ListEvents(ctx, pantryID)
}

// Create stores an event and announces it. Staff only.
func (s *Service) Create(ctx context.Context, actor int64, in models.EventInput) (models.Event, error) {
	if in.PantryID == 0 {
		return models.Event{}, apperr.Invalid("pantryID is required.")
	}
	if err := validate(&in); err != nil {
		return models.Event{}, err
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return models.Event{}, err
	}

	event := models.Event{
		PantryID:      in.PantryID,
		EventTitle:    in.EventTitle,
		EventDetail:   in.EventDetail,
		IconPath:      in.IconPath,
		EventDate:     in.EventDate,
		EventLocation: in.EventLocation,
	}
	if err := s.store.CreateEvent(ctx, &event); err != nil {
		return models.Event{}, err
	}
	s.logger.Info("event created", zap.Int64("event_id", event.ID), zap.Int64("pantry_id", event.PantryID))

	if s.announce != nil {
		s.announce.EventAnnounced(ctx, event)
	}
	return event, nil
}

// Update edits an event. Staff of the event's pantry only.
func (s *Service) Update(ctx context.Context, actor, id int64, in models.EventInput) error {
	if err := validate(&in); err != nil {
		return err
	}
	event, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, actor, event.PantryID, models.AuthorityStaff); err != nil {
		return err
	}

	err = s.store.UpdateEvent(ctx, id, in)
	if errors.Is(err, mysql.ErrNotFound) {
		return errEventNotFound
	}
	return err
}

// Delete removes an event and tells subscribers it was cancelled. Staff of
// the event's pantry only.
func (s *Service) Delete(ctx context.Context, actor, id int64) error {
	event, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, actor, event.PantryID, models.AuthorityStaff); err != nil {
		return err
	}

	err = s.store.DeleteEvent(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return errEventNotFound
	}
	if err != nil {
		return err
	}
	s.logger.Info("event deleted", zap.Int64("event_id", id), zap.Int64("pantry_id", event.PantryID))

	if s.announce != nil {
		s.announce.EventCancelled(ctx, event)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (models.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return models.Event{}, errEventNotFound
	}
	return event, err
}

func validate(in *models.EventInput) error {
	in.EventTitle = strings.TrimSpace(in.EventTitle)
	in.IconPath = strings.TrimSpace(in.IconPath)
	if in.EventTitle == "" || in.IconPath == "" {
		return apperr.Invalid("Event title and icon are required.")
	}
	return nil
}
