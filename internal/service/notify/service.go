package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
	"github.com/mamadbah2/pantry-helper/pkg/clients/mailer"
)

// Store is the persistence surface for notifications and recipients.
type Store interface {
	ListNotificationsByPantry(ctx context.Context, pantryID int64) ([]models.Notification, error)
	ListNotificationsByProfile(ctx context.Context, profileID int64) ([]models.Notification, error)
	GetNotification(ctx context.Context, id int64) (models.Notification, error)
	AddNotification(ctx context.Context, notification *models.Notification) error
	AddNotifications(ctx context.Context, notifications []models.Notification) error
	DeleteNotification(ctx context.Context, id int64) error
	MarkNotificationsRead(ctx context.Context, profileID int64) (int64, error)
	SubscriberEmails(ctx context.Context, pantryID int64, optedInOnly bool) ([]string, error)
	SubscriberProfileIDs(ctx context.Context, pantryID int64) ([]int64, error)
	StaffProfileIDs(ctx context.Context, pantryID int64) ([]int64, error)
	GetPantryInfo(ctx context.Context, pantryID int64) (models.PantryInfo, error)
	GetProfile(ctx context.Context, id int64) (models.Profile, error)
}

// Service stores in-app notifications and sends pantry emails.
type Service struct {
	store       Store
	mail        mailer.Client
	access      *access.Checker
	pantryInbox string
	logger      *zap.Logger
}

// NewService constructs a notification service. mail may be nil, in which
// case only in-app notifications are produced.
func NewService(store Store, mail mailer.Client, checker *access.Checker, pantryInbox string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, mail: mail, access: checker, pantryInbox: pantryInbox, logger: logger}
}

// ListForPantry returns notifications sent on behalf of a pantry. Staff only.
func (s *Service) ListForPantry(ctx context.Context, actor, pantryID int64) ([]models.Notification, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	return s.store.ListNotificationsByPantry(ctx, pantryID)
}

// ListForProfile returns a profile's inbox. Profiles only read their own.
func (s *Service) ListForProfile(ctx context.Context, actor, profileID int64) ([]models.Notification, error) {
	if err := requireSelf(actor, profileID); err != nil {
		return nil, err
	}
	return s.store.ListNotificationsByProfile(ctx, profileID)
}

// Add stores a notification. Staff may notify any profile; anyone may write
// to their own inbox.
func (s *Service) Add(ctx context.Context, actor int64, in models.NotificationInput) (int64, error) {
	if in.ProfileID == 0 || in.PantryID == 0 || strings.TrimSpace(in.Detail) == "" {
		return 0, apperr.Invalid("profileID, pantryID and detail are required.")
	}
	if err := s.access.RequireSelfOr(ctx, actor, in.ProfileID, in.PantryID, models.AuthorityStaff); err != nil {
		return 0, err
	}

	notification := models.Notification{
		ProfileID: in.ProfileID,
		PantryID:  in.PantryID,
		Detail:    strings.TrimSpace(in.Detail),
		IsRead:    in.IsRead,
	}
	if err := s.store.AddNotification(ctx, &notification); err != nil {
		return 0, err
	}
	return notification.ID, nil
}

// Delete removes a notification owned by the actor, or any notification of a
// pantry the actor staffs.
func (s *Service) Delete(ctx context.Context, actor, id int64) error {
	notification, err := s.store.GetNotification(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return apperr.NotFound("Notification not found")
	}
	if err != nil {
		return err
	}
	if err := s.access.RequireSelfOr(ctx, actor, notification.ProfileID, notification.PantryID, models.AuthorityStaff); err != nil {
		return err
	}

	err = s.store.DeleteNotification(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return apperr.NotFound("Notification not found")
	}
	return err
}

// MarkAllRead marks a profile's inbox read and reports how many changed.
func (s *Service) MarkAllRead(ctx context.Context, actor, profileID int64) (int64, error) {
	if err := requireSelf(actor, profileID); err != nil {
		return 0, err
	}
	return s.store.MarkNotificationsRead(ctx, profileID)
}

func requireSelf(actor, profileID int64) error {
	if actor == 0 {
		return apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	if actor != profileID {
		return apperr.Forbidden("You can only access your own notifications.")
	}
	return nil
}

// EventAnnounced tells every member of the event's pantry about it.
func (s *Service) EventAnnounced(ctx context.Context, event models.Event) {
	date := formatEventDate(event)
	detail := fmt.Sprintf("New event: %s on %s at %s.", event.EventTitle, date, event.EventLocation)
	body := fmt.Sprintf(`Dear Valued Member,

We are excited to announce a new event!

Here are the details:

Event Name: %s
Date: %s
Location: %s
Event Details: %s

We look forward to seeing you at the event!

Warm regards,
Pantry Helper`, event.EventTitle, date, event.EventLocation, event.EventDetail)

	s.broadcast(ctx, event.PantryID, detail, "New Event: "+event.EventTitle, body)
}

// EventCancelled tells every member of the event's pantry it was cancelled.
func (s *Service) EventCancelled(ctx context.Context, event models.Event) {
	date := formatEventDate(event)
	detail := fmt.Sprintf("Event cancelled: %s on %s.", event.EventTitle, date)
	body := fmt.Sprintf(`Dear Valued Member,

We regret to inform you that the event "%s" scheduled for %s at %s has been cancelled due to unforeseen circumstances.

We apologize for any inconvenience this may cause and appreciate your understanding. Please feel free to reach out to us if you have any questions or need further information.

Thank you for your continued support. We look forward to seeing you at our future events.

Warm regards,
Pantry Helper`, event.EventTitle, date, event.EventLocation)

	s.broadcast(ctx, event.PantryID, detail, "Event Cancelled: "+event.EventTitle, body)
}

func formatEventDate(event models.Event) string {
	if event.EventDate.IsZero() {
		return "a date to be announced"
	}
	return event.EventDate.Format("January 2, 2006")
}

// broadcast never fails the caller: the event itself is already stored.
func (s *Service) broadcast(ctx context.Context, pantryID int64, detail, subject, body string) {
	logger := s.logger.With(zap.Int64("pantry_id", pantryID), zap.String("subject", subject))

	ids, err := s.store.SubscriberProfileIDs(ctx, pantryID)
	if err != nil {
		logger.Error("failed to load subscribers", zap.Error(err))
		return
	}
	notifications := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		notifications = append(notifications, models.Notification{ProfileID: id, PantryID: pantryID, Detail: detail})
	}
	if err := s.store.AddNotifications(ctx, notifications); err != nil {
		logger.Error("failed to store notifications", zap.Error(err))
	}

	if s.mail == nil {
		return
	}
	emails, err := s.store.SubscriberEmails(ctx, pantryID, true)
	if err != nil {
		logger.Error("failed to load subscriber emails", zap.Error(err))
		return
	}
	if len(emails) == 0 {
		logger.Info("no subscribed emails, skipping email")
		return
	}
	if err := s.mail.Send(ctx, mailer.Message{To: emails, Subject: subject, Body: body}); err != nil {
		if errors.Is(err, mailer.ErrDisabled) {
			logger.Debug("email disabled, skipping")
			return
		}
		logger.Warn("failed to send email", zap.Error(err), zap.Int("recipients", len(emails)))
		return
	}
	logger.Info("email sent", zap.Int("recipients", len(emails)))
}

// NotifyStaff stores one notification for each staff member of a pantry.
func (s *Service) NotifyStaff(ctx context.Context, pantryID int64, detail string) (int, error) {
	ids, err := s.store.StaffProfileIDs(ctx, pantryID)
	if err != nil {
		return 0, err
	}
	notifications := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		notifications = append(notifications, models.Notification{ProfileID: id, PantryID: pantryID, Detail: detail})
	}
	if err := s.store.AddNotifications(ctx, notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}

// ContactPantry emails a pantry on behalf of the signed-in profile. Replies go
// to the sender.
func (s *Service) ContactPantry(ctx context.Context, actor, pantryID int64, in models.ContactPantryInput) error {
	if actor == 0 {
		return apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	if s.mail == nil {
		return apperr.Unavailable("Email is not configured.")
	}

	sender, err := s.store.GetProfile(ctx, actor)
	if errors.Is(err, mysql.ErrNotFound) {
		return apperr.Wrap(apperr.ErrUnauthenticated, "Profile no longer exists.", nil)
	}
	if err != nil {
		return err
	}

	to := s.pantryInbox
	info, err := s.store.GetPantryInfo(ctx, pantryID)
	switch {
	case err == nil && info.Email != "":
		to = info.Email
	case err != nil && !errors.Is(err, mysql.ErrNotFound):
		return err
	}
	if to == "" {
		return apperr.Invalid("No pantry email available.")
	}

	err = s.mail.Send(ctx, mailer.Message{
		To:      []string{to},
		ReplyTo: sender.Email,
		Subject: strings.TrimSpace(in.Subject),
		Body:    in.Body + "\n\nEmail sent through Pantry Helper. For sender Email, check 'Reply To'.",
	})
	if errors.Is(err, mailer.ErrDisabled) {
		return apperr.Unavailable("Email is not configured.")
	}
	if err != nil {
		s.logger.Warn("contact email failed", zap.Int64("pantry_id", pantryID), zap.Error(err))
		return apperr.Wrap(apperr.ErrUnavailable, "Failed to send email.", err)
	}
	return nil
}
