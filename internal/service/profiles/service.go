package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
)

// Store is the persistence surface for profiles and pantry memberships.
type Store interface {
	UpsertProfileByEmail(ctx context.Context, in models.SignInInput) (models.Profile, bool, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	ListPantryProfiles(ctx context.Context, pantryID int64) ([]models.Profile, error)
	GetProfile(ctx context.Context, id int64) (models.Profile, error)
	UpdateProfile(ctx context.Context, id int64, in models.UpdateProfileInput) (models.Profile, error)
	DeleteProfile(ctx context.Context, id int64) error

	ListPantryUsers(ctx context.Context) ([]models.PantryUser, error)
	ListPantryMembers(ctx context.Context, pantryID int64) ([]models.PantryMember, error)
	AddPantryUser(ctx context.Context, user models.PantryUser) error
	DeletePantryUser(ctx context.Context, profileID, pantryID int64) error
	UpdateAuthority(ctx context.Context, profileID, pantryID int64, authority models.Authority) error

	Subscriptions(ctx context.Context, profileID int64) ([]models.SubscribedPantry, error)
	SubscriberEmails(ctx context.Context, pantryID int64, optedInOnly bool) ([]string, error)
	SubscriberProfileIDs(ctx context.Context, pantryID int64) ([]int64, error)
}

// TokenIssuer signs session tokens for signed-in profiles.
type TokenIssuer interface {
	Issue(profileID int64, email string) (string, time.Time, error)
}

// Session is returned by SignIn.
type Session struct {
	Profile   models.Profile `json:"profile"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Created   bool           `json:"-"`
}

// Service manages profiles, memberships and subscriptions.
type Service struct {
	store  Store
	tokens TokenIssuer
	access *access.Checker
	logger *zap.Logger
}

// NewService constructs a profile service.
func NewService(store Store, tokens TokenIssuer, checker *access.Checker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, tokens: tokens, access: checker, logger: logger}
}

var (
	errProfileNotFound    = apperr.NotFound("Profile not found")
	errPantryUserNotFound = apperr.NotFound("Pantry user not found")
	errBadCredentials     = apperr.Wrap(apperr.ErrUnauthenticated, "Invalid email or password.", nil)
)

// SignIn opens a session for an email address. An unknown email creates the
// profile with the given password; a known one must present its password
// before any of its fields are refreshed.
func (s *Service) SignIn(ctx context.Context, in models.SignInInput) (Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" {
		return Session{}, apperr.Invalid("Email and password are required.")
	}

	existing, err := s.store.GetProfileByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if !passwordMatches(existing.PasswordHash, in.Password) {
			s.logger.Warn("sign in rejected", zap.Int64("profile_id", existing.ID))
			return Session{}, errBadCredentials
		}
	case errors.Is(err, mysql.ErrNotFound):
		if in.PasswordHash, err = HashPassword(in.Password); err != nil {
			return Session{}, err
		}
	default:
		return Session{}, err
	}

	profile, created, err := s.store.UpsertProfileByEmail(ctx, in)
	if err != nil {
		return Session{}, err
	}
	// A concurrent first sign-in for the same email may have won the insert.
	if !created && !passwordMatches(profile.PasswordHash, in.Password) {
		return Session{}, errBadCredentials
	}
	token, expiresAt, err := s.tokens.Issue(profile.ID, profile.Email)
	if err != nil {
		return Session{}, err
	}

	s.logger.Info("profile signed in", zap.Int64("profile_id", profile.ID), zap.Bool("created", created))
	return Session{Profile: profile, Token: token, ExpiresAt: expiresAt, Created: created}, nil
}

// HashPassword bcrypt-hashes a sign-in password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func passwordMatches(hash, password string) bool {
	return hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// List returns the profiles of a pantry's members. Staff only.
func (s *Service) List(ctx context.Context, actor, pantryID int64) ([]models.Profile, error) {
	if pantryID == 0 {
		return nil, apperr.Invalid("pantryID is required.")
	}
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	return s.store.ListPantryProfiles(ctx, pantryID)
}

// Get returns a profile together with the pantries it belongs to. Profiles
// may read themselves; staff may read members of their pantries.
func (s *Service) Get(ctx context.Context, actor, id int64) (models.ProfileDetail, error) {
	if actor == 0 {
		return models.ProfileDetail{}, apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	profile, err := s.store.GetProfile(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return models.ProfileDetail{}, errProfileNotFound
	}
	if err != nil {
		return models.ProfileDetail{}, err
	}
	subs, err := s.store.Subscriptions(ctx, id)
	if err != nil {
		return models.ProfileDetail{}, err
	}
	if actor != id {
		if err := s.requireStaffOfAny(ctx, actor, subs); err != nil {
			return models.ProfileDetail{}, err
		}
	}
	return models.ProfileDetail{Profile: profile, SubscribedPantryList: subs}, nil
}

func (s *Service) requireStaffOfAny(ctx context.Context, actor int64, subs []models.SubscribedPantry) error {
	for _, sub := range subs {
		authority, err := s.access.Authority(ctx, actor, sub.PantryID)
		if err != nil {
			return err
		}
		if authority.AtLeast(models.AuthorityStaff) {
			return nil
		}
	}
	return apperr.Forbidden("You can only view your own profile or members of your pantries.")
}

// Update edits the caller's own profile. Changing an authority through it
// needs admin rights in the target pantry.
func (s *Service) Update(ctx context.Context, actor, id int64, in models.UpdateProfileInput) (models.Profile, error) {
	if err := requireSelf(actor, id); err != nil {
		return models.Profile{}, err
	}
	if in.UserAuthority != "" {
		if in.PantryID == 0 {
			return models.Profile{}, apperr.Invalid("pantryID is required when setting userAuthority.")
		}
		if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityAdmin); err != nil {
			return models.Profile{}, err
		}
	}
	in.Name = strings.TrimSpace(in.Name)

	profile, err := s.store.UpdateProfile(ctx, id, in)
	if errors.Is(err, mysql.ErrNotFound) {
		return models.Profile{}, errProfileNotFound
	}
	return profile, err
}

// Delete removes the caller's own profile and everything hanging off it.
func (s *Service) Delete(ctx context.Context, actor, id int64) error {
	if err := requireSelf(actor, id); err != nil {
		return err
	}
	err := s.store.DeleteProfile(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return errProfileNotFound
	}
	if err == nil {
		s.logger.Warn("profile deleted", zap.Int64("profile_id", id))
	}
	return err
}

func requireSelf(actor, profileID int64) error {
	if actor == 0 {
		return apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	if actor != profileID {
		return apperr.Forbidden("You can only change your own profile.")
	}
	return nil
}

// ListPantryUsers returns every membership row.
func (s *Service) ListPantryUsers(ctx context.Context) ([]models.PantryUser, error) {
	return s.store.ListPantryUsers(ctx)
}

// ListMembers returns a pantry's members with their profiles. Staff only.
func (s *Service) ListMembers(ctx context.Context, actor, pantryID int64) ([]models.PantryMember, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	return s.store.ListPantryMembers(ctx, pantryID)
}

// AddPantryUser adds a membership. Profiles may subscribe themselves as
// recipients; any other grant needs admin rights.
func (s *Service) AddPantryUser(ctx context.Context, actor int64, user models.PantryUser) error {
	if !user.UserAuthority.Valid() {
		return apperr.Invalid("userAuthority must be admin, staff or recipient.")
	}
	selfSubscribe := actor != 0 && actor == user.ProfileID && user.UserAuthority == models.AuthorityRecipient
	if !selfSubscribe {
		if err := s.access.Require(ctx, actor, user.PantryID, models.AuthorityAdmin); err != nil {
			return err
		}
	}

	err := s.store.AddPantryUser(ctx, user)
	switch {
	case errors.Is(err, mysql.ErrDuplicate):
		return apperr.Invalid("Profile is already a member of this pantry.")
	case errors.Is(err, mysql.ErrReference):
		return apperr.Invalid("Invalid profileID or pantryID.")
	}
	return err
}

// RemovePantryUser ends a membership. Members may leave; admins may remove
// anyone.
func (s *Service) RemovePantryUser(ctx context.Context, actor, profileID, pantryID int64) error {
	if err := s.access.RequireSelfOr(ctx, actor, profileID, pantryID, models.AuthorityAdmin); err != nil {
		return err
	}
	err := s.store.DeletePantryUser(ctx, profileID, pantryID)
	if errors.Is(err, mysql.ErrNotFound) {
		return errPantryUserNotFound
	}
	return err
}

// UpdateAuthority changes a member's role. Admin only.
func (s *Service) UpdateAuthority(ctx context.Context, actor, profileID, pantryID int64, authority models.Authority) error {
	if !authority.Valid() {
		return apperr.Invalid("userAuthority must be admin, staff or recipient.")
	}
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityAdmin); err != nil {
		return err
	}
	err := s.store.UpdateAuthority(ctx, profileID, pantryID, authority)
	if errors.Is(err, mysql.ErrNotFound) {
		return errPantryUserNotFound
	}
	if err == nil {
		s.logger.Info("authority changed",
			zap.Int64("pantry_id", pantryID),
			zap.Int64("profile_id", profileID),
			zap.String("authority", string(authority)),
			zap.Int64("by", actor))
	}
	return err
}

// Subscriptions returns the pantries a profile belongs to.
func (s *Service) Subscriptions(ctx context.Context, profileID int64) ([]models.SubscribedPantry, error) {
	return s.store.Subscriptions(ctx, profileID)
}

// SubscriberEmails returns the email of every member of a pantry. Staff
// only.
func (s *Service) SubscriberEmails(ctx context.Context, actor, pantryID int64) ([]string, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	emails, err := s.store.SubscriberEmails(ctx, pantryID, false)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return nil, apperr.NotFound("No emails found for the given pantry ID")
	}
	return emails, nil
}

// SubscriberProfileIDs returns the id of every member of a pantry. Staff
// only.
func (s *Service) SubscriberProfileIDs(ctx context.Context, actor, pantryID int64) ([]int64, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	ids, err := s.store.SubscriberProfileIDs(ctx, pantryID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, apperr.NotFound("No profiles found for the given pantry ID")
	}
	return ids, nil
}
