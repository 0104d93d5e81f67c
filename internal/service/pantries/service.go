package pantries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
)

// DefaultPhoneRegion is used to parse phone numbers written without a
// country code.
const DefaultPhoneRegion = "US"

// Store is the persistence surface for pantries and their contact cards.
type Store interface {
	ListPantries(ctx context.Context) ([]models.Pantry, error)
	GetPantry(ctx context.Context, id int64) (models.Pantry, error)
	CreatePantry(ctx context.Context, pantry *models.Pantry, adminProfileID int64) error
	UpdatePantry(ctx context.Context, id int64, name, accessCodeHash string) error
	DeletePantry(ctx context.Context, id int64) error
	ListPantryInfo(ctx context.Context) ([]models.PantryInfo, error)
	GetPantryInfo(ctx context.Context, pantryID int64) (models.PantryInfo, error)
	UpsertPantryInfo(ctx context.Context, info models.PantryInfo) error
	UpsertPantryUser(ctx context.Context, user models.PantryUser) error
}

// Service manages pantries, their access codes and contact cards.
type Service struct {
	store  Store
	access *access.Checker
	logger *zap.Logger
}

// NewService constructs a pantry service.
func NewService(store Store, checker *access.Checker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, access: checker, logger: logger}
}

var errPantryNotFound = apperr.NotFound("Pantry not found")

// List returns every pantry.
func (s *Service) List(ctx context.Context) ([]models.Pantry, error) {
	return s.store.ListPantries(ctx)
}

// Get returns one pantry.
func (s *Service) Get(ctx context.Context, id int64) (models.Pantry, error) {
	pantry, err := s.store.GetPantry(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return models.Pantry{}, errPantryNotFound
	}
	return pantry, err
}

// Create adds a pantry and makes the caller its admin. Pantries created
// without an access code get DefaultAccessCode.
func (s *Service) Create(ctx context.Context, actor int64, in models.NewPantryInput) (models.Pantry, error) {
	if actor == 0 {
		return models.Pantry{}, apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Pantry{}, apperr.Invalid("Pantry name is required.")
	}
	code := strings.TrimSpace(in.AccessCode)
	if code == "" {
		code = models.DefaultAccessCode
	}

	hash, err := HashAccessCode(code)
	if err != nil {
		return models.Pantry{}, err
	}

	pantry := models.Pantry{Name: name, AccessCodeHash: hash}
	if err := s.store.CreatePantry(ctx, &pantry, actor); err != nil {
		return models.Pantry{}, err
	}

	s.logger.Info("pantry created", zap.Int64("pantry_id", pantry.ID), zap.Int64("admin_profile_id", actor))
	return pantry, nil
}

// Update renames a pantry and rotates its access code when one is given.
// Admin only.
func (s *Service) Update(ctx context.Context, actor, id int64, in models.NewPantryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Invalid("Pantry name is required.")
	}
	if err := s.access.Require(ctx, actor, id, models.AuthorityAdmin); err != nil {
		return err
	}

	hash := ""
	if code := strings.TrimSpace(in.AccessCode); code != "" {
		h, err := HashAccessCode(code)
		if err != nil {
			return err
		}
		hash = h
	}

	err := s.store.UpdatePantry(ctx, id, name, hash)
	if errors.Is(err, mysql.ErrNotFound) {
		return errPantryNotFound
	}
	return err
}

// Delete removes a pantry. Admin only.
func (s *Service) Delete(ctx context.Context, actor, id int64) error {
	if err := s.access.Require(ctx, actor, id, models.AuthorityAdmin); err != nil {
		return err
	}
	err := s.store.DeletePantry(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return errPantryNotFound
	}
	if err == nil {
		s.logger.Warn("pantry deleted", zap.Int64("pantry_id", id), zap.Int64("profile_id", actor))
	}
	return err
}

// VerifyAccessCode promotes the caller to staff of the pantry when the code
// matches. Admins keep their authority.
func (s *Service) VerifyAccessCode(ctx context.Context, actor int64, in models.VerifyAccessCodeInput) (models.Authority, error) {
	if actor == 0 {
		return "", apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	invalid := apperr.Invalid("Invalid access code for the selected pantry")

	pantry, err := s.store.GetPantry(ctx, in.PantryID)
	if errors.Is(err, mysql.ErrNotFound) {
		return "", invalid
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(pantry.AccessCodeHash), []byte(strings.TrimSpace(in.AccessCode))) != nil {
		s.logger.Info("access code rejected", zap.Int64("pantry_id", in.PantryID), zap.Int64("profile_id", actor))
		return "", invalid
	}

	current, err := s.access.Authority(ctx, actor, in.PantryID)
	if err != nil {
		return "", err
	}
	if current.AtLeast(models.AuthorityStaff) {
		return current, nil
	}

	if err := s.store.UpsertPantryUser(ctx, models.PantryUser{
		ProfileID:     actor,
		PantryID:      in.PantryID,
		UserAuthority: models.AuthorityStaff,
	}); err != nil {
		return "", err
	}
	s.logger.Info("profile promoted to staff", zap.Int64("pantry_id", in.PantryID), zap.Int64("profile_id", actor))
	return models.AuthorityStaff, nil
}

// ListInfo returns every contact card.
func (s *Service) ListInfo(ctx context.Context) ([]models.PantryInfo, error) {
	return s.store.ListPantryInfo(ctx)
}

// Info returns the contact card of a pantry.
func (s *Service) Info(ctx context.Context, pantryID int64) (models.PantryInfo, error) {
	info, err := s.store.GetPantryInfo(ctx, pantryID)
	if errors.Is(err, mysql.ErrNotFound) {
		return models.PantryInfo{}, apperr.NotFound("Pantry info not found")
	}
	return info, err
}

// SaveInfo creates or replaces a pantry's contact card. Admin only. Phone
// numbers are stored in E.164.
func (s *Service) SaveInfo(ctx context.Context, actor, pantryID int64, in models.PantryInfoInput) (models.PantryInfo, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityAdmin); err != nil {
		return models.PantryInfo{}, err
	}

	info := models.PantryInfo{
		PantryID: pantryID,
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Location: strings.TrimSpace(in.Location),
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		normalized, err := NormalizePhone(phone, DefaultPhoneRegion)
		if err != nil {
			return models.PantryInfo{}, apperr.Invalid(err.Error())
		}
		info.Phone = normalized
	}

	if err := s.store.UpsertPantryInfo(ctx, info); err != nil {
		return models.PantryInfo{}, err
	}
	return info, nil
}

// HashAccessCode bcrypt-hashes a pantry access code.
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash access code: %w", err)
	}
	return string(hash), nil
}

// NormalizePhone parses a phone number and formats it as E.164.
func NormalizePhone(phone, region string) (string, error) {
	p, err := libphonenumber.Parse(phone, region)
	if err != nil {
		return "", fmt.Errorf("phone number %q is invalid", phone)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number %q is not valid", phone)
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}
