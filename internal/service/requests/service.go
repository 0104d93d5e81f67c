package requests

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

// Store is the persistence surface for requests.
type Store interface {
	AddRequest(ctx context.Context, request models.Request) error
	GetRequest(ctx context.Context, key models.RequestKey) (models.Request, error)
	ListRequestsByPantry(ctx context.Context, pantryID int64) ([]models.Request, error)
	ListRequestsByProfile(ctx context.Context, profileID int64) ([]models.Request, error)
	SetRequestCompleted(ctx context.Context, key models.RequestKey, completed bool) error
	UpdateRequest(ctx context.Context, key models.RequestKey, newItemName string, newQuantity int) error
	DeleteRequest(ctx context.Context, key models.RequestKey) error
}

// Service manages recipients' item requests.
type Service struct {
	store  Store
	access *access.Checker
	logger *zap.Logger
}

// NewService constructs a request service.
func NewService(store Store, checker *access.Checker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, access: checker, logger: logger}
}

var (
	errMissingFields    = apperr.Invalid("Missing required fields.")
	errNotFound         = apperr.NotFound("Request not found.")
	errAlreadyRequested = apperr.Invalid("You have already requested this item.")
)

// Add submits a request on behalf of the signed-in profile. Staff may file
// requests for other profiles of their pantry.
func (s *Service) Add(ctx context.Context, actor int64, in models.NewRequestInput) error {
	in.ItemName = strings.TrimSpace(in.ItemName)
	if in.Missing() {
		return errMissingFields
	}
	if in.Quantity < 0 {
		return apperr.Invalid("Quantity must be positive.")
	}
	if err := s.access.RequireSelfOr(ctx, actor, in.ProfileID, in.PantryID, models.AuthorityStaff); err != nil {
		return err
	}

	err := s.store.AddRequest(ctx, models.Request{
		ProfileID:   in.ProfileID,
		PantryID:    in.PantryID,
		ItemName:    in.ItemName,
		RequestDate: *in.RequestDate,
		Quantity:    in.Quantity,
		Completed:   *in.Completed,
	})
	switch {
	case errors.Is(err, mysql.ErrDuplicate):
		return errAlreadyRequested
	case errors.Is(err, mysql.ErrReference):
		return apperr.Invalid("Invalid profileID or pantryID.")
	case err != nil:
		return err
	}

	s.logger.Info("request added",
		zap.Int64("profile_id", in.ProfileID),
		zap.Int64("pantry_id", in.PantryID),
		zap.String("item", in.ItemName))
	return nil
}

// ListByPantry returns a pantry's requests. Staff only.
func (s *Service) ListByPantry(ctx context.Context, actor, pantryID int64) ([]models.Request, error) {
	if pantryID == 0 {
		return nil, errMissingFields
	}
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	return s.store.ListRequestsByPantry(ctx, pantryID)
}

// ListMine returns the signed-in profile's requests.
func (s *Service) ListMine(ctx context.Context, actor int64) ([]models.Request, error) {
	if actor == 0 {
		return nil, apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	return s.store.ListRequestsByProfile(ctx, actor)
}

// SetCompleted marks a request completed or open again. Staff only; setting
// the current state again is not an error.
func (s *Service) SetCompleted(ctx context.Context, actor int64, in models.RequestStatusInput, completed bool) error {
	if in.ProfileID == 0 || in.PantryID == 0 || strings.TrimSpace(in.ItemName) == "" {
		return errMissingFields
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return err
	}

	err := s.store.SetRequestCompleted(ctx, in.Key(), completed)
	if errors.Is(err, mysql.ErrNotFound) {
		return errNotFound
	}
	return err
}

// Update renames or resizes a request. The owner or pantry staff may do so.
func (s *Service) Update(ctx context.Context, actor int64, key models.RequestKey, in models.UpdateRequestInput) error {
	in.NewItemName = strings.TrimSpace(in.NewItemName)
	if in.NewItemName == "" && in.NewQuantity == 0 {
		return apperr.Invalid("Must provide either new item name or quantity.")
	}
	if in.NewQuantity < 0 {
		return apperr.Invalid("Quantity must be positive.")
	}
	if err := s.access.RequireSelfOr(ctx, actor, key.ProfileID, key.PantryID, models.AuthorityStaff); err != nil {
		return err
	}

	err := s.store.UpdateRequest(ctx, key, in.NewItemName, in.NewQuantity)
	switch {
	case errors.Is(err, mysql.ErrDuplicate):
		return apperr.Invalid("An item with this name already exists.")
	case errors.Is(err, mysql.ErrNotFound):
		return errNotFound
	}
	return err
}

// Delete removes a request. Owners may only withdraw open requests; staff
// may delete any request of their pantry.
func (s *Service) Delete(ctx context.Context, actor int64, key models.RequestKey) error {
	authority, err := s.access.Authority(ctx, actor, key.PantryID)
	if err != nil {
		return err
	}
	isStaff := authority.AtLeast(models.AuthorityStaff)
	if !isStaff && actor != key.ProfileID {
		return apperr.Forbidden("You can only delete your own requests.")
	}

	if !isStaff {
		request, err := s.store.GetRequest(ctx, key)
		if errors.Is(err, mysql.ErrNotFound) {
			return errNotFound
		}
		if err != nil {
			return err
		}
		if request.Completed {
			return apperr.Conflict("Completed requests cannot be deleted.")
		}
	}

	err = s.store.DeleteRequest(ctx, key)
	if errors.Is(err, mysql.ErrNotFound) {
		return errNotFound
	}
	return err
}
