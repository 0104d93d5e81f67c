package inventory

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
)

// Store is the persistence surface the inventory service relies on.
type Store interface {
	ListItems(ctx context.Context, pantryID int64) ([]models.InventoryListing, error)
	ListAllItems(ctx context.Context, pantryID int64) ([]models.InventoryItem, error)
	AddItem(ctx context.Context, in models.NewItemInput) (models.InventoryItem, bool, error)
	UpdateItem(ctx context.Context, id int64, in models.UpdateItemInput) (models.InventoryItem, error)
	DeleteItem(ctx context.Context, id, pantryID int64) error
	ClearInventory(ctx context.Context, pantryID int64) (int64, error)
	RecordIncoming(ctx context.Context, entry *models.IncomingEntry) error
	RecordOutgoing(ctx context.Context, entry *models.OutgoingEntry) error
	ListIncoming(ctx context.Context, pantryID int64) ([]models.IncomingEntry, error)
	ListOutgoing(ctx context.Context, pantryID int64) ([]models.OutgoingEntry, error)
	Restock(ctx context.Context, id int64, in models.MovementInput) (models.InventoryItem, error)
	Distribute(ctx context.Context, id int64, in models.MovementInput) (models.InventoryItem, error)
	GetLayout(ctx context.Context, pantryID int64) ([]models.MapLayoutBox, error)
	SaveLayout(ctx context.Context, pantryID int64, layout []models.MapLayoutBox) error
}

// Service implements stock, ledger and floor plan bookkeeping.
type Service struct {
	store  Store
	access *access.Checker
	logger *zap.Logger
}

// NewService constructs an inventory service.
func NewService(store Store, checker *access.Checker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, access: checker, logger: logger}
}

var (
	errPantryRequired = apperr.Invalid("pantryID is required.")
	errLedgerFields   = apperr.Invalid("Item name, pantry ID and a positive quantity are required.")
)

// ListItems returns the pantry's stock with derived ledger columns.
func (s *Service) ListItems(ctx context.Context, pantryID int64) ([]models.InventoryListing, error) {
	if pantryID == 0 {
		return nil, errPantryRequired
	}
	return s.store.ListItems(ctx, pantryID)
}

// AddItem inserts a new item, or overwrites the existing item with the same
// name in the pantry.
func (s *Service) AddItem(ctx context.Context, actor int64, in models.NewItemInput) (models.InventoryItem, bool, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.PantryID == 0 {
		return models.InventoryItem{}, false, apperr.Invalid("Item name and pantry ID are required.")
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return models.InventoryItem{}, false, err
	}

	item, created, err := s.store.AddItem(ctx, in)
	if err != nil {
		return models.InventoryItem{}, false, err
	}

	s.logger.Info("inventory item saved",
		zap.Int64("pantry_id", in.PantryID),
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name),
		zap.Bool("created", created))
	return item, created, nil
}

// UpdateItem overwrites an item's name, quantity and expiration date.
func (s *Service) UpdateItem(ctx context.Context, actor, id int64, in models.UpdateItemInput) (models.InventoryItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if id == 0 || in.Name == "" || in.PantryID == 0 {
		return models.InventoryItem{}, apperr.Invalid("Item ID, name and pantry ID are required.")
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return models.InventoryItem{}, err
	}

	item, err := s.store.UpdateItem(ctx, id, in)
	switch {
	case errors.Is(err, mysql.ErrNotFound):
		return models.InventoryItem{}, apperr.NotFound(fmt.Sprintf("Item %d not found in pantry %d", id, in.PantryID))
	case errors.Is(err, mysql.ErrDuplicate):
		return models.InventoryItem{}, apperr.Invalid("An item with this name already exists in the pantry.")
	case err != nil:
		return models.InventoryItem{}, err
	}
	return item, nil
}

// DeleteItem removes an item with its location and map box.
func (s *Service) DeleteItem(ctx context.Context, actor, id, pantryID int64) error {
	if id == 0 || pantryID == 0 {
		return apperr.Invalid("Item ID and pantry ID are required.")
	}
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return err
	}

	err := s.store.DeleteItem(ctx, id, pantryID)
	if errors.Is(err, mysql.ErrNotFound) {
		return apperr.NotFound(fmt.Sprintf("Item %d not found in pantry %d", id, pantryID))
	}
	if err != nil {
		return err
	}

	s.logger.Info("inventory item deleted", zap.Int64("pantry_id", pantryID), zap.Int64("item_id", id))
	return nil
}

// ClearInventory removes every item of a pantry.
func (s *Service) ClearInventory(ctx context.Context, actor, pantryID int64) (int64, error) {
	if pantryID == 0 {
		return 0, errPantryRequired
	}
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityAdmin); err != nil {
		return 0, err
	}
	removed, err := s.store.ClearInventory(ctx, pantryID)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("inventory cleared", zap.Int64("pantry_id", pantryID), zap.Int64("removed", removed), zap.Int64("profile_id", actor))
	return removed, nil
}

// RecordIncoming appends to the incoming ledger. Quantity is untouched.
func (s *Service) RecordIncoming(ctx context.Context, actor int64, in models.IncomingInput) (models.IncomingEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.PantryID == 0 || in.Quantity <= 0 {
		return models.IncomingEntry{}, errLedgerFields
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return models.IncomingEntry{}, err
	}
	entry := models.IncomingEntry{
		PantryID: in.PantryID,
		Name:     in.Name,
		DateIn:   today(in.DateIn),
		Quantity: in.Quantity,
	}
	if err := s.store.RecordIncoming(ctx, &entry); err != nil {
		return models.IncomingEntry{}, err
	}
	return entry, nil
}

// RecordOutgoing appends to the outgoing ledger. Quantity is untouched.
func (s *Service) RecordOutgoing(ctx context.Context, actor int64, in models.OutgoingInput) (models.OutgoingEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.PantryID == 0 || in.Quantity <= 0 {
		return models.OutgoingEntry{}, errLedgerFields
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return models.OutgoingEntry{}, err
	}
	entry := models.OutgoingEntry{
		PantryID: in.PantryID,
		Name:     in.Name,
		DateOut:  today(in.DateOut),
		Quantity: in.Quantity,
	}
	if err := s.store.RecordOutgoing(ctx, &entry); err != nil {
		return models.OutgoingEntry{}, err
	}
	return entry, nil
}

// ListIncoming returns the incoming ledger of a pantry.
func (s *Service) ListIncoming(ctx context.Context, pantryID int64) ([]models.IncomingEntry, error) {
	if pantryID == 0 {
		return nil, errPantryRequired
	}
	return s.store.ListIncoming(ctx, pantryID)
}

// ListOutgoing returns the outgoing ledger of a pantry.
func (s *Service) ListOutgoing(ctx context.Context, pantryID int64) ([]models.OutgoingEntry, error) {
	if pantryID == 0 {
		return nil, errPantryRequired
	}
	return s.store.ListOutgoing(ctx, pantryID)
}

// Restock adds stock and records the incoming entry in one transaction.
func (s *Service) Restock(ctx context.Context, actor, id int64, in models.MovementInput) (models.InventoryItem, error) {
	return s.move(ctx, actor, id, in, s.store.Restock)
}

// Distribute removes stock and records the outgoing entry in one
// transaction.
func (s *Service) Distribute(ctx context.Context, actor, id int64, in models.MovementInput) (models.InventoryItem, error) {
	return s.move(ctx, actor, id, in, s.store.Distribute)
}

func (s *Service) move(ctx context.Context, actor, id int64, in models.MovementInput,
	apply func(context.Context, int64, models.MovementInput) (models.InventoryItem, error)) (models.InventoryItem, error) {
	if id == 0 || in.PantryID == 0 || in.Quantity <= 0 {
		return models.InventoryItem{}, apperr.Invalid("Item ID, pantry ID and a positive quantity are required.")
	}
	if err := s.access.Require(ctx, actor, in.PantryID, models.AuthorityStaff); err != nil {
		return models.InventoryItem{}, err
	}

	item, err := apply(ctx, id, in)
	switch {
	case errors.Is(err, mysql.ErrNotFound):
		return models.InventoryItem{}, apperr.NotFound(fmt.Sprintf("Item %d not found in pantry %d", id, in.PantryID))
	case errors.Is(err, mysql.ErrInsufficientStock):
		return models.InventoryItem{}, apperr.Invalid("Not enough stock to distribute that quantity.")
	case err != nil:
		return models.InventoryItem{}, err
	}
	return item, nil
}

func today(d models.Date) models.Date {
	if d.IsZero() {
		return models.NewDate(nowFunc())
	}
	return d
}
