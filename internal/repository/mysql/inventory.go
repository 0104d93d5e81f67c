package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// ListItems returns every item of a pantry with its outgoing total, derived
// incoming date and location label. Incoming quantities are summed per day
// in SQL; the cumulative walk over those daily totals happens in
// models.IncomingDate, so the listing reads one row per delivery day rather
// than the whole incoming ledger.
func (s *Store) ListItems(ctx context.Context, pantryID int64) ([]models.InventoryListing, error) {
	db := s.conn(ctx)

	var items []models.InventoryItem
	if err := db.Where("pantry_id = ?", pantryID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list inventory: %w", translate(err))
	}
	if len(items) == 0 {
		return []models.InventoryListing{}, nil
	}

	type nameTotal struct {
		Name  string
		Total int
	}
	var totals []nameTotal
	if err := db.Model(&models.OutgoingEntry{}).
		Select("name, SUM(quantity) AS total").
		Where("pantry_id = ?", pantryID).
		Group("name").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("sum outgoing: %w", translate(err))
	}
	outgoing := make(map[string]int, len(totals))
	for _, t := range totals {
		outgoing[t.Name] = t.Total
	}

	// One row per (name, day); the running total over these rows is the
	// same as summing every entry dated on or before each day.
	var daily []models.IncomingEntry
	if err := db.Model(&models.IncomingEntry{}).
		Select("name, date_in, SUM(quantity) AS quantity").
		Where("pantry_id = ?", pantryID).
		Group("name, date_in").
		Order("name, date_in").
		Scan(&daily).Error; err != nil {
		return nil, fmt.Errorf("sum incoming by day: %w", translate(err))
	}
	ledger := make(map[string][]models.IncomingEntry)
	for _, entry := range daily {
		ledger[entry.Name] = append(ledger[entry.Name], entry)
	}

	var locations []models.Location
	if err := db.Where("pantry_id = ?", pantryID).Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", translate(err))
	}
	labels := make(map[int64]string, len(locations))
	for _, loc := range locations {
		labels[loc.InventoryID] = loc.LocationName
	}

	listings := make([]models.InventoryListing, 0, len(items))
	for _, item := range items {
		listing := models.InventoryListing{
			InventoryItem: item,
			TotalOutgoing: outgoing[item.Name],
			IncomingDate:  models.IncomingDate(ledger[item.Name], outgoing[item.Name]),
		}
		if label, ok := labels[item.ID]; ok {
			l := label
			listing.LocationName = &l
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// GetItem loads one item scoped to its pantry.
func (s *Store) GetItem(ctx context.Context, id, pantryID int64) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := first(s.conn(ctx), &item, "id = ? AND pantry_id = ?", id, pantryID)
	return item, err
}

// AddItem inserts a new item together with its first incoming entry, or
// overwrites the existing item of the same name in the pantry. created
// reports which branch ran.
func (s *Store) AddItem(ctx context.Context, in models.NewItemInput) (item models.InventoryItem, created bool, err error) {
	err = s.inTx(ctx, func(tx *gorm.DB) error {
		var existing models.InventoryItem
		lookup := first(tx, &existing, "name = ? AND pantry_id = ?", in.Name, in.PantryID)
		switch {
		case lookup == nil:
			updated, err := updateItem(tx, existing.ID, models.UpdateItemInput{
				Name:     in.Name,
				Quantity: in.Quantity,
				ExpDate:  in.ExpDate,
				PantryID: in.PantryID,
			})
			if err != nil {
				return err
			}
			item = updated
			return nil
		case !errors.Is(lookup, ErrNotFound):
			return lookup
		}

		item = models.InventoryItem{
			PantryID: in.PantryID,
			Name:     in.Name,
			Quantity: in.Quantity,
			ExpDate:  in.ExpDate,
		}
		if err := tx.Create(&item).Error; err != nil {
			return translate(err)
		}

		dateIn := in.IncomingDate
		if dateIn.IsZero() {
			dateIn = models.NewDate(time.Now())
		}
		entry := models.IncomingEntry{
			PantryID: in.PantryID,
			Name:     in.Name,
			DateIn:   dateIn,
			Quantity: in.Quantity,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return translate(err)
		}
		created = true
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, false, fmt.Errorf("add item %q: %w", in.Name, err)
	}
	return item, created, nil
}

// UpdateItem overwrites name and quantity, and the expiration date when one
// is supplied.
func (s *Store) UpdateItem(ctx context.Context, id int64, in models.UpdateItemInput) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		updated, err := updateItem(tx, id, in)
		item = updated
		return err
	})
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("update item %d: %w", id, err)
	}
	return item, nil
}

func updateItem(tx *gorm.DB, id int64, in models.UpdateItemInput) (models.InventoryItem, error) {
	changes := map[string]interface{}{
		"name":     in.Name,
		"quantity": in.Quantity,
	}
	if in.ExpDate != nil && !in.ExpDate.IsZero() {
		changes["exp_date"] = *in.ExpDate
	}

	result := tx.Model(&models.InventoryItem{}).
		Where("id = ? AND pantry_id = ?", id, in.PantryID).
		Updates(changes)
	if err := affected(result); err != nil {
		return models.InventoryItem{}, err
	}

	var item models.InventoryItem
	if err := first(tx, &item, "id = ?", id); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// DeleteItem removes the item's map box, its location and the item itself in
// one transaction. Nothing is deleted when the item does not exist.
func (s *Store) DeleteItem(ctx context.Context, id, pantryID int64) error {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ? AND pantry_id = ?", id, pantryID).
			Delete(&models.MapLayoutBox{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("inventory_id = ? AND pantry_id = ?", id, pantryID).
			Delete(&models.Location{}).Error; err != nil {
			return translate(err)
		}
		return affected(tx.Where("id = ? AND pantry_id = ?", id, pantryID).
			Delete(&models.InventoryItem{}))
	})
	if err != nil {
		return fmt.Errorf("delete item %d in pantry %d: %w", id, pantryID, err)
	}
	return nil
}

// ClearInventory deletes every item of a pantry with its locations and
// associated boxes. The ledgers are kept.
func (s *Store) ClearInventory(ctx context.Context, pantryID int64) (int64, error) {
	var removed int64
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("pantry_id = ? AND item_id IS NOT NULL", pantryID).
			Delete(&models.MapLayoutBox{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("pantry_id = ?", pantryID).Delete(&models.Location{}).Error; err != nil {
			return translate(err)
		}
		result := tx.Where("pantry_id = ?", pantryID).Delete(&models.InventoryItem{})
		if result.Error != nil {
			return translate(result.Error)
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clear inventory of pantry %d: %w", pantryID, err)
	}
	return removed, nil
}

// RecordIncoming appends to the incoming ledger without touching quantity.
func (s *Store) RecordIncoming(ctx context.Context, entry *models.IncomingEntry) error {
	if err := s.conn(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("record incoming %q: %w", entry.Name, translate(err))
	}
	return nil
}

// RecordOutgoing appends to the outgoing ledger without touching quantity.
func (s *Store) RecordOutgoing(ctx context.Context, entry *models.OutgoingEntry) error {
	if err := s.conn(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("record outgoing %q: %w", entry.Name, translate(err))
	}
	return nil
}

// ListIncoming returns a pantry's incoming ledger, newest first.
func (s *Store) ListIncoming(ctx context.Context, pantryID int64) ([]models.IncomingEntry, error) {
	entries := []models.IncomingEntry{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).
		Order("date_in DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list incoming: %w", translate(err))
	}
	return entries, nil
}

// ListOutgoing returns a pantry's outgoing ledger, newest first.
func (s *Store) ListOutgoing(ctx context.Context, pantryID int64) ([]models.OutgoingEntry, error) {
	entries := []models.OutgoingEntry{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).
		Order("date_out DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list outgoing: %w", translate(err))
	}
	return entries, nil
}

// Restock records an incoming entry and raises the item quantity atomically.
func (s *Store) Restock(ctx context.Context, id int64, in models.MovementInput) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &item, "id = ? AND pantry_id = ?", id, in.PantryID); err != nil {
			return err
		}
		result := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND pantry_id = ?", id, in.PantryID).
			Update("quantity", gorm.Expr("quantity + ?", in.Quantity))
		if err := affected(result); err != nil {
			return err
		}
		entry := models.IncomingEntry{
			PantryID: in.PantryID,
			Name:     item.Name,
			DateIn:   movementDate(in.Date),
			Quantity: in.Quantity,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return translate(err)
		}
		return first(tx, &item, "id = ?", id)
	})
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("restock item %d: %w", id, err)
	}
	return item, nil
}

// Distribute records an outgoing entry and lowers the item quantity
// atomically. It fails with ErrInsufficientStock rather than going negative.
func (s *Store) Distribute(ctx context.Context, id int64, in models.MovementInput) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &item, "id = ? AND pantry_id = ?", id, in.PantryID); err != nil {
			return err
		}
		result := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND pantry_id = ? AND quantity >= ?", id, in.PantryID, in.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", in.Quantity))
		if err := affected(result); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInsufficientStock
			}
			return err
		}
		entry := models.OutgoingEntry{
			PantryID: in.PantryID,
			Name:     item.Name,
			DateOut:  movementDate(in.Date),
			Quantity: in.Quantity,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return translate(err)
		}
		return first(tx, &item, "id = ?", id)
	})
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("distribute item %d: %w", id, err)
	}
	return item, nil
}

func movementDate(d models.Date) models.Date {
	if d.IsZero() {
		return models.NewDate(time.Now())
	}
	return d
}

// ListAllItems returns the raw items of a pantry, used by reports.
func (s *Store) ListAllItems(ctx context.Context, pantryID int64) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", translate(err))
	}
	return items, nil
}
