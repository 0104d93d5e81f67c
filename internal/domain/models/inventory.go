package models

import "sort"

// InventoryItem is the current stock of one named good in one pantry.
// (Name, PantryID) is unique.
type InventoryItem struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	PantryID int64  `gorm:"not null;uniqueIndex:idx_inventory_name_pantry,priority:2" json:"pantryID"`
	Name     string `gorm:"size:255;not null;uniqueIndex:idx_inventory_name_pantry,priority:1" json:"name"`
	Quantity int    `gorm:"not null;default:0" json:"quantity"`
	ExpDate  *Date  `json:"expDate"`
}

// TableName pins the table name used by the original schema.
func (InventoryItem) TableName() string { return "inventory" }

// InventoryListing is an item as shown to staff and recipients, with the
// derived ledger columns.
type InventoryListing struct {
	InventoryItem
	TotalOutgoing int     `json:"totalOutgoing"`
	IncomingDate  *Date   `json:"incomingDate"`
	LocationName  *string `json:"locationName"`
}

// IncomingEntry records a stock addition. Rows are append-only.
type IncomingEntry struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	PantryID int64  `gorm:"not null;index:idx_incoming_name_pantry,priority:2" json:"pantryID"`
	Name     string `gorm:"size:255;not null;index:idx_incoming_name_pantry,priority:1" json:"name"`
	DateIn   Date   `gorm:"not null" json:"dateIn"`
	Quantity int    `gorm:"not null" json:"quantity"`
}

func (IncomingEntry) TableName() string { return "incoming" }

// OutgoingEntry records a stock removal. Rows are append-only.
type OutgoingEntry struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	PantryID int64  `gorm:"not null;index:idx_outgoing_name_pantry,priority:2" json:"pantryID"`
	Name     string `gorm:"size:255;not null;index:idx_outgoing_name_pantry,priority:1" json:"name"`
	DateOut  Date   `gorm:"not null" json:"dateOut"`
	Quantity int    `gorm:"not null" json:"quantity"`
}

func (OutgoingEntry) TableName() string { return "outgoing" }

// IncomingDate returns the date of the oldest incoming batch that still has
// stock on the shelf: the earliest entry date d for which the summed incoming
// quantity of every entry dated on or before d exceeds outgoingTotal.
// Entries sharing a date are counted together. Returns nil when the ledger
// is fully consumed or empty.
func IncomingDate(entries []IncomingEntry, outgoingTotal int) *Date {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]IncomingEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateIn.Before(sorted[j].DateIn)
	})

	cumulative := 0
	for i := 0; i < len(sorted); {
		day := sorted[i].DateIn
		for i < len(sorted) && sorted[i].DateIn.Equal(day.Time) {
			cumulative += sorted[i].Quantity
			i++
		}
		if cumulative > outgoingTotal {
			found := day
			return &found
		}
	}

	return nil
}

// NewItemInput is the payload accepted when staff add stock for a name.
type NewItemInput struct {
	Name         string `json:"name" binding:"required"`
	Quantity     int    `json:"quantity" binding:"min=0"`
	ExpDate      *Date  `json:"expirationDate"`
	PantryID     int64  `json:"pantryID" binding:"required"`
	IncomingDate Date   `json:"incomingDate"`
}

// UpdateItemInput overwrites an item's editable attributes.
type UpdateItemInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
	ExpDate  *Date  `json:"expirationDate"`
	PantryID int64  `json:"pantryID" binding:"required"`
}

// IncomingInput appends to the incoming ledger.
type IncomingInput struct {
	Name     string `json:"name" binding:"required"`
	DateIn   Date   `json:"dateIn"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	PantryID int64  `json:"pantryID" binding:"required"`
}

// OutgoingInput appends to the outgoing ledger.
type OutgoingInput struct {
	Name     string `json:"name" binding:"required"`
	DateOut  Date   `json:"dateOut"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	PantryID int64  `json:"pantryID" binding:"required"`
}

// MovementInput is a ledger entry applied to an item's quantity atomically.
type MovementInput struct {
	PantryID int64 `json:"pantryID" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,min=1"`
	Date     Date  `json:"date"`
}
