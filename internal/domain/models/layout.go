package models

// Location labels where an inventory item is kept. One per item per pantry.
type Location struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	PantryID     int64  `gorm:"not null;uniqueIndex:idx_location_pantry_item,priority:1" json:"pantryID"`
	InventoryID  int64  `gorm:"not null;uniqueIndex:idx_location_pantry_item,priority:2" json:"inventoryID"`
	LocationName string `gorm:"size:255;not null" json:"locationName"`
}

func (Location) TableName() string { return "locations" }

// MapLayoutBox is one rectangle of a pantry's floor plan.
type MapLayoutBox struct {
	ID       int64  `gorm:"primaryKey" json:"-"`
	PantryID int64  `gorm:"not null;index" json:"pantryID"`
	BoxID    string `gorm:"size:64;not null" json:"boxID"`
	X        int    `gorm:"not null" json:"x"`
	Y        int    `gorm:"not null" json:"y"`
	W        int    `gorm:"not null" json:"w"`
	H        int    `gorm:"not null" json:"h"`
	Name     string `gorm:"size:255" json:"name"`
	ItemID   *int64 `gorm:"index" json:"itemID"`
}

func (MapLayoutBox) TableName() string { return "map_layout" }

// SaveLayoutInput replaces the full layout of a pantry.
type SaveLayoutInput struct {
	PantryID int64          `json:"pantryID"`
	Layout   []MapLayoutBox `json:"layout"`
}
