package models

import "time"

// ExpiryReport splits a pantry's dated stock into expired and expiring soon.
type ExpiryReport struct {
	PantryID     int64           `json:"pantryID"`
	GeneratedOn  Date            `json:"generatedOn"`
	WindowDays   int             `json:"windowDays"`
	Expired      []InventoryItem `json:"expired"`
	ExpiringSoon []InventoryItem `json:"expiringSoon"`
}

// Empty reports whether nothing needs attention.
func (r ExpiryReport) Empty() bool {
	return len(r.Expired) == 0 && len(r.ExpiringSoon) == 0
}

// PopularItem aggregates demand for one item name.
type PopularItem struct {
	ItemName      string `json:"itemName"`
	RequestCount  int    `json:"requestCount"`
	RequestedQty  int    `json:"requestedQuantity"`
	OutgoingTotal int    `json:"outgoingTotal"`
}

// InventorySnapshot is the archived state of a pantry at a point in time.
type InventorySnapshot struct {
	PantryID   int64              `bson:"pantry_id" json:"pantryID"`
	TakenAt    time.Time          `bson:"taken_at" json:"takenAt"`
	TotalItems int                `bson:"total_items" json:"totalItems"`
	TotalUnits int                `bson:"total_units" json:"totalUnits"`
	Expired    int                `bson:"expired" json:"expired"`
	Items      []SnapshotLineItem `bson:"items" json:"items"`
}

// SnapshotLineItem is one row of an InventorySnapshot.
type SnapshotLineItem struct {
	Name     string     `bson:"name" json:"name"`
	Quantity int        `bson:"quantity" json:"quantity"`
	ExpDate  *time.Time `bson:"exp_date,omitempty" json:"expDate,omitempty"`
}

// Recipe is a suggestion returned by the recipe content API or the LLM.
// Ingredients carry their measurement, e.g. "Sugar: 1 Teaspoon".
type Recipe struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Description  string   `json:"description,omitempty"`
	Image        string   `json:"image,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions,omitempty"`
	InStock      []string `json:"inStock,omitempty"`
}

// GenerateRecipeInput asks the language model for a recipe of a kind of
// dish, e.g. "vegetarian pasta".
type GenerateRecipeInput struct {
	Prompt string `json:"prompt" binding:"required,max=200"`
}
