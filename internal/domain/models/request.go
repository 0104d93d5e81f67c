package models

import "time"

// Request is a recipient asking a pantry for an item. A profile has at most
// one open request per item per pantry.
type Request struct {
	ProfileID   int64  `gorm:"primaryKey;autoIncrement:false" json:"profileID"`
	PantryID    int64  `gorm:"primaryKey;autoIncrement:false;index" json:"pantryID"`
	ItemName    string `gorm:"primaryKey;size:255" json:"itemName"`
	RequestDate Date   `gorm:"not null" json:"requestDate"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	Completed   bool   `gorm:"not null;default:false" json:"completed"`
}

func (Request) TableName() string { return "requests" }

// RequestKey identifies one request.
type RequestKey struct {
	ProfileID int64
	PantryID  int64
	ItemName  string
}

// NewRequestInput is the recipient-facing request form. Every field is
// required; Completed is a pointer so an explicit false is distinguishable
// from a missing field.
type NewRequestInput struct {
	ProfileID   int64  `json:"profileID"`
	PantryID    int64  `json:"pantryID"`
	ItemName    string `json:"itemName"`
	Quantity    int    `json:"quantity"`
	RequestDate *Date  `json:"requestDate"`
	Completed   *bool  `json:"completed"`
}

// Missing reports whether any required field is absent.
func (in NewRequestInput) Missing() bool {
	return in.ProfileID == 0 ||
		in.PantryID == 0 ||
		in.ItemName == "" ||
		in.Quantity == 0 ||
		in.RequestDate == nil || in.RequestDate.IsZero() ||
		in.Completed == nil
}

// RequestStatusInput toggles completion of a request.
type RequestStatusInput struct {
	ProfileID int64  `json:"profileID"`
	PantryID  int64  `json:"pantryID"`
	ItemName  string `json:"itemName"`
}

// Key converts the payload into a RequestKey.
func (in RequestStatusInput) Key() RequestKey {
	return RequestKey{ProfileID: in.ProfileID, PantryID: in.PantryID, ItemName: in.ItemName}
}

// UpdateRequestInput renames or resizes a request.
type UpdateRequestInput struct {
	NewItemName string `json:"newItemName"`
	NewQuantity int    `json:"newQuantity"`
}

// Notification is an in-app message for one profile.
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"notificationID"`
	ProfileID int64     `gorm:"not null;index" json:"profileID"`
	PantryID  int64     `gorm:"not null" json:"pantryID"`
	Detail    string    `gorm:"type:text;not null" json:"detail"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationInput creates a notification.
type NotificationInput struct {
	ProfileID int64  `json:"profileID" binding:"required"`
	PantryID  int64  `json:"pantryID" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	IsRead    bool   `json:"isRead"`
}
