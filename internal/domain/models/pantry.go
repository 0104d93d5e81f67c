package models

import "time"

// DefaultAccessCode is assigned to pantries created without one.
const DefaultAccessCode = "00000000"

// Pantry is the tenant boundary for every other record.
type Pantry struct {
	ID             int64     `gorm:"primaryKey" json:"pantryID"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	AccessCodeHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Pantry) TableName() string { return "pantries" }

// PantryInfo is the public contact card of a pantry.
type PantryInfo struct {
	PantryID int64  `gorm:"primaryKey;autoIncrement:false" json:"pantryID"`
	Name     string `gorm:"size:255" json:"name"`
	Email    string `gorm:"size:255" json:"email"`
	Location string `gorm:"size:255" json:"location"`
	Phone    string `gorm:"size:32" json:"phone"`
}

func (PantryInfo) TableName() string { return "pantry_info" }

// NewPantryInput creates or renames a pantry.
type NewPantryInput struct {
	Name       string `json:"name" binding:"required"`
	AccessCode string `json:"accessCode"`
}

// VerifyAccessCodeInput promotes the caller to staff of a pantry.
type VerifyAccessCodeInput struct {
	PantryID   int64  `json:"pantryID" binding:"required"`
	AccessCode string `json:"accessCode" binding:"required"`
}

// PantryInfoInput upserts a pantry's contact card.
type PantryInfoInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

// ContactPantryInput is an email from a member to the pantry.
type ContactPantryInput struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}
