package models

import "time"

// Event is a pantry happening announced to subscribers.
type Event struct {
	ID            int64     `gorm:"primaryKey" json:"eventID"`
	PantryID      int64     `gorm:"not null;index" json:"pantryID"`
	EventTitle    string    `gorm:"size:255;not null" json:"eventTitle"`
	EventDetail   string    `gorm:"type:text" json:"eventDetail"`
	IconPath      string    `gorm:"size:255;not null" json:"iconPath"`
	EventDate     time.Time `json:"eventDate"`
	EventLocation string    `gorm:"size:255" json:"eventLocation"`
}

func (Event) TableName() string { return "events" }

// EventInput creates or edits an event. PantryID is ignored on update.
type EventInput struct {
	PantryID      int64     `json:"pantryID"`
	EventTitle    string    `json:"eventTitle"`
	EventDetail   string    `json:"eventDetail"`
	IconPath      string    `json:"iconPath"`
	EventDate     time.Time `json:"eventDate"`
	EventLocation string    `json:"eventLocation"`
}
