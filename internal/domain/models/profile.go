package models

import "time"

// Authority is a profile's role inside one pantry.
type Authority string

const (
	AuthorityRecipient Authority = "recipient"
	AuthorityStaff     Authority = "staff"
	AuthorityAdmin     Authority = "admin"
)

// Rank orders authorities so checks can ask for "at least staff".
func (a Authority) Rank() int {
	switch a {
	case AuthorityRecipient:
		return 1
	case AuthorityStaff:
		return 2
	case AuthorityAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether a is one of the known authorities.
func (a Authority) Valid() bool {
	return a.Rank() > 0
}

// AtLeast reports whether a grants the permissions of min.
func (a Authority) AtLeast(min Authority) bool {
	return a.Valid() && a.Rank() >= min.Rank()
}

// Profile is a user account. Email is the natural key used at sign-in.
type Profile struct {
	ID              int64     `gorm:"primaryKey" json:"profileID"`
	Name            string    `gorm:"size:255" json:"name"`
	Email           string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	EmailPreference bool      `gorm:"not null" json:"emailPreference"`
	CurrentPantry   *int64    `json:"currentPantry"`
	PasswordHash    string    `gorm:"size:255" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Profile) TableName() string { return "profiles" }

// PantryUser is a profile's membership in a pantry.
type PantryUser struct {
	ProfileID     int64     `gorm:"primaryKey;autoIncrement:false" json:"profileID" binding:"required"`
	PantryID      int64     `gorm:"primaryKey;autoIncrement:false;index" json:"pantryID" binding:"required"`
	UserAuthority Authority `gorm:"size:20;not null" json:"userAuthority" binding:"required,authority"`
}

func (PantryUser) TableName() string { return "pantry_users" }

// SubscribedPantry is one entry of a profile's pantry list.
type SubscribedPantry struct {
	PantryID      int64     `json:"pantryID"`
	PantryName    string    `json:"pantryName"`
	UserAuthority Authority `json:"userAuthority"`
}

// ProfileDetail is a profile together with its memberships.
type ProfileDetail struct {
	Profile
	SubscribedPantryList []SubscribedPantry `json:"subscribedPantryList"`
}

// PantryMember is a membership joined with the member's profile.
type PantryMember struct {
	ProfileID       int64     `json:"profileID"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	EmailPreference bool      `json:"emailPreference"`
	UserAuthority   Authority `json:"userAuthority"`
}

// SignInInput creates a profile on first sign-in or refreshes it. The
// password sets the credential of a new profile and must match it on every
// later sign-in.
type SignInInput struct {
	Name            string `json:"name"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	EmailPreference *bool  `json:"emailPreference"`
	CurrentPantry   *int64 `json:"currentPantry"`
	// PasswordHash is stored on create, or on a profile that has none yet.
	PasswordHash string `json:"-"`
}

// UpdateProfileInput edits a profile and optionally its authority in a pantry.
type UpdateProfileInput struct {
	Name            string    `json:"name"`
	EmailPreference *bool     `json:"emailPreference"`
	CurrentPantry   *int64    `json:"currentPantry"`
	UserAuthority   Authority `json:"userAuthority" binding:"omitempty,authority"`
	PantryID        int64     `json:"pantryID"`
}

// UpdateAuthorityInput changes a member's authority.
type UpdateAuthorityInput struct {
	UserAuthority Authority `json:"userAuthority" binding:"required,authority"`
}
