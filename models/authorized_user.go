package models

import "time"

// Emails allowed into the portal. Gates UI access only.
type AuthorizedUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Name      string    `json:"name" gorm:"size:120"`
	Role      string    `json:"role" gorm:"size:20;not null"` // "coach" | "admin"
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
