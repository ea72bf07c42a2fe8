package models

import "time"

type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Password   string    `json:"-" gorm:"not null"`            // bcrypt hash
	Role       string    `json:"role" gorm:"size:20;not null"` // "admin" | "coach"
	Name       string    `json:"name" gorm:"size:120"`
	TOTPSecret string    `json:"-" gorm:"size:64"` // empty = 2FA disabled
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
