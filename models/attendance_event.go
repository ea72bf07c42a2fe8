package models

import "time"

// One row per athlete marked present at save time. Append-only; re-saving a
// session creates additional rows (no dedup key).
type AttendanceEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Date          string    `json:"date" gorm:"size:20;not null"` // as displayed in the sheet, e.g. 10/11/2025
	Program       string    `json:"program" gorm:"size:160;not null"`
	Athlete       string    `json:"athlete" gorm:"size:120;not null"`
	Status        string    `json:"status" gorm:"size:20;not null"`      // always "Attended"
	SessionType   string    `json:"sessionType" gorm:"size:20;not null"` // always "Group"
	Coach         string    `json:"coach" gorm:"size:120"`
	Duration      float64   `json:"duration"`
	Ratio         string    `json:"ratio" gorm:"size:20"`
	PaymentType   string    `json:"paymentType" gorm:"size:40"`
	Notes         string    `json:"notes" gorm:"type:text"`
	SpreadsheetID string    `json:"spreadsheetId" gorm:"size:120;index;not null"`
	SessionNumber int       `json:"sessionNumber" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`
}
