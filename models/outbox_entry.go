package models

import "time"

const (
	OutboxPending = "pending"
	OutboxSynced  = "synced"
)

// One entry per created AttendanceEvent, written in the same transaction.
// The sync worker drains pending entries into the master sheet; failures
// stay pending and are retried on the next tick.
type OutboxEntry struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	EventID   uint            `json:"event_id" gorm:"index;not null"`
	Event     AttendanceEvent `json:"-" gorm:"foreignKey:EventID"`
	Status    string          `json:"status" gorm:"size:10;index;not null"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"last_error" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
	SyncedAt  *time.Time      `json:"synced_at"`
}
