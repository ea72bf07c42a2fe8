package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devotedabilities/empowered-hoops-portal/models"
)

// Store wraps the attendance log and its sync outbox. Handlers and the sync
// worker depend on the interfaces they declare, so tests can substitute fakes.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// LogAttendance creates the events plus one pending outbox entry per event in
// a single transaction. This is the only way events enter the log; they are
// never updated afterwards, so the outbox fires exactly once per record.
func (s *Store) LogAttendance(events []models.AttendanceEvent) error {
	if len(events) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range events {
			if err := tx.Create(&events[i]).Error; err != nil {
				return err
			}
			entry := models.OutboxEntry{
				ID:      uuid.NewString(),
				EventID: events[i].ID,
				Status:  models.OutboxPending,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// PendingOutbox returns up to limit pending entries, oldest first, with the
// underlying event loaded.
func (s *Store) PendingOutbox(limit int) ([]models.OutboxEntry, error) {
	var entries []models.OutboxEntry
	err := s.db.Preload("Event").
		Where("status = ?", models.OutboxPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *Store) MarkSynced(id string) error {
	now := time.Now()
	return s.db.Model(&models.OutboxEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    models.OutboxSynced,
			"synced_at": &now,
		}).Error
}

// MarkFailed records the error and leaves the entry pending for the next tick.
func (s *Store) MarkFailed(id string, cause error) error {
	return s.db.Model(&models.OutboxEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause.Error(),
		}).Error
}
