// Package worker drains the attendance outbox into the master spreadsheet.
// The writer creates one pending entry per logged event; each tick appends
// one denormalized row per entry. Failed entries stay pending and are picked
// up again on the next tick, so a flaky Sheets API delays rather than drops.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devotedabilities/empowered-hoops-portal/config"
	"github.com/devotedabilities/empowered-hoops-portal/gsheets"
	"github.com/devotedabilities/empowered-hoops-portal/models"
)

// Each append gets its own deadline. A stuck Sheets call must fail the entry
// instead of blocking RunOnce, since SkipIfStillRunning would then skip every
// later tick until restart.
const appendTimeout = 30 * time.Second

// OutboxStore is implemented by database.Store.
type OutboxStore interface {
	PendingOutbox(limit int) ([]models.OutboxEntry, error)
	MarkSynced(id string) error
	MarkFailed(id string, cause error) error
}

type SyncWorker struct {
	cfg    *config.Config
	sheets gsheets.Appender
	store  OutboxStore
}

func New(cfg *config.Config, sheets gsheets.Appender, store OutboxStore) *SyncWorker {
	return &SyncWorker{cfg: cfg, sheets: sheets, store: store}
}

// Start schedules the worker on the configured cron expression and returns
// the running scheduler. SkipIfStillRunning keeps ticks from overlapping.
func (w *SyncWorker) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	_, err := c.AddFunc(w.cfg.SyncSchedule, func() {
		if err := w.RunOnce(ctx); err != nil {
			log.Printf("master sheet sync tick failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("bad sync schedule %q: %w", w.cfg.SyncSchedule, err)
	}
	c.Start()
	return c, nil
}

// RunOnce drains one batch of pending entries. Individual append failures are
// recorded on the entry and do not stop the batch.
func (w *SyncWorker) RunOnce(ctx context.Context) error {
	entries, err := w.store.PendingOutbox(w.cfg.SyncBatchSize)
	if err != nil {
		return fmt.Errorf("load pending outbox: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	appendRange := fmt.Sprintf("'%s'!A:J", w.cfg.MasterSheetName)
	synced := 0
	for _, entry := range entries {
		row := masterRow(entry.Event)
		callCtx, cancel := context.WithTimeout(ctx, appendTimeout)
		err := w.sheets.AppendRow(callCtx, w.cfg.MasterSheetID, appendRange, row)
		cancel()
		if err != nil {
			log.Printf("sync of event %d failed, will retry: %v", entry.EventID, err)
			if markErr := w.store.MarkFailed(entry.ID, err); markErr != nil {
				log.Printf("recording sync failure for %s: %v", entry.ID, markErr)
			}
			continue
		}
		if err := w.store.MarkSynced(entry.ID); err != nil {
			// Append landed but the entry stays pending; the next tick
			// appends a duplicate row. Manual correction expected.
			log.Printf("marking entry %s synced: %v", entry.ID, err)
			continue
		}
		synced++
	}

	log.Printf("master sheet sync: %d/%d entries appended", synced, len(entries))
	return nil
}

// masterRow maps an event into the fixed 10-column master sheet layout.
func masterRow(ev models.AttendanceEvent) []interface{} {
	return []interface{}{
		ev.Date,
		ev.Program,
		ev.Athlete,
		ev.Status,
		ev.SessionType,
		ev.Coach,
		ev.Duration,
		ev.Ratio,
		ev.PaymentType,
		ev.Notes,
	}
}
