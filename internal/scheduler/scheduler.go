package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/dkovalev/reminder/internal/app"
	"github.com/dkovalev/reminder/internal/journal"
	"github.com/dkovalev/reminder/internal/metrics"
	"github.com/dkovalev/reminder/internal/notifier"
	"github.com/dkovalev/reminder/internal/storage"
)

const cronSpec = "* * * * *"

// Scheduler advances event lifecycle once per minute: events whose time
// has passed are journaled and removed, events due within the next five
// minutes are re-notified on every sweep until they complete. Reminders
// are deliberately not deduplicated across sweeps; delivery is
// at-least-once and possibly repeated.
type Scheduler struct {
	storage  storage.Storage
	journal  *journal.Journal
	notifier notifier.Notifier
	cron     *cron.Cron
}

func New(storage storage.Storage, journal *journal.Journal, notifier notifier.Notifier) *Scheduler {
	return &Scheduler{storage: storage, journal: journal, notifier: notifier}
}

func (s *Scheduler) Start() error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(log.StandardLogger())),
	))
	if _, err := s.cron.AddFunc(cronSpec, func() { s.tick(time.Now()) }); err != nil {
		return err
	}
	s.cron.Start()
	log.Info("scheduler is running...")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// One sweep. Every comparison uses the single now snapshot taken by the
// caller; removals are collected during the scan and applied after it,
// so late entries in the snapshot are never skipped or double-visited.
// A failed sweep never stops the schedule.
func (s *Scheduler) tick(now time.Time) {
	started := time.Now()
	ctx := context.Background()

	events, err := s.storage.ListEvents(ctx)
	if err != nil {
		log.Errorf("failed to get events: %v", err)
		return
	}

	threshold := now.Add(app.NotifyWindow)
	var completed []storage.Event
	for _, e := range events {
		switch {
		case !e.Time.After(now):
			completed = append(completed, e)
		case !e.Time.After(threshold):
			log.Debugf("reminder for event %d %q at %s", e.ID, e.Title, e.Time)
			s.notifier.Notify(notifier.Reminder(e))
			metrics.RemindersSent.Inc()
		}
	}

	if len(completed) > 0 {
		ids := make([]int64, 0, len(completed))
		for _, e := range completed {
			if err := s.journal.Append(e); err != nil {
				log.Errorf("failed to log completed event %d: %v", e.ID, err)
			}
			ids = append(ids, e.ID)
		}
		if err := s.storage.RemoveEvents(ctx, ids); err != nil {
			log.Errorf("failed to remove completed events: %v", err)
		}
		metrics.EventsCompleted.Add(float64(len(completed)))
	}

	metrics.TickDuration.Observe(float64(time.Since(started).Milliseconds()))
}
