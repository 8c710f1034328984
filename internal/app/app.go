package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dkovalev/reminder/internal/storage"
)

var ErrEmptyTitle = errors.New("event title is required")

// NotifyWindow is the horizon within which an upcoming event is due
// for a reminder, and the gap under which two events are reported as
// overlapping.
const NotifyWindow = 5 * time.Minute

type App struct {
	Storage storage.Storage

	mu     sync.Mutex
	lastID int64
}

func New(storage storage.Storage) *App {
	return &App{Storage: storage}
}

// CreateEvent stores a new event with a process-unique id and the time
// normalized to UTC.
func (a *App) CreateEvent(ctx context.Context, title, description string, t time.Time) (storage.Event, error) {
	if title == "" {
		return storage.Event{}, ErrEmptyTitle
	}
	if t.IsZero() {
		return storage.Event{}, fmt.Errorf("event time is required: %w", storage.ErrIncorrectEventTime)
	}

	e := storage.Event{
		ID:          a.nextID(),
		Title:       title,
		Description: description,
		Time:        t.UTC(),
	}
	if err := a.Storage.AddEvent(ctx, &e); err != nil {
		return storage.Event{}, err
	}
	return e, nil
}

func (a *App) RemoveEvent(ctx context.Context, id int64) error {
	return a.Storage.RemoveEvent(ctx, id)
}

func (a *App) ListUpcoming(ctx context.Context, now time.Time) ([]storage.Event, error) {
	return a.Storage.ListUpcoming(ctx, now)
}

// OverlappingEvents returns every active event that sits closer than
// NotifyWindow to at least one other active event. The scan is
// pairwise and quadratic; fine for the collection sizes this service
// targets.
func (a *App) OverlappingEvents(ctx context.Context) ([]storage.Event, error) {
	events, err := a.Storage.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	overlapping := make([]storage.Event, 0)
	for i, e := range events {
		for j, other := range events {
			if i == j {
				continue
			}
			diff := e.Time.Sub(other.Time)
			if diff < 0 {
				diff = -diff
			}
			if diff < NotifyWindow {
				overlapping = append(overlapping, e)
				break
			}
		}
	}
	return overlapping, nil
}

// Wall clock in milliseconds, bumped past the previous id on collision.
// Mirrors the epoch-millisecond id scheme of the persisted format.
func (a *App) nextID() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= a.lastID {
		id = a.lastID + 1
	}
	a.lastID = id
	return id
}
