package memorystorage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dkovalev/reminder/internal/storage"
)

type Storage struct {
	mu     sync.RWMutex
	events []storage.Event
}

func New() *Storage {
	return &Storage{events: make([]storage.Event, 0)}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	if e.Time.IsZero() {
		return fmt.Errorf("event time is required: %w", storage.ErrIncorrectEventTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stored := range s.events {
		if stored.ID == e.ID {
			return fmt.Errorf("duplicate ID %d: %w", e.ID, storage.ErrDuplicateEventID)
		}
	}
	s.insert(*e)
	return nil
}

// RemoveEvent is a no-op for an absent id.
func (s *Storage) RemoveEvent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id)
	return nil
}

func (s *Storage) RemoveEvents(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.remove(id)
	}
	return nil
}

func (s *Storage) ListEvents(_ context.Context) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, len(s.events))
	copy(events, s.events)
	return events, nil
}

func (s *Storage) ListUpcoming(_ context.Context, now time.Time) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, 0)
	for _, e := range s.events {
		if e.Time.After(now) {
			events = append(events, e)
		}
	}
	return events, nil
}

// Replace swaps the whole collection, restoring the time order.
func (s *Storage) Replace(events []storage.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]storage.Event, len(events))
	copy(s.events, events)
	sort.Slice(s.events, func(i, j int) bool { return s.events[i].Time.Before(s.events[j].Time) })
}

// Keeps the collection sorted ascending by event time.
func (s *Storage) insert(e storage.Event) {
	i := sort.Search(len(s.events), func(i int) bool { return s.events[i].Time.After(e.Time) })
	s.events = append(s.events, storage.Event{})
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = e
}

func (s *Storage) remove(id int64) bool {
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return true
		}
	}
	return false
}
