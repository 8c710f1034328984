package filestorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	memorystorage "github.com/dkovalev/reminder/internal/storage/memory"

	"github.com/dkovalev/reminder/internal/storage"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Path string
}

// Storage keeps the active collection in memory and rewrites a JSON
// snapshot document after every mutation. The in-memory view stays
// authoritative when a write fails.
type Storage struct {
	*memorystorage.Storage
	path string
}

func New(config Config) *Storage {
	return &Storage{Storage: memorystorage.New(), path: config.Path}
}

func (s *Storage) Connect(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read events file %q: %w", s.path, err)
	}

	var events []storage.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("failed to parse events file %q: %w", s.path, err)
	}
	s.Replace(events)
	return nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if err := s.Storage.AddEvent(ctx, e); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

func (s *Storage) RemoveEvent(ctx context.Context, id int64) error {
	if err := s.Storage.RemoveEvent(ctx, id); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// RemoveEvents rewrites the snapshot once for the whole batch.
func (s *Storage) RemoveEvents(ctx context.Context, ids []int64) error {
	if err := s.Storage.RemoveEvents(ctx, ids); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

func (s *Storage) save(ctx context.Context) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		log.Errorf("failed to snapshot events: %v", err)
		return
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		log.Errorf("failed to marshal events: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.Errorf("failed to write events file %q: %v", s.path, err)
	}
}
