package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dkovalev/reminder/internal/storage"
)

const completionMarker = "Event Completed: "

type Config struct {
	Path string
}

// Journal is the append-only completion log. One line per completed
// event, the full serialized event after a fixed marker.
type Journal struct {
	mu   sync.Mutex
	file *os.File
}

func Open(config Config) (*Journal, error) {
	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open completion log %q: %w", config.Path, err)
	}
	return &Journal{file: file}, nil
}

func (j *Journal) Append(e storage.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %d: %w", e.ID, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := fmt.Fprintf(j.file, "%s%s\n", completionMarker, data); err != nil {
		return fmt.Errorf("failed to append to completion log: %w", err)
	}
	return nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
