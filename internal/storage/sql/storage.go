package sqlstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/dkovalev/reminder/internal/storage"
)

var ErrConnectionFailed = errors.New("failed to connect")

const dbErrUniqueViolation = "23505"

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	host     string
	port     int
	database string
	username string
	password string
	db       *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{
		host:     config.Host,
		port:     config.Port,
		database: config.Database,
		username: config.Username,
		password: config.Password,
	}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.host, s.port, s.database, s.username, s.password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	s.db = db
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if e.Time.IsZero() {
		return fmt.Errorf("event time is required: %w", storage.ErrIncorrectEventTime)
	}

	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO Events(id, title, description, event_time) VALUES($1, $2, $3, $4)",
		e.ID, e.Title, e.Description, e.Time.UTC())
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == dbErrUniqueViolation {
		return fmt.Errorf("duplicate ID %d: %w", e.ID, storage.ErrDuplicateEventID)
	}
	return err
}

// RemoveEvent is a no-op for an absent id.
func (s *Storage) RemoveEvent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM Events WHERE id=$1", id)
	return err
}

func (s *Storage) RemoveEvents(ctx context.Context, ids []int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM Events WHERE id = ANY($1)", pq.Array(ids))
	return err
}

func (s *Storage) ListEvents(ctx context.Context) ([]storage.Event, error) {
	events := make([]storage.Event, 0)
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT id, title, description, event_time FROM Events ORDER BY event_time, id",
	)
	return events, err
}

func (s *Storage) ListUpcoming(ctx context.Context, now time.Time) ([]storage.Event, error) {
	events := make([]storage.Event, 0)
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT id, title, description, event_time FROM Events WHERE event_time > $1 ORDER BY event_time, id",
		now.UTC(),
	)
	return events, err
}
