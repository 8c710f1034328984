package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateEventID   = errors.New("event with same ID exists")
	ErrIncorrectEventTime = errors.New("incorrect event time")
)

type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	AddEvent(ctx context.Context, e *Event) error
	RemoveEvent(ctx context.Context, id int64) error
	RemoveEvents(ctx context.Context, ids []int64) error
	ListEvents(ctx context.Context) ([]Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]Event, error)
}
