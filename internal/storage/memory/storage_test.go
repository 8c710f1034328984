package memorystorage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkovalev/reminder/internal/storage"
	memorystorage "github.com/dkovalev/reminder/internal/storage/memory"
)

func TestStorage(t *testing.T) {
	base := time.Date(2099, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("keeps events sorted by time", func(t *testing.T) {
		s := memorystorage.New()
		for i, offset := range []time.Duration{time.Hour, time.Minute, 30 * time.Minute, 0} {
			e := storage.Event{ID: int64(i + 1), Title: "event", Time: base.Add(offset)}
			require.NoError(t, s.AddEvent(ctx, &e))
		}

		events, err := s.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 4)
		for i := 1; i < len(events); i++ {
			require.True(t, events[i].Time.After(events[i-1].Time))
		}
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		s := memorystorage.New()
		e := storage.Event{ID: 1, Title: "first", Time: base}
		require.NoError(t, s.AddEvent(ctx, &e))

		dup := storage.Event{ID: 1, Title: "second", Time: base.Add(time.Hour)}
		err := s.AddEvent(ctx, &dup)
		require.ErrorIs(t, err, storage.ErrDuplicateEventID)
	})

	t.Run("rejects zero time", func(t *testing.T) {
		s := memorystorage.New()
		e := storage.Event{ID: 1, Title: "no time"}
		err := s.AddEvent(ctx, &e)
		require.ErrorIs(t, err, storage.ErrIncorrectEventTime)
	})

	t.Run("remove of absent id is a no-op", func(t *testing.T) {
		s := memorystorage.New()
		e := storage.Event{ID: 1, Title: "event", Time: base}
		require.NoError(t, s.AddEvent(ctx, &e))

		require.NoError(t, s.RemoveEvent(ctx, 42))
		require.NoError(t, s.RemoveEvent(ctx, 1))
		require.NoError(t, s.RemoveEvent(ctx, 1))

		events, err := s.ListEvents(ctx)
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("batch remove", func(t *testing.T) {
		s := memorystorage.New()
		for i := int64(1); i <= 4; i++ {
			e := storage.Event{ID: i, Title: "event", Time: base.Add(time.Duration(i) * time.Minute)}
			require.NoError(t, s.AddEvent(ctx, &e))
		}

		require.NoError(t, s.RemoveEvents(ctx, []int64{1, 3, 99}))

		events, err := s.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, int64(2), events[0].ID)
		require.Equal(t, int64(4), events[1].ID)
	})

	t.Run("upcoming excludes past and present", func(t *testing.T) {
		s := memorystorage.New()
		past := storage.Event{ID: 1, Title: "past", Time: base.Add(-time.Hour)}
		exact := storage.Event{ID: 2, Title: "now", Time: base}
		future := storage.Event{ID: 3, Title: "future", Time: base.Add(time.Hour)}
		require.NoError(t, s.AddEvent(ctx, &past))
		require.NoError(t, s.AddEvent(ctx, &exact))
		require.NoError(t, s.AddEvent(ctx, &future))

		events, err := s.ListUpcoming(ctx, base)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, int64(3), events[0].ID)
	})

	t.Run("list returns a copy", func(t *testing.T) {
		s := memorystorage.New()
		e := storage.Event{ID: 1, Title: "event", Time: base}
		require.NoError(t, s.AddEvent(ctx, &e))

		events, err := s.ListEvents(ctx)
		require.NoError(t, err)
		events[0].Title = "changed"

		events, err = s.ListEvents(ctx)
		require.NoError(t, err)
		require.Equal(t, "event", events[0].Title)
	})
}
