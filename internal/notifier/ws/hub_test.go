package ws_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/reminder/internal/app"
	"github.com/dkovalev/reminder/internal/notifier"
	"github.com/dkovalev/reminder/internal/notifier/ws"
	"github.com/dkovalev/reminder/internal/storage"
	memorystorage "github.com/dkovalev/reminder/internal/storage/memory"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) notifier.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m notifier.Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHub(t *testing.T) {
	base := time.Date(2099, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("greets new subscribers", func(t *testing.T) {
		hub := ws.NewHub(app.New(memorystorage.New()))
		srv := httptest.NewServer(hub)
		defer srv.Close()
		defer hub.Close()

		conn := dial(t, srv.URL)
		m := readMessage(t, conn)
		require.Equal(t, notifier.TypeInfo, m.Type)
		require.Equal(t, "Connected to real-time notifications.", m.Message)
	})

	t.Run("warns about overlapping events on connect", func(t *testing.T) {
		stor := memorystorage.New()
		for i, offset := range []time.Duration{0, 3 * time.Minute, 10 * time.Minute} {
			e := storage.Event{ID: int64(i + 1), Title: "event", Time: base.Add(offset)}
			require.NoError(t, stor.AddEvent(ctx, &e))
		}
		hub := ws.NewHub(app.New(stor))
		srv := httptest.NewServer(hub)
		defer srv.Close()
		defer hub.Close()

		conn := dial(t, srv.URL)
		require.Equal(t, notifier.TypeInfo, readMessage(t, conn).Type)

		m := readMessage(t, conn)
		require.Equal(t, notifier.TypeWarning, m.Type)
		require.Len(t, m.OverlappingEvents, 2)
		require.Equal(t, int64(1), m.OverlappingEvents[0].ID)
		require.Equal(t, int64(2), m.OverlappingEvents[1].ID)
	})

	t.Run("no warning without overlap", func(t *testing.T) {
		stor := memorystorage.New()
		e := storage.Event{ID: 1, Title: "single", Time: base}
		require.NoError(t, stor.AddEvent(ctx, &e))
		hub := ws.NewHub(app.New(stor))
		srv := httptest.NewServer(hub)
		defer srv.Close()
		defer hub.Close()

		conn := dial(t, srv.URL)
		require.Equal(t, notifier.TypeInfo, readMessage(t, conn).Type)

		// The next frame must be a broadcast, not a warning.
		hub.Notify(notifier.Reminder(e))
		m := readMessage(t, conn)
		require.Equal(t, notifier.TypeReminder, m.Type)
		require.Equal(t, int64(1), m.Event.ID)
	})

	t.Run("broadcast reaches every subscriber", func(t *testing.T) {
		hub := ws.NewHub(app.New(memorystorage.New()))
		srv := httptest.NewServer(hub)
		defer srv.Close()
		defer hub.Close()

		first := dial(t, srv.URL)
		second := dial(t, srv.URL)
		require.Equal(t, notifier.TypeInfo, readMessage(t, first).Type)
		require.Equal(t, notifier.TypeInfo, readMessage(t, second).Type)

		e := storage.Event{ID: 7, Title: "standup", Time: base}
		hub.Notify(notifier.Reminder(e))

		for _, conn := range []*websocket.Conn{first, second} {
			m := readMessage(t, conn)
			require.Equal(t, notifier.TypeReminder, m.Type)
			require.Equal(t, int64(7), m.Event.ID)
			require.Equal(t, "standup", m.Event.Title)
		}
	})

	t.Run("a dropped subscriber does not block the rest", func(t *testing.T) {
		hub := ws.NewHub(app.New(memorystorage.New()))
		srv := httptest.NewServer(hub)
		defer srv.Close()
		defer hub.Close()

		gone := dial(t, srv.URL)
		alive := dial(t, srv.URL)
		require.Equal(t, notifier.TypeInfo, readMessage(t, gone).Type)
		require.Equal(t, notifier.TypeInfo, readMessage(t, alive).Type)
		require.NoError(t, gone.Close())

		e := storage.Event{ID: 1, Title: "still delivered", Time: base}
		hub.Notify(notifier.Reminder(e))

		m := readMessage(t, alive)
		require.Equal(t, notifier.TypeReminder, m.Type)
		require.Equal(t, "still delivered", m.Event.Title)
	})
}
