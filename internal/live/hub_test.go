package live_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/timeclock/internal/live"
)

type payload struct {
	Seq int64 `json:"seq"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) payload {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var p payload
	require.NoError(t, json.Unmarshal(data, &p))
	return p
}

func TestHubSendsSnapshotOnConnectAndNotify(t *testing.T) {
	var seq atomic.Int64
	hub := live.NewHub(live.Config{
		Interval: time.Hour,
		Snapshot: func() any { return payload{Seq: seq.Add(1)} },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)

	assert.Equal(t, int64(1), read(t, conn).Seq)

	hub.Notify()
	assert.Equal(t, int64(2), read(t, conn).Seq)
}

func TestHubTicks(t *testing.T) {
	var ticks atomic.Int64
	hub := live.NewHub(live.Config{
		Interval: 10 * time.Millisecond,
		Snapshot: func() any { return payload{Seq: ticks.Load()} },
		Tick: func(time.Time) bool {
			return ticks.Add(1)%2 == 0
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)

	read(t, conn) // initial snapshot
	got := read(t, conn)
	assert.Equal(t, int64(0), got.Seq%2, "only even ticks broadcast")
}
