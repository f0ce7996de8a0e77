package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu      sync.Mutex
	intents []string
	fail    error
}

func (h *recordingHandler) HandleIntent(workflowID, intent string, _ json.RawMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.intents = append(h.intents, workflowID+":"+intent)
	return h.fail
}

func (h *recordingHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.intents...)
}

func startHub(t *testing.T, handler IntentHandler) (*Hub, *httptest.Server) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)
	if handler != nil {
		hub.SetHandler(handler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		ServeWs(hub, id, nil, &Event{Type: EventSnapshot, WorkflowID: id, Data: "initial"}, log, w, r)
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestClientReceivesInitialAndPublishedEvents(t *testing.T) {
	hub, srv := startHub(t, nil)
	conn := dial(t, srv, "wf-1")

	first := readEvent(t, conn)
	assert.Equal(t, EventSnapshot, first.Type)
	assert.Equal(t, "initial", first.Data)

	require.Eventually(t, func() bool { return hub.Watchers("wf-1") == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(&Event{Type: EventSnapshot, WorkflowID: "wf-2", Data: "other"})
	hub.Publish(&Event{Type: EventSnapshot, WorkflowID: "wf-1", Data: "mine"})

	got := readEvent(t, conn)
	assert.Equal(t, "wf-1", got.WorkflowID)
	assert.Equal(t, "mine", got.Data)
}

func TestCloseWorkflowDisconnectsClients(t *testing.T) {
	hub, srv := startHub(t, nil)
	conn := dial(t, srv, "wf-1")
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Watchers("wf-1") == 1 }, time.Second, 5*time.Millisecond)

	hub.CloseWorkflow("wf-1")

	assert.Equal(t, EventClosed, readEvent(t, conn).Type)
	require.Eventually(t, func() bool { return hub.Watchers("wf-1") == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestClientIntentsReachHandler(t *testing.T) {
	handler := &recordingHandler{}
	hub, srv := startHub(t, handler)
	conn := dial(t, srv, "wf-7")
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Watchers("wf-7") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"advance"}`)))
	require.Eventually(t, func() bool {
		return len(handler.seen()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"wf-7:advance"}, handler.seen())
}

func TestRejectedIntentRepliesWithError(t *testing.T) {
	handler := &recordingHandler{fail: errors.New("not allowed")}
	hub, srv := startHub(t, handler)
	conn := dial(t, srv, "wf-1")
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Watchers("wf-1") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"next"}`)))

	got := readEvent(t, conn)
	assert.Equal(t, EventError, got.Type)
	assert.Equal(t, "not allowed", got.Data)
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(&Event{Type: EventSnapshot, WorkflowID: "wf"})
		}
		hub.CloseWorkflow("wf")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked after hub stopped")
	}
}
