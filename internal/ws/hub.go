package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"BeautyGenius/internal/lib/sl"
)

const (
	EventSnapshot = "snapshot"
	EventClosed   = "closed"
	EventError    = "error"
)

// IntentHandler applies an intent a client sent for its workflow.
type IntentHandler interface {
	HandleIntent(workflowID, intent string, data json.RawMessage) error
}

// Event is one message pushed to the clients watching a workflow.
type Event struct {
	Type       string `json:"type"`
	WorkflowID string `json:"workflow_id"`
	Data       any    `json:"data,omitempty"`
}

// Encoder turns an event into the bytes one client receives.
type Encoder func(event *Event) ([]byte, error)

// JSON encodes events as they are.
func JSON(event *Event) ([]byte, error) {
	return json.Marshal(event)
}

// Hub keeps the connected clients grouped by workflow and fans events out to them.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	handler    IntentHandler
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With(sl.Module("ws")),
	}
}

func (h *Hub) SetHandler(handler IntentHandler) {
	h.handler = handler
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for topic, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, topic)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.topic] == nil {
				h.clients[client.topic] = make(map[*Client]bool)
			}
			h.clients[client.topic][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[event.WorkflowID] {
				data, err := client.encode(event)
				if err != nil {
					h.log.Warn("encode event", slog.String("type", event.Type), sl.Err(err))
					continue
				}
				select {
				case client.send <- data:
				default:
					h.removeLocked(client)
				}
			}
			if event.Type == EventClosed {
				for client := range h.clients[event.WorkflowID] {
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.topic]
	if !ok {
		return
	}
	if _, ok = clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.topic)
	}
}

// Publish queues event for the clients of its workflow. It drops the event
// once the hub has stopped.
func (h *Hub) Publish(event *Event) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

// CloseWorkflow tells the workflow's clients it is gone and disconnects them.
func (h *Hub) CloseWorkflow(workflowID string) {
	h.Publish(&Event{Type: EventClosed, WorkflowID: workflowID})
}

// Watchers counts the clients connected to a workflow.
func (h *Hub) Watchers(workflowID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workflowID])
}

type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage parses an intent sent by a client and applies it to
// the client's workflow.
func (h *Hub) HandleClientMessage(client *Client, raw []byte) {
	if h.handler == nil {
		return
	}

	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.log.Warn("failed to parse client ws message", sl.Err(err))
		h.reply(client, err)
		return
	}
	if event.Type == "" {
		return
	}

	if err := h.handler.HandleIntent(client.topic, event.Type, event.Data); err != nil {
		h.log.Debug("intent rejected",
			slog.String("workflow_id", client.topic),
			slog.String("intent", event.Type),
			sl.Err(err),
		)
		h.reply(client, err)
	}
}

// reply sends an error event straight to one client.
func (h *Hub) reply(client *Client, err error) {
	data, encErr := client.encode(&Event{Type: EventError, WorkflowID: client.topic, Data: err.Error()})
	if encErr != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client.topic][client] {
		return
	}
	select {
	case client.send <- data:
	default:
	}
}
