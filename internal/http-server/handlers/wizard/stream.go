package wizard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"BeautyGenius/internal/theme"
	"BeautyGenius/internal/workflow"
	"BeautyGenius/internal/ws"
)

// Stream upgrades to a websocket that pushes the themed view on every
// change. Clients send intents as {"type": "...", "data": {...}}.
func Stream(log *slog.Logger, handler Core, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		id := chi.URLParam(r, "id")

		snap, err := handler.Snapshot(id)
		if err != nil {
			fail(w, r, logger, err)
			return
		}

		th := handler.Theme(r.URL.Query().Get("theme"), r.Header.Get("Accept-Language"))
		initial := &ws.Event{Type: ws.EventSnapshot, WorkflowID: id, Data: snap}

		ws.ServeWs(hub, id, viewEncoder(handler, th), initial, logger, w, r)
	}
}

// viewEncoder renders snapshot events through th before encoding them.
func viewEncoder(handler Core, th theme.Theme) ws.Encoder {
	return func(event *ws.Event) ([]byte, error) {
		snap, ok := event.Data.(workflow.Snapshot)
		if !ok {
			return json.Marshal(event)
		}
		out := *event
		out.Data = handler.Render(th, snap)
		return json.Marshal(&out)
	}
}
