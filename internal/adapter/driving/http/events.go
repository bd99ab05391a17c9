package httphandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ericfisherdev/repobrowser/internal/application"
)

// eventBuffer bounds the events queued for one stream client. Events beyond
// it are dropped for that client.
const eventBuffer = 64

// StreamEvents streams list events as Server-Sent Events. Each event is named
// after the field that changed and carries the full list as its data. A new
// client first receives the current user name, state and repositories.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		h.logger.Error("event stream not supported", "error", err)
		return
	}

	events := make(chan application.ListEvent, eventBuffer)

	// Runs on the main queue, so it must never block.
	cancel := h.list.Subscribe(func(ev application.ListEvent) {
		select {
		case events <- ev:
		default:
			h.logger.Warn("event stream client too slow, dropping event", "kind", ev.Kind)
		}
	})
	defer cancel()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			if err := writeEvent(w, ev); err != nil {
				h.logger.Debug("event stream write failed", "error", err)
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, ev application.ListEvent) error {
	data, err := json.Marshal(toListResponse(ev.ListSnapshot))
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Kind, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
	return err
}
