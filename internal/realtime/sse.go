package realtime

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var errStreamingUnsupported = errors.New("response writer does not support streaming")

// SSEChannel writes server-sent events to an open HTTP response.
type SSEChannel struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEChannel prepares w for an event stream: it sets the stream headers,
// lifts the server write deadline and flushes the response head.
func NewSSEChannel(w http.ResponseWriter) (*SSEChannel, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	// Streams outlive any server-wide write timeout. Not every writer
	// supports deadlines (test recorders don't), so the error is ignored.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEChannel{w: w, flusher: flusher}, nil
}

func (s *SSEChannel) WriteEvent(payload []byte) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *SSEChannel) WriteKeepalive() error {
	if _, err := fmt.Fprint(s.w, ":heartbeat\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
