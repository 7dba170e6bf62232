package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Xyleee/api-devguidance/pkg/logger"
)

// DefaultHeartbeatInterval keeps idle streams open through proxies that
// drop connections after ~60s of silence.
const DefaultHeartbeatInterval = 30 * time.Second

// ErrConnectionClosed is returned when writing to a connection that has
// already been removed from the registry.
var ErrConnectionClosed = errors.New("live connection closed")

// Channel is a writable push transport for one user (SSE stream, WebSocket).
// Calls are serialized by the owning Connection.
type Channel interface {
	WriteEvent(payload []byte) error
	WriteKeepalive() error
}

// Event is the JSON frame pushed to clients.
type Event struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	EventConnection = "connection"
	EventMessage    = "message"
	EventMentorship = "mentorship"
)

// Connection is the registry's handle on one open channel.
type Connection struct {
	UserID       string
	RegisteredAt time.Time

	channel Channel
	mu      sync.Mutex
	closed  bool
	done    chan struct{}
}

// Done is closed once the connection is removed from the registry, whether
// by disconnect, replacement, write failure or shutdown.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) write(fn func(Channel) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	return fn(c.channel)
}

// close marks the connection dead; returns false if it already was.
func (c *Connection) close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	close(c.done)
	return true
}

// Registry tracks at most one live connection per user and pushes events
// to them on a best-effort basis.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Connection

	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewRegistry creates a registry and starts its heartbeat loop. The loop
// stops when ctx is cancelled or Close is called.
func NewRegistry(ctx context.Context, heartbeat time.Duration) *Registry {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	r := &Registry{
		conns:    make(map[string]*Connection),
		interval: heartbeat,
		cancel:   cancel,
	}

	r.wg.Add(1)
	go r.run(ctx)
	return r
}

func (r *Registry) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Heartbeat()
		}
	}
}

// Close stops the heartbeat loop and drops every connection.
func (r *Registry) Close() {
	r.cancel()
	r.wg.Wait()

	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]*Connection)
	r.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}

// Register binds ch as the active connection for userID and writes the
// initial acknowledgement frame. A previous connection for the same user is
// replaced; its Done channel fires so its transport can shut down.
func (r *Registry) Register(userID string, ch Channel) (*Connection, error) {
	ack, err := json.Marshal(Event{Type: EventConnection, Message: "Connected to message stream"})
	if err != nil {
		return nil, err
	}
	if err := ch.WriteEvent(ack); err != nil {
		return nil, err
	}

	conn := &Connection{
		UserID:       userID,
		RegisteredAt: time.Now(),
		channel:      ch,
		done:         make(chan struct{}),
	}

	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()

	if prev != nil {
		prev.close()
		logger.Debug().Str("user_id", userID).Msg("Live connection replaced")
	}
	logger.Info().Str("user_id", userID).Msg("Live connection opened")
	return conn, nil
}

// Unregister removes the connection tracked for userID. Safe to call when
// nothing is registered; reports whether a connection was removed.
func (r *Registry) Unregister(userID string) bool {
	r.mu.Lock()
	conn, ok := r.conns[userID]
	if ok {
		delete(r.conns, userID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	conn.close()
	logger.Info().Str("user_id", userID).Msg("Live connection closed")
	return true
}

// Release removes conn only if it is still the tracked connection for its
// user, so a late close handler cannot evict a newer replacement. Transports
// call this when their underlying stream ends.
func (r *Registry) Release(conn *Connection) bool {
	r.mu.Lock()
	current, ok := r.conns[conn.UserID]
	if ok && current == conn {
		delete(r.conns, conn.UserID)
	}
	r.mu.Unlock()

	if !conn.close() {
		return false
	}
	if ok && current == conn {
		logger.Info().Str("user_id", conn.UserID).Msg("Live connection closed")
	}
	return true
}

// Push writes event to userID's connection. It returns false when the user
// is not connected or the write fails; a failed write drops the connection.
func (r *Registry) Push(userID string, event Event) bool {
	r.mu.RLock()
	conn := r.conns[userID]
	r.mu.RUnlock()
	if conn == nil {
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("type", event.Type).Msg("Failed to encode live event")
		return false
	}

	err = conn.write(func(ch Channel) error { return ch.WriteEvent(payload) })
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrConnectionClosed) {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Live push failed, dropping connection")
		r.Release(conn)
	}
	return false
}

// ListConnected returns the ids of users with an open connection, sorted.
func (r *Registry) ListConnected() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Heartbeat writes a keepalive to every connection. Connections that fail
// the write are treated as disconnected.
func (r *Registry) Heartbeat() {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	for _, c := range conns {
		err := c.write(func(ch Channel) error { return ch.WriteKeepalive() })
		if err != nil && !errors.Is(err, ErrConnectionClosed) {
			logger.Debug().Err(err).Str("user_id", c.UserID).Msg("Heartbeat failed, dropping connection")
			r.Release(c)
		}
	}
}
