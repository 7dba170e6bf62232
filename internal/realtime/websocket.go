package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait = 10 * time.Second
	wsReadLimit = 512
)

// NewUpgrader returns a websocket upgrader that accepts the given origins.
// An empty list or "*" accepts any origin.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || strings.EqualFold(o, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSChannel pushes events as JSON text frames over a websocket. Keepalives
// are ping control frames.
type WSChannel struct {
	conn *websocket.Conn
}

func NewWSChannel(conn *websocket.Conn) *WSChannel {
	return &WSChannel{conn: conn}
}

func (w *WSChannel) WriteEvent(payload []byte) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

func (w *WSChannel) WriteKeepalive() error {
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// Serve holds the websocket open until the peer disconnects or the
// registry drops conn, then releases it. Inbound frames are discarded;
// sending goes through the HTTP API.
func (w *WSChannel) Serve(r *Registry, conn *Connection, pongWait time.Duration) {
	defer func() {
		r.Release(conn)
		_ = w.conn.Close()
	}()

	w.conn.SetReadLimit(wsReadLimit)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := w.conn.ReadMessage(); err != nil {
				readErr <- err
				return
			}
		}
	}()

	select {
	case <-readErr:
	case <-conn.Done():
		_ = w.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteWait))
	}
}
