package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xyleee/api-devguidance/pkg/logger"
)

type fakeChannel struct {
	mu         sync.Mutex
	events     [][]byte
	keepalives int
	failWrites bool
}

func (f *fakeChannel) WriteEvent(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("broken pipe")
	}
	f.events = append(f.events, append([]byte(nil), payload...))
	return nil
}

func (f *fakeChannel) WriteKeepalive() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("broken pipe")
	}
	f.keepalives++
	return nil
}

func (f *fakeChannel) breakPipe() {
	f.mu.Lock()
	f.failWrites = true
	f.mu.Unlock()
}

func (f *fakeChannel) decoded(t *testing.T) []Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, 0, len(f.events))
	for _, raw := range f.events {
		var e Event
		require.NoError(t, json.Unmarshal(raw, &e))
		out = append(out, e)
	}
	return out
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger.Silence()
	// Long interval: tests drive Heartbeat directly.
	r := NewRegistry(context.Background(), time.Hour)
	t.Cleanup(r.Close)
	return r
}

func TestRegisterWritesAcknowledgement(t *testing.T) {
	r := newTestRegistry(t)
	ch := &fakeChannel{}

	conn, err := r.Register("u1", ch)
	require.NoError(t, err)
	assert.Equal(t, "u1", conn.UserID)

	events := ch.decoded(t)
	require.Len(t, events, 1)
	assert.Equal(t, EventConnection, events[0].Type)
	assert.Equal(t, "Connected to message stream", events[0].Message)
	assert.Equal(t, []string{"u1"}, r.ListConnected())
}

func TestRegisterFailsWhenAcknowledgementCannotBeWritten(t *testing.T) {
	r := newTestRegistry(t)
	ch := &fakeChannel{failWrites: true}

	_, err := r.Register("u1", ch)
	assert.Error(t, err)
	assert.Empty(t, r.ListConnected())
}

func TestPushDeliversToConnectedUser(t *testing.T) {
	r := newTestRegistry(t)
	ch := &fakeChannel{}
	_, err := r.Register("u1", ch)
	require.NoError(t, err)

	ok := r.Push("u1", Event{Type: EventMessage, Data: map[string]string{"content": "hi"}})
	assert.True(t, ok)

	events := ch.decoded(t)
	require.Len(t, events, 2)
	assert.Equal(t, EventMessage, events[1].Type)
	assert.Equal(t, map[string]interface{}{"content": "hi"}, events[1].Data)
}

func TestPushToAbsentUserReturnsFalse(t *testing.T) {
	r := newTestRegistry(t)
	assert.False(t, r.Push("nobody", Event{Type: EventMessage}))
}

func TestPushFailureDropsConnection(t *testing.T) {
	r := newTestRegistry(t)
	ch := &fakeChannel{}
	conn, err := r.Register("u1", ch)
	require.NoError(t, err)

	ch.breakPipe()
	assert.False(t, r.Push("u1", Event{Type: EventMessage}))
	assert.Empty(t, r.ListConnected())

	select {
	case <-conn.Done():
	default:
		t.Fatal("connection should be closed after a failed push")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Register("u1", &fakeChannel{})
	require.NoError(t, err)

	assert.True(t, r.Unregister("u1"))
	assert.False(t, r.Unregister("u1"))
	assert.False(t, r.Unregister("never-registered"))
	assert.Empty(t, r.ListConnected())
}

func TestRegisterReplacesPreviousConnection(t *testing.T) {
	r := newTestRegistry(t)
	first := &fakeChannel{}
	second := &fakeChannel{}

	oldConn, err := r.Register("u1", first)
	require.NoError(t, err)
	newConn, err := r.Register("u1", second)
	require.NoError(t, err)

	select {
	case <-oldConn.Done():
	default:
		t.Fatal("replaced connection should be closed")
	}

	// A late close handler for the old stream must not evict the new one.
	r.Release(oldConn)
	assert.Equal(t, []string{"u1"}, r.ListConnected())

	assert.True(t, r.Push("u1", Event{Type: EventMessage}))
	assert.Len(t, first.decoded(t), 1)
	assert.Len(t, second.decoded(t), 2)

	assert.True(t, r.Release(newConn))
	assert.Empty(t, r.ListConnected())
}

func TestHeartbeatDropsBrokenConnections(t *testing.T) {
	r := newTestRegistry(t)
	healthy := &fakeChannel{}
	broken := &fakeChannel{}
	_, err := r.Register("healthy", healthy)
	require.NoError(t, err)
	_, err = r.Register("broken", broken)
	require.NoError(t, err)

	broken.breakPipe()
	r.Heartbeat()

	assert.Equal(t, []string{"healthy"}, r.ListConnected())
	assert.Equal(t, 1, healthy.keepalives)
}

func TestHeartbeatLoopRunsOnInterval(t *testing.T) {
	logger.Silence()
	r := NewRegistry(context.Background(), 10*time.Millisecond)
	defer r.Close()

	ch := &fakeChannel{}
	_, err := r.Register("u1", ch)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		ch.mu.Lock()
		defer ch.mu.Unlock()
		return ch.keepalives >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestCloseDropsAllConnections(t *testing.T) {
	logger.Silence()
	r := NewRegistry(context.Background(), time.Hour)

	conn, err := r.Register("u1", &fakeChannel{})
	require.NoError(t, err)

	r.Close()
	assert.Empty(t, r.ListConnected())
	<-conn.Done()
}

func TestConcurrentPushAndRegister(t *testing.T) {
	r := newTestRegistry(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.Register("u1", &fakeChannel{})
		}()
		go func() {
			defer wg.Done()
			r.Push("u1", Event{Type: EventMessage})
			r.Heartbeat()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"u1"}, r.ListConnected())
}

func TestSSEChannelFraming(t *testing.T) {
	rec := httptest.NewRecorder()
	ch, err := NewSSEChannel(rec)
	require.NoError(t, err)

	require.NoError(t, ch.WriteEvent([]byte(`{"type":"message"}`)))
	require.NoError(t, ch.WriteKeepalive())

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "data: {\"type\":\"message\"}\n\n"))
	assert.True(t, strings.HasSuffix(body, ":heartbeat\n\n"))
}
