package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"

	syncpkg "github.com/andywinn76/todo-app/internal/sync"
)

// WSStream implements the realtime Stream over the server's websocket
// endpoint. It is session-scoped: closed on sign-out, never reconnected.
type WSStream struct {
	c *Client

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func (c *Client) Stream() *WSStream { return &WSStream{c: c} }

func (s *WSStream) Subscribe(ctx context.Context) (<-chan syncpkg.Event, error) {
	wsURL := strings.Replace(s.c.BaseURL(), "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + s.c.Token()}},
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "closed")
		return nil, context.Canceled
	}
	s.conn = conn
	s.mu.Unlock()

	ch := make(chan syncpkg.Event, 16)
	go s.readLoop(ctx, conn, ch)
	return ch, nil
}

func (s *WSStream) readLoop(ctx context.Context, conn *websocket.Conn, ch chan<- syncpkg.Event) {
	defer close(ch)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg struct {
			Entity string         `json:"entity"`
			Action string         `json:"action"`
			ID     int64          `json:"id"`
			Extra  map[string]any `json:"extra"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			s.c.logger.Warn("bad stream message", "error", err)
			continue
		}
		ev := syncpkg.Event{
			Entity: msg.Entity,
			Action: msg.Action,
			ID:     formatID(msg.ID),
		}
		// JSON numbers in the extra map arrive as float64.
		if v, ok := msg.Extra["list_id"].(float64); ok {
			ev.ListID = formatID(int64(v))
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Close tears the connection down. Safe to call more than once, including
// before Subscribe.
func (s *WSStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		return s.conn.Close(websocket.StatusNormalClosure, "session ended")
	}
	return nil
}
