// Package socket is the persistent signaling/realtime connection shared by
// the stream and notification managers.
package socket

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// SignalFunc receives signaling frames (offer, answer, ice-candidate,
// viewer events).
type SignalFunc func(model.SignalMessage)

// NotificationFunc receives pushed notifications.
type NotificationFunc func(model.Notification)

// Client is a websocket client for the backend's realtime channel. Writes are
// serialized through a mutex; the read loop runs in one goroutine and
// dispatches frames by type. There is no reconnect or send retry: a frame
// pushed while disconnected is lost.
type Client struct {
	log *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	onSignal       SignalFunc
	onNotification NotificationFunc
}

// New creates a disconnected socket client.
func New(log *zap.Logger) *Client {
	return &Client{log: log}
}

// OnSignal registers the signaling dispatch target. Set before Connect.
func (c *Client) OnSignal(fn SignalFunc) { c.onSignal = fn }

// OnNotification registers the notification dispatch target. Set before
// Connect.
func (c *Client) OnNotification(fn NotificationFunc) { c.onNotification = fn }

// Connect dials the socket with the bearer token and starts the read loop.
func (c *Client) Connect(ctx context.Context, url, token string) error {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNetworkUnavailable, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	go c.readLoop(conn)
	c.log.Info("socket connected", zap.String("url", url))
	return nil
}

// Send pushes one JSON frame. Returns ErrSocketClosed when disconnected.
func (c *Client) Send(msg model.SignalMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errs.ErrSocketClosed
	}
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

// Close tears the connection down. Safe to call when disconnected.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		_ = conn.Close()
	}()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("socket read error", zap.Error(err))
			}
			return
		}
		var msg model.SignalMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warn("malformed socket frame", zap.Error(err))
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg model.SignalMessage) {
	switch msg.Type {
	case model.EventNotification:
		if c.onNotification == nil {
			return
		}
		var n model.Notification
		if err := json.Unmarshal(msg.Payload, &n); err != nil {
			c.log.Warn("malformed notification payload", zap.Error(err))
			return
		}
		c.onNotification(n)
	default:
		if c.onSignal != nil {
			c.onSignal(msg)
		}
	}
}
