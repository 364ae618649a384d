package bybit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	handshakeTimeout = 15 * time.Second
	writeTimeout     = 10 * time.Second
	defaultPingEvery = 20 * time.Second
)

// WSClient handles one websocket connection to the Bybit public stream.
// Reconnecting is left to the caller: once Listen returns the client is done.
type WSClient struct {
	url          string
	pingInterval time.Duration
	logger       *zap.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewWSClient creates a client for the given URL, e.g. "wss://stream.bybit.com/v5/public/spot".
func NewWSClient(url string, pingInterval time.Duration, logger *zap.Logger) *WSClient {
	if pingInterval <= 0 {
		pingInterval = defaultPingEvery
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSClient{
		url:          url,
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Connect establishes the websocket connection. It does not start the listener.
func (c *WSClient) Connect(ctx context.Context) error {
	// Attempt to connect to the WebSocket server
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.logger.Error("Failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.logger.Info("WebSocket connected", zap.String("url", c.url))
	return nil
}

// Subscribe sends subscribe requests in batches of MaxArgsPerSubscribe topics.
func (c *WSClient) Subscribe(topics []string) error {
	for start := 0; start < len(topics); start += MaxArgsPerSubscribe {
		end := min(start+MaxArgsPerSubscribe, len(topics))
		req := WSRequest{
			ReqID: uuid.NewString(),
			Op:    "subscribe",
			Args:  topics[start:end],
		}
		if err := c.writeJSON(req); err != nil {
			return fmt.Errorf("websocket subscribe failed: %w", err)
		}
	}
	c.logger.Info("Subscribed to topics", zap.Int("count", len(topics)))
	return nil
}

// Listen reads messages and hands them to handler until ctx is done, the
// connection fails or handler returns an error. It returns nil only when ctx
// is done.
func (c *WSClient) Listen(ctx context.Context, handler func([]byte) error) error {
	if c.conn == nil {
		return errors.New("websocket not connected")
	}

	stop := make(chan struct{})
	defer close(stop)

	// Keep the connection alive and unblock the reader once ctx is done
	go c.pingLoop(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.Close()
		case <-stop:
		}
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("WebSocket read error", zap.Error(err))
			return fmt.Errorf("websocket read: %w", err)
		}
		if err := handler(msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Close closes the underlying connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// Bybit drops connections that stay silent, so an application ping is sent
// every pingInterval.
func (c *WSClient) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.writeJSON(WSRequest{Op: "ping"}); err != nil {
				c.logger.Warn("ping failed", zap.Error(err))
				return
			}
		}
	}
}

func (c *WSClient) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}
