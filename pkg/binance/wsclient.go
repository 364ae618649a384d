package binance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	handshakeTimeout = 15 * time.Second
	// Binance pings every 3 minutes; a connection silent for longer is dead.
	readTimeout = 10 * time.Minute
)

// WSClient reads one combined stream connection. The streams are encoded in
// the URL, so there is no subscribe step.
type WSClient struct {
	url    string
	logger *zap.Logger
	conn   *websocket.Conn
}

func NewWSClient(url string, logger *zap.Logger) *WSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSClient{url: url, logger: logger}
}

func (c *WSClient) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.logger.Error("Failed to connect to WebSocket", zap.Error(err))
		return fmt.Errorf("dial binance stream: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	c.conn = conn
	c.logger.Info("WebSocket connected")
	return nil
}

// Listen reads messages until ctx is done, the connection fails or handler
// returns an error. It returns nil only when ctx is done.
func (c *WSClient) Listen(ctx context.Context, handler func([]byte) error) error {
	if c.conn == nil {
		return errors.New("websocket not connected")
	}

	stop := make(chan struct{})
	defer close(stop)
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
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if err := handler(msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *WSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
