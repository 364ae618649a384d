package bybit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// go test -v --run TestWSClientSubscribeBatches
func TestWSClientSubscribeBatches(t *testing.T) {
	requests := make(chan WSRequest, 8)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req WSRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			requests <- req
			if req.Op == "subscribe" {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"topic":"orderbook.1.A","type":"snapshot"}`))
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := NewWSClient("ws"+strings.TrimPrefix(srv.URL, "http"), time.Hour, nil)
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	topics := make([]string, 23)
	for i := range topics {
		topics[i] = OrderbookTopic(Depth1, "S"+string(rune('A'+i)))
	}
	if err := c.Subscribe(topics); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sizes := []int{10, 10, 3}
	for i, want := range sizes {
		select {
		case req := <-requests:
			if req.Op != "subscribe" || len(req.Args) != want || req.ReqID == "" {
				t.Fatalf("batch %d = %+v, want %d args", i, req, want)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for subscribe")
		}
	}

	received := 0
	listenCtx, stop := context.WithCancel(ctx)
	err := c.Listen(listenCtx, func(msg []byte) error {
		received++
		if received == 3 {
			stop()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("listen after cancel = %v, want nil", err)
	}
}
