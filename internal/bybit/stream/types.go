package stream

// OrderbookMessage is a push on an "orderbook.{depth}.{symbol}" topic.
type OrderbookMessage struct {
	Topic string        `json:"topic"` // e.g., "orderbook.50.BTCUSDT"
	Type  string        `json:"type"`  // "snapshot" or "delta"
	Ts    int64         `json:"ts"`    // ms, when the system generated the data
	Data  OrderbookData `json:"data"`
}

type OrderbookData struct {
	Symbol   string     `json:"s"`
	Bids     [][]string `json:"b"` // [price, size], size "0" removes the level
	Asks     [][]string `json:"a"`
	UpdateID int64      `json:"u"`
	Seq      int64      `json:"seq"`
}

const (
	TypeSnapshot = "snapshot"
	TypeDelta    = "delta"
)
