package binance

// ExchangeInfoResponse is the subset of /api/v3/exchangeInfo the feed needs.
type ExchangeInfoResponse struct {
	Timezone   string `json:"timezone"`
	ServerTime int64  `json:"serverTime"` // ms
	Symbols    []struct {
		Symbol     string `json:"symbol"`     // e.g., "BTCUSDT"
		Status     string `json:"status"`     // "TRADING" when open
		BaseAsset  string `json:"baseAsset"`  // e.g., "BTC"
		QuoteAsset string `json:"quoteAsset"` // e.g., "USDT"
	} `json:"symbols"`
}

// ErrorResponse is returned by the REST API on 4xx.
type ErrorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// CombinedMessage wraps every push on a /stream?streams= connection.
type CombinedMessage struct {
	Stream string      `json:"stream"` // e.g., "btcusdt@depth@100ms"
	Data   DepthUpdate `json:"data"`
}

// DepthUpdate is a diff depth event.
type DepthUpdate struct {
	EventType     string     `json:"e"` // "depthUpdate"
	EventTime     int64      `json:"E"` // ms
	Symbol        string     `json:"s"`
	FirstUpdateID int64      `json:"U"`
	FinalUpdateID int64      `json:"u"`
	Bids          [][]string `json:"b"` // [price, qty], qty "0" removes the level
	Asks          [][]string `json:"a"`
}
