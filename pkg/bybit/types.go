package bybit

import "encoding/json"

// BybitResponse is the envelope shared by every V5 REST endpoint.
type BybitResponse struct {
	RetCode    int                    `json:"retCode"` // 0 means success
	RetMsg     string                 `json:"retMsg"`
	Result     json.RawMessage        `json:"result"` // decoded per endpoint
	RetExtInfo map[string]interface{} `json:"retExtInfo"`
	Time       int64                  `json:"time"` // ms
}

type InstrumentListResponse struct {
	Category       string `json:"category"`
	NextPageCursor string `json:"nextPageCursor"`
	List           []struct {
		Symbol    string `json:"symbol"`    // e.g., "BTCUSDT"
		BaseCoin  string `json:"baseCoin"`  // e.g., "BTC"
		QuoteCoin string `json:"quoteCoin"` // e.g., "USDT"
		Status    string `json:"status"`    // "Trading" when open
	} `json:"list"`
}

// WSRequest is an operation sent on the public websocket ("subscribe", "ping").
type WSRequest struct {
	ReqID string   `json:"req_id,omitempty"`
	Op    string   `json:"op"`
	Args  []string `json:"args,omitempty"`
}

// WSOpResponse acknowledges a WSRequest.
type WSOpResponse struct {
	Success bool   `json:"success"`
	RetMsg  string `json:"ret_msg"`
	ConnID  string `json:"conn_id"`
	ReqID   string `json:"req_id"`
	Op      string `json:"op"`
}
