package binance

import (
	"fmt"
	"strings"
)

const (
	StatusTrading = "TRADING"

	// Binance caps a single connection at 1024 streams.
	MaxStreamsPerConnection = 1024
)

var validUpdateSpeeds = map[string]string{
	"":       "@depth@100ms",
	"100ms":  "@depth@100ms",
	"1000ms": "@depth",
}

// DepthStreamName builds a diff depth stream name like "btcusdt@depth@100ms".
func DepthStreamName(symbol, updateSpeed string) (string, error) {
	suffix, ok := validUpdateSpeeds[updateSpeed]
	if !ok {
		return "", fmt.Errorf("invalid depth update speed: %q", updateSpeed)
	}
	return strings.ToLower(symbol) + suffix, nil
}

// CombinedStreamURL joins stream names onto the combined endpoint of baseURL.
func CombinedStreamURL(baseURL string, streams []string) (string, error) {
	if len(streams) == 0 {
		return "", fmt.Errorf("no streams to subscribe")
	}
	if len(streams) > MaxStreamsPerConnection {
		return "", fmt.Errorf("%d streams exceed the per-connection limit of %d", len(streams), MaxStreamsPerConnection)
	}
	return strings.TrimRight(baseURL, "/") + "/stream?streams=" + strings.Join(streams, "/"), nil
}
