package bybit

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	CategorySpot = "spot"

	// StatusTrading is the instrument status of symbols open for trading.
	StatusTrading = "Trading"

	// Bybit rejects subscribe requests carrying more than 10 args on the spot channel.
	MaxArgsPerSubscribe = 10

	orderbookTopicPrefix = "orderbook."
)

// OrderbookDepth is the number of levels pushed by an orderbook topic.
type OrderbookDepth int

const (
	Depth1   OrderbookDepth = 1
	Depth50  OrderbookDepth = 50
	Depth200 OrderbookDepth = 200
)

var validSpotDepths = map[OrderbookDepth]struct{}{
	Depth1:   {},
	Depth50:  {},
	Depth200: {},
}

func (d OrderbookDepth) IsValid() bool {
	_, ok := validSpotDepths[d]
	return ok
}

// ParseOrderbookDepth validates a configured depth against the spot topics Bybit offers.
func ParseOrderbookDepth(n int) (OrderbookDepth, error) {
	d := OrderbookDepth(n)
	if !d.IsValid() {
		return 0, fmt.Errorf("invalid spot orderbook depth: %d", n)
	}
	return d, nil
}

// OrderbookTopic builds a topic like "orderbook.50.BTCUSDT".
func OrderbookTopic(depth OrderbookDepth, symbol string) string {
	return orderbookTopicPrefix + strconv.Itoa(int(depth)) + "." + symbol
}

func OrderbookTopics(depth OrderbookDepth, symbols []string) []string {
	topics := make([]string, 0, len(symbols))
	for _, s := range symbols {
		topics = append(topics, OrderbookTopic(depth, s))
	}
	return topics
}

func IsOrderbookTopic(topic string) bool {
	return strings.HasPrefix(topic, orderbookTopicPrefix)
}

// SymbolFromTopic parses the symbol from a topic like "orderbook.50.BTCUSDT".
func SymbolFromTopic(topic string) string {
	parts := strings.Split(topic, ".")
	if len(parts) == 3 {
		return parts[2]
	}
	return ""
}
