package notify

import (
	"fmt"

	"huckster/internal/arbitrage"

	"github.com/shopspring/decimal"
)

// Event types understood by the Notifier filter.
const (
	EventArbitrage = "arbitrage"
	EventFailure   = "failure"
	EventShutdown  = "shutdown"
)

func ShutdownMessage(reason string) Message {
	if reason == "" {
		reason = "unknown"
	}
	return NewBuilder().
		Text("Shutdown reason: ").
		Code(reason).
		Build("🫡 Huckster is shutting down")
}

func ArbitrageFoundMessage(a arbitrage.Arbitrage) Message {
	b := NewBuilder()
	for i, o := range a.Orders {
		b.Text(fmt.Sprintf("%d) %s %s at %s\n", i+1, o.Side, o.Symbol, decimal.NewFromFloat(o.Price).String()))
	}
	b.Text("\n").Code(a.ID.String())

	pct := arbitrage.ProfitPercentageDecimal(a.Profit)
	return b.Build(fmt.Sprintf("💵 Arbitrage found: profit %s%%", pct.String()))
}

func FeedFailureMessage(err error) Message {
	text := "unknown error"
	if err != nil {
		text = err.Error()
	}
	return NewBuilder().
		Text("Error: ").
		Code(text).
		Build("🫣 Order book feed failed")
}
