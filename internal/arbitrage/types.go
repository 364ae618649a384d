package arbitrage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Order is one leg of a cycle. Price is the book price observed when the cycle was found.
type Order struct {
	Side   Side    `json:"side"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// Arbitrage is a profitable three-leg cycle. Profit is the multiplicative
// return net of fees, so 1.02 means +2%.
type Arbitrage struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Orders    [3]Order  `json:"orders"`
	Profit    float64   `json:"profit"`
}

// ProfitPercentage returns (Profit-1)*100 rounded half away from zero to 3 decimals.
func (a Arbitrage) ProfitPercentage() float64 {
	return ProfitPercentageDecimal(a.Profit).InexactFloat64()
}

// ProfitPercentageDecimal is ProfitPercentage for callers that need exact formatting.
func ProfitPercentageDecimal(profit float64) decimal.Decimal {
	return decimal.NewFromFloat(profit).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(100)).
		Round(3)
}

// Symbols returns the symbols of the three legs in execution order.
func (a Arbitrage) Symbols() []string {
	return []string{a.Orders[0].Symbol, a.Orders[1].Symbol, a.Orders[2].Symbol}
}

func (a Arbitrage) String() string {
	legs := make([]string, 0, len(a.Orders))
	for _, o := range a.Orders {
		legs = append(legs, fmt.Sprintf("%s %s@%s", o.Side, o.Symbol, decimal.NewFromFloat(o.Price).String()))
	}
	return fmt.Sprintf("%s [%s] %s%%", a.ID, strings.Join(legs, " -> "), ProfitPercentageDecimal(a.Profit).StringFixed(3))
}
