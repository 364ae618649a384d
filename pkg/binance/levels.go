package binance

import (
	"fmt"
	"strconv"
)

// ParseLevels converts [["price","qty"], ...] into a price -> qty map.
func ParseLevels(raw [][]string) (map[float64]float64, error) {
	out := make(map[float64]float64, len(raw))
	for _, row := range raw {
		if len(row) < 2 {
			return nil, fmt.Errorf("incomplete level: %v", row)
		}
		price, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", row[0], err)
		}
		qty, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse qty %q: %w", row[1], err)
		}
		out[price] = qty
	}
	return out, nil
}
