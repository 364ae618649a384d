package bybit

import (
	"fmt"
	"strconv"
)

// ParseLevels converts [["price","size"], ...] pairs into a price -> size map.
// A size of "0" is kept, it means the level was removed.
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
		size, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse size %q: %w", row[1], err)
		}
		out[price] = size
	}
	return out, nil
}
