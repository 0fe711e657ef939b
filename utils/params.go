package utils

import (
	"fmt"
	"strconv"

	"github.com/threadline/threadline-api/models"
)

// ParseID parses a numeric path or query parameter into a record id
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

// ParseOrderSource validates an order source parameter. Orders are identified
// by (source, id) pairs, so a bad source is rejected before any lookup.
func ParseOrderSource(raw string) (string, error) {
	if !models.ValidOrderSource(raw) {
		return "", fmt.Errorf("invalid order source %q (expected %s or %s)",
			raw, models.OrderSourceCustomOrder, models.OrderSourceClothCustomizer)
	}
	return raw, nil
}
