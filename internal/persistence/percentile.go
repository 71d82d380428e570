// Copyright 2025 James Ross
package persistence

import (
	"fmt"
	"strconv"
)

// formatPercentileKey and parsePercentileKey round-trip a percentile
// (e.g. 0.95) through a JSON object key, since JSON object keys must be
// strings and float64 keys are not directly representable.
func formatPercentileKey(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

func parsePercentileKey(key string) (float64, error) {
	p, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentile key %q: %w", key, err)
	}
	return p, nil
}
