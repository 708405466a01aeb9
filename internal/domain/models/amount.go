package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount reads a whole currency amount written with or without thousands
// separators ("100,000", "100000", "100,000원"). An empty value is absent.
func ParseAmount(value string) (*int64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimSuffix(cleaned, "원")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "won")
	cleaned = strings.NewReplacer(",", "", " ", "", "_", "").Replace(cleaned)
	if cleaned == "" {
		return nil, nil
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", value, ErrValidation)
	}
	return &n, nil
}
