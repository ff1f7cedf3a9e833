// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing costs typed by the user and
// rounding derived amounts for display.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseCost converts a decimal string to a cost with cent precision.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero, negative and malformed
// values return ErrInvalidCost.
//
// Examples:
//
//	ParseCost("15.99")  -> 15.99, nil
//	ParseCost("15,99")  -> 15.99, nil
//	ParseCost("12.345") -> 12.35, nil (rounds up)
//	ParseCost("12.344") -> 12.34, nil
func ParseCost(s string) (float64, error) {
	cents, err := parseDecimalToCents(s)
	if err != nil {
		return 0, err
	}
	return float64(cents) / 100.0, nil
}

func parseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidCost
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidCost
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidCost
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	// ASCII only: the fraction is read byte by byte below
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidCost
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidCost
	}
	// keep cents*100 inside int64
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidCost
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidCost
	}
	return cents, nil
}

// RoundCents rounds an amount half away from zero to two decimals.
// Use it for display only; aggregation keeps full precision.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
