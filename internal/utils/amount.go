package utils

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// FormatRawAmount renders a raw integer balance as a human-readable decimal
// string, dividing by 10^decimals with exact integer arithmetic. Trailing
// zero fractional digits are trimmed; a zero fraction yields the whole
// number with no decimal point.
func FormatRawAmount(raw *big.Int, decimals int) string {
	if raw == nil || raw.Sign() == 0 {
		return "0"
	}
	s := raw.String()
	if decimals <= 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// ParseHumanAmount converts a human-readable decimal amount into raw
// integer units (amount * 10^decimals). Fractional digits beyond the
// token's precision are truncated, not rounded.
func ParseHumanAmount(human string, decimals int) (*big.Int, error) {
	human = strings.TrimSpace(human)
	if !decimalPattern.MatchString(human) {
		return nil, fmt.Errorf("amount must be in decimal form like 1.23, got %q", human)
	}
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must be >= 0, got %d", decimals)
	}

	intPart := human
	fracPart := ""
	if idx := strings.Index(human, "."); idx >= 0 {
		intPart = human[:idx]
		fracPart = human[idx+1:]
	}
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		return big.NewInt(0), nil
	}
	raw, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", human)
	}
	return raw, nil
}
