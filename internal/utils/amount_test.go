package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatRawAmount(t *testing.T) {
	tests := []struct {
		raw      string
		decimals int
		want     string
	}{
		{"12345000000", 10, "1.2345"},
		{"5000000000", 10, "0.5"},
		{"0", 10, "0"},
		{"10000000000", 10, "1"},
		{"1", 10, "0.0000000001"},
		{"123456789012", 12, "0.123456789012"},
		{"42", 0, "42"},
	}

	for _, tt := range tests {
		raw, ok := new(big.Int).SetString(tt.raw, 10)
		require.True(t, ok)
		require.Equal(t, tt.want, FormatRawAmount(raw, tt.decimals))
	}
}

func TestParseHumanAmount(t *testing.T) {
	tests := []struct {
		human    string
		decimals int
		want     string
	}{
		{"1.23456789", 4, "12345"}, // floor truncation, not rounding
		{"1.2345", 10, "12345000000"},
		{"0.5", 10, "5000000000"},
		{"0", 10, "0"},
		{"3", 12, "3000000000000"},
		{"0.00009", 4, "0"},
	}

	for _, tt := range tests {
		got, err := ParseHumanAmount(tt.human, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.want, got.String())
	}
}

func TestParseHumanAmountRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "-1", "1.2.3", "1,5", "abc", ".5"} {
		_, err := ParseHumanAmount(bad, 10)
		require.Error(t, err, "amount %q", bad)
	}
}
