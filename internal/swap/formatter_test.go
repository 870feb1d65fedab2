package swap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToFixedPoint(t *testing.T) {
	testCases := []struct {
		amount   string
		decimals uint8
		expected string
	}{
		{"1", 18, "1000000000000000000"},
		{"0.5", 18, "500000000000000000"},
		{"0", 18, "0"},
		{"123.456", 6, "123456000"},
		{"0.0000001", 6, "0"},
		// 超过精度的尾数向下截断, 永不进位
		{"1.9999999999999999999", 18, "1999999999999999999"},
		{"0.000000000000000000999", 18, "0"},
		{" 2.5 ", 18, "2500000000000000000"},
	}

	for _, tc := range testCases {
		actual, err := ToFixedPoint(tc.amount, tc.decimals)
		require.NoError(t, err, tc.amount)
		require.Equal(t, tc.expected, actual, tc.amount)
	}
}

func TestToFixedPointInvalidInput(t *testing.T) {
	for _, amount := range []string{"", "abc", "1.2.3", "-1", "-0.5"} {
		_, err := ToFixedPoint(amount, 18)
		require.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
}
