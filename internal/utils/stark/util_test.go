package stark

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseFormatUnits(t *testing.T) {
	wei, ok := big.NewInt(0).SetString("1500000000000000000", 10)
	require.True(t, ok)
	require.Equal(t, "1.5", ParseStrk(wei).String())

	amount := decimal.RequireFromString("1.5")
	require.Equal(t, "1500000000000000000", FormatStrk(amount).String())

	require.Equal(t, "123456000", FormatUnits(decimal.RequireFromString("123.456"), 6).String())
	require.Equal(t, "123.456", ParseUnits(big.NewInt(123456000), 6).String())
}

func TestToBeHex(t *testing.T) {
	require.Equal(t, "0x0", ToBeHex(nil))
	require.Equal(t, "0x0", ToBeHex(big.NewInt(0)))
	require.Equal(t, "0x1", ToBeHex(big.NewInt(1)))

	wei, _ := big.NewInt(0).SetString("1000000000000000000", 10)
	require.Equal(t, "0xde0b6b3a7640000", ToBeHex(wei))
}

func TestParseBeHex(t *testing.T) {
	v, ok := ParseBeHex("0x1bc16d674ec80000")
	require.True(t, ok)
	require.Equal(t, "2000000000000000000", v.String())

	v, ok = ParseBeHex("123")
	require.True(t, ok)
	require.Equal(t, "123", v.String())

	_, ok = ParseBeHex("")
	require.False(t, ok)
	_, ok = ParseBeHex("0xzz")
	require.False(t, ok)
}

func TestIsPlausibleAddress(t *testing.T) {
	require.True(t, IsPlausibleAddress("0x0123456789abcdef"))
	require.False(t, IsPlausibleAddress("0x123"))
	require.False(t, IsPlausibleAddress(""))
}
