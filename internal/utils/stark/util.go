package stark

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

func ParseStrk(value *big.Int) decimal.Decimal {
	return ParseUnits(value, 18)
}

func ParseUnits(value *big.Int, decimals uint8) decimal.Decimal {
	mul := decimal.NewFromFloat(float64(10)).Pow(decimal.NewFromInt32(int32(decimals)))
	num, _ := decimal.NewFromString(value.String())
	result := num.DivRound(mul, int32(decimals)).Truncate(int32(decimals))
	return result
}

func FormatStrk(amount decimal.Decimal) *big.Int {
	return FormatUnits(amount, 18)
}

func FormatUnits(amount decimal.Decimal, decimals uint8) *big.Int {
	mul := decimal.NewFromFloat(float64(10)).Pow(decimal.NewFromInt32(int32(decimals)))
	result := amount.Mul(mul).Truncate(0)

	wei := big.NewInt(0)
	wei.SetString(result.String(), 10)
	return wei
}

// ToBeHex 按大端序编码为0x前缀十六进制字符串
func ToBeHex(value *big.Int) string {
	if value == nil || value.Sign() == 0 {
		return "0x0"
	}
	return hexutil.EncodeBig(value)
}

// ParseBeHex 解析0x前缀的十六进制整数
func ParseBeHex(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, ok := big.NewInt(0).SetString(s[2:], 16)
		return v, ok
	}

	v, ok := big.NewInt(0).SetString(s, 10)
	return v, ok
}

// IsPlausibleAddress 粗略校验链上地址, 不做完整格式校验
func IsPlausibleAddress(address string) bool {
	return len(address) >= 10
}
