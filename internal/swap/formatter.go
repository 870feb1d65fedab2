package swap

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ToFixedPoint 将十进制数量转换为链上定点整数字符串。
// 乘以10^decimals后向下截断, 永不进位。
func ToFixedPoint(amount string, decimals uint8) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	mul := decimal.New(1, int32(decimals))
	return d.Mul(mul).Truncate(0).String(), nil
}
