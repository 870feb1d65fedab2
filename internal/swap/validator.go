package swap

import "github.com/shopspring/decimal"

// ValidateSwapParams 按固定顺序校验交易参数, 返回第一条失败规则
func ValidateSwapParams(params SwapParams) error {
	if len(params.Address) < 10 {
		return &ValidationError{Reason: "Invalid wallet address"}
	}

	amount, err := decimal.NewFromString(params.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Reason: "Amount must be greater than 0"}
	}

	if params.SellTokenAddress == "" || params.BuyTokenAddress == "" {
		return &ValidationError{Reason: "Token addresses are required"}
	}

	if params.SellTokenAddress == params.BuyTokenAddress {
		return &ValidationError{Reason: "Cannot swap the same token"}
	}

	return nil
}
