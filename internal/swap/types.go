package swap

import "github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"

// SwapParams 执行路径的已校验输入, 金额为定点整数表示
type SwapParams struct {
	Address          string
	Amount           string
	SellTokenAddress string
	BuyTokenAddress  string
}

// SwapResult 一次执行尝试的结果
type SwapResult struct {
	TxHash      string
	AccessToken string
}

// ExecuteRequest 发起一次交易所需的输入。Quote仅用于展示与估算,
// 直连钱包路径在提交前会重新询价。
type ExecuteRequest struct {
	Amount           string
	SellTokenAddress string
	BuyTokenAddress  string
	Quote            *avnu.Quote
}
