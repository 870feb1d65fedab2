package avnu

import (
	"fmt"

	"github.com/fachebot/starknet-launchpad/internal/starknet"
)

type Quote struct {
	QuoteId                   string  `json:"quoteId"`
	SellTokenAddress          string  `json:"sellTokenAddress"`
	SellAmount                string  `json:"sellAmount"`
	SellAmountInUsd           float64 `json:"sellAmountInUsd"`
	BuyTokenAddress           string  `json:"buyTokenAddress"`
	BuyAmount                 string  `json:"buyAmount"`
	BuyAmountInUsd            float64 `json:"buyAmountInUsd"`
	BuyAmountWithoutFees      string  `json:"buyAmountWithoutFees"`
	BuyAmountWithoutFeesInUsd float64 `json:"buyAmountWithoutFeesInUsd"`
	EstimatedAmount           bool    `json:"estimatedAmount"`
	ChainId                   string  `json:"chainId"`
	BlockNumber               string  `json:"blockNumber"`
	Expiry                    *string `json:"expiry"`
	Routes                    []Route `json:"routes"`
	GasFees                   string  `json:"gasFees"`
	GasFeesInUsd              float64 `json:"gasFeesInUsd"`
	AvnuFees                  string  `json:"avnuFees"`
	AvnuFeesInUsd             float64 `json:"avnuFeesInUsd"`
	AvnuFeesBps               string  `json:"avnuFeesBps"`
	IntegratorFees            string  `json:"integratorFees"`
	IntegratorFeesInUsd       float64 `json:"integratorFeesInUsd"`
	IntegratorFeesBps         string  `json:"integratorFeesBps"`
	PriceRatioUsd             float64 `json:"priceRatioUsd"`
	LiquiditySource           string  `json:"liquiditySource"`
	SellTokenPriceInUsd       float64 `json:"sellTokenPriceInUsd"`
	BuyTokenPriceInUsd        float64 `json:"buyTokenPriceInUsd"`
	Gasless                   Gasless `json:"gasless"`
	ExactTokenTo              bool    `json:"exactTokenTo"`
	EstimatedSlippage         float64 `json:"estimatedSlippage"`
}

type Route struct {
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	Percent          float64   `json:"percent"`
	SellTokenAddress string    `json:"sellTokenAddress"`
	BuyTokenAddress  string    `json:"buyTokenAddress"`
	RouteInfo        RouteInfo `json:"routeInfo"`
	Routes           []Route   `json:"routes"`
}

type RouteInfo struct {
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	Fee         string `json:"fee"`
	TickSpacing string `json:"tickSpacing"`
	Extension   string `json:"extension"`
}

type Gasless struct {
	Active         bool            `json:"active"`
	GasTokenPrices []GasTokenPrice `json:"gasTokenPrices"`
}

type GasTokenPrice struct {
	TokenAddress      string  `json:"tokenAddress"`
	GasFeesInGasToken string  `json:"gasFeesInGasToken"`
	GasFeesInUsd      float64 `json:"gasFeesInUsd"`
}

type QuotesResponse struct {
	Quotes []Quote `json:"quotes"`
	Prices []any   `json:"prices"`
}

type BuildResponse struct {
	ChainId string          `json:"chainId"`
	Calls   []starknet.Call `json:"calls"`
}

type ErrorResponse struct {
	Message  string   `json:"message"`
	Messages []string `json:"messages"`
}

func (e *ErrorResponse) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return "unknown avnu error"
}

func (e *ErrorResponse) String() string {
	return fmt.Sprintf("avnu: %s", e.Error())
}
