package avnu

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fachebot/starknet-launchpad/internal/utils/stark"

	"github.com/carlmjohnson/requests"
)

type QuoteRequest struct {
	SellTokenAddress string
	BuyTokenAddress  string
	SellAmount       *big.Int
	TakerAddress     string
	Size             int
}

type Client struct {
	baseUrl        string
	transportProxy *http.Transport
}

func NewClient(baseUrl string, transportProxy *http.Transport) *Client {
	return &Client{
		baseUrl:        strings.TrimRight(baseUrl, "/"),
		transportProxy: transportProxy,
	}
}

func (client *Client) httpClient() *http.Client {
	httpClient := new(http.Client)
	if client.transportProxy != nil {
		httpClient.Transport = client.transportProxy
	}
	return httpClient
}

// Quote 请求最优报价, sellAmount按大端序十六进制编码
func (client *Client) Quote(ctx context.Context, req QuoteRequest) ([]Quote, error) {
	size := req.Size
	if size <= 0 {
		size = 1
	}

	params := url.Values{}
	params.Set("sellTokenAddress", req.SellTokenAddress)
	params.Set("buyTokenAddress", req.BuyTokenAddress)
	params.Set("sellAmount", stark.ToBeHex(req.SellAmount))
	params.Set("size", strconv.Itoa(size))
	if req.TakerAddress != "" {
		params.Set("takerAddress", strings.ToLower(req.TakerAddress))
	}

	var errRes *ErrorResponse
	var body json.RawMessage
	err := requests.URL(client.baseUrl+"/swap/v2/quotes?"+params.Encode()).
		Client(client.httpClient()).
		ErrorJSON(&errRes).
		ToJSON(&body).
		Fetch(ctx)
	if err != nil {
		if errRes != nil {
			return nil, errRes
		}
		return nil, err
	}

	// 上游可能直接返回数组, 也可能返回{quotes, prices}包装
	var quotes []Quote
	if err = json.Unmarshal(body, &quotes); err == nil {
		return quotes, nil
	}

	var wrapped QuotesResponse
	if err = json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Quotes, nil
}

// BuildSwap 根据报价构造链上调用, includeApprove为真时包含授权调用
func (client *Client) BuildSwap(ctx context.Context, quoteId, takerAddress string, slippageBps int, includeApprove bool) (*BuildResponse, error) {
	params := map[string]any{
		"quoteId":        quoteId,
		"takerAddress":   strings.ToLower(takerAddress),
		"slippage":       float64(slippageBps) / 10000,
		"includeApprove": includeApprove,
	}

	var errRes *ErrorResponse
	var response BuildResponse
	err := requests.URL(client.baseUrl + "/swap/v2/build").
		Method(http.MethodPost).
		Client(client.httpClient()).
		BodyJSON(params).
		ErrorJSON(&errRes).
		ToJSON(&response).
		Fetch(ctx)
	if err != nil {
		if errRes != nil {
			return nil, errRes
		}
		return nil, err
	}

	return &response, nil
}
