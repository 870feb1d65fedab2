package cavos

import (
	"context"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"
	"github.com/shopspring/decimal"
)

// Client 封装Cavos托管服务接口, 服务端持有用户签名权
type Client struct {
	baseUrl        string
	orgId          string
	orgSecret      string
	network        string
	transportProxy *http.Transport
}

func NewClient(baseUrl, orgId, orgSecret, network string, transportProxy *http.Transport) *Client {
	return &Client{
		baseUrl:        strings.TrimRight(baseUrl, "/"),
		orgId:          orgId,
		orgSecret:      orgSecret,
		network:        network,
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

// ExecuteSessionSwap 以用户会话令牌提交托管交易, 服务端会重新询价并上链结算。
// 会话令牌一次一换, 响应中的AccessToken必须立即保存。
func (client *Client) ExecuteSessionSwap(ctx context.Context, accessToken string, req SwapRequest) (*SwapResponse, error) {
	payload := map[string]any{
		"address":          req.Address,
		"org_id":           client.orgId,
		"network":          client.network,
		"amount":           req.Amount,
		"sellTokenAddress": req.SellTokenAddress,
		"buyTokenAddress":  req.BuyTokenAddress,
	}

	var errRes *ErrorResponse
	var response SwapResponse
	err := requests.URL(client.baseUrl + "/api/v1/external/execute/session/swap").
		Method(http.MethodPost).
		Client(client.httpClient()).
		Bearer(accessToken).
		BodyJSON(payload).
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

// SignIn 邮箱登录, 返回托管钱包地址与初始会话令牌
func (client *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"org_id":   client.orgId,
		"network":  client.network,
	}

	var errRes *ErrorResponse
	var response AuthResponse
	err := requests.URL(client.baseUrl + "/api/v1/external/auth/login").
		Method(http.MethodPost).
		Client(client.httpClient()).
		Bearer(client.orgSecret).
		BodyJSON(payload).
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

// SignUp 邮箱注册, 成功后自动部署托管钱包
func (client *Client) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"org_id":   client.orgId,
		"network":  client.network,
	}

	var errRes *ErrorResponse
	var response AuthResponse
	err := requests.URL(client.baseUrl + "/api/v1/external/auth/register").
		Method(http.MethodPost).
		Client(client.httpClient()).
		Bearer(client.orgSecret).
		BodyJSON(payload).
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

// GetBalanceOf 查询托管钱包的代币余额
func (client *Client) GetBalanceOf(ctx context.Context, address, tokenAddress string, decimals uint8) (decimal.Decimal, error) {
	payload := map[string]any{
		"address":      address,
		"tokenAddress": tokenAddress,
		"decimals":     decimals,
		"org_id":       client.orgId,
		"network":      client.network,
	}

	var errRes *ErrorResponse
	var response BalanceResponse
	err := requests.URL(client.baseUrl + "/api/v1/external/wallet/balance").
		Method(http.MethodPost).
		Client(client.httpClient()).
		BodyJSON(payload).
		ErrorJSON(&errRes).
		ToJSON(&response).
		Fetch(ctx)
	if err != nil {
		if errRes != nil {
			return decimal.Zero, errRes
		}
		return decimal.Zero, err
	}

	return response.Balance, nil
}
