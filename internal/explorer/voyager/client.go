package voyager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"
)

const userAgent = "Mozilla/5.0 (compatible; bag.fun)"

type Transaction struct {
	Hash            string  `json:"hash"`
	Status          string  `json:"status"`
	ExecutionStatus string  `json:"execution_status"`
	ContractAddress string  `json:"contract_address"`
	Receipt         Receipt `json:"receipt"`
}

type Receipt struct {
	Events []Event `json:"events"`
}

type Event struct {
	Name        string   `json:"name"`
	FromAddress string   `json:"fromAddress"`
	Data        []string `json:"data"`
}

// IsRejected 交易被排序器驳回
func (tx *Transaction) IsRejected() bool {
	status := strings.ToUpper(tx.Status)
	execution := strings.ToUpper(tx.ExecutionStatus)
	return strings.Contains(status, "REJECTED") || strings.Contains(execution, "REVERTED")
}

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("voyager api error: %d", e.Code)
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

// Transaction 查询交易详情, 含回执事件
func (client *Client) Transaction(ctx context.Context, txHash string) (*Transaction, error) {
	raw, err := client.RawTransaction(ctx, txHash)
	if err != nil {
		return nil, err
	}

	var tx Transaction
	if err = json.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// RawTransaction 原样返回上游JSON, 供代理接口转发
func (client *Client) RawTransaction(ctx context.Context, txHash string) (json.RawMessage, error) {
	var raw json.RawMessage
	var statusCode int
	err := requests.URL(client.baseUrl+"/txn/"+txHash).
		Client(client.httpClient()).
		Accept("application/json").
		UserAgent(userAgent).
		AddValidator(func(res *http.Response) error {
			statusCode = res.StatusCode
			return nil
		}).
		CheckStatus(http.StatusOK).
		ToJSON(&raw).
		Fetch(ctx)
	if err != nil {
		if statusCode != 0 && statusCode != http.StatusOK {
			return nil, &StatusError{Code: statusCode}
		}
		return nil, err
	}

	return raw, nil
}
