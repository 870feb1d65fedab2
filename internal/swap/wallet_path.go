package swap

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"
	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/starknet"
)

type accountPhase int

const (
	phaseReady accountPhase = iota
	phaseNeedsAccount
	phaseReconnecting
)

// WalletPath 使用直连钱包执行交易。展示报价不会被复用,
// 提交前以钱包地址为taker重新询价。
type WalletPath struct {
	avnuClient  *avnu.Client
	connector   starknet.Connector
	account     starknet.Account
	address     string
	slippageBps int
}

func NewWalletPath(avnuClient *avnu.Client, connector starknet.Connector, account starknet.Account, address string, slippageBps int) *WalletPath {
	return &WalletPath{
		avnuClient:  avnuClient,
		connector:   connector,
		account:     account,
		address:     address,
		slippageBps: slippageBps,
	}
}

func (path *WalletPath) Name() string {
	return "wallet"
}

func (path *WalletPath) Execute(ctx context.Context, req ExecuteRequest) (SwapResult, error) {
	account, err := path.resolveAccount(ctx)
	if err != nil {
		return SwapResult{}, err
	}

	executor, ok := account.(starknet.Executor)
	if !ok {
		return SwapResult{}, ErrInvalidAccount
	}

	formatted, err := ToFixedPoint(req.Amount, 18)
	if err != nil {
		return SwapResult{}, err
	}

	params := SwapParams{
		Address:          account.Address(),
		Amount:           formatted,
		SellTokenAddress: req.SellTokenAddress,
		BuyTokenAddress:  req.BuyTokenAddress,
	}
	if err = ValidateSwapParams(params); err != nil {
		return SwapResult{}, err
	}

	sellAmount, ok := big.NewInt(0).SetString(formatted, 10)
	if !ok {
		return SwapResult{}, fmt.Errorf("%w: %q", ErrInvalidAmount, req.Amount)
	}

	// 报价可能过期或与taker绑定, 提交前必须重新询价
	quotes, err := path.avnuClient.Quote(ctx, avnu.QuoteRequest{
		SellTokenAddress: strings.ToLower(req.SellTokenAddress),
		BuyTokenAddress:  strings.ToLower(req.BuyTokenAddress),
		SellAmount:       sellAmount,
		TakerAddress:     path.address,
		Size:             1,
	})
	if err != nil {
		return SwapResult{}, &UpstreamError{Provider: "Swap", Message: err.Error()}
	}
	if len(quotes) == 0 {
		return SwapResult{}, ErrNoQuotesAvailable
	}

	build, err := path.avnuClient.BuildSwap(ctx, quotes[0].QuoteId, path.address, path.slippageBps, true)
	if err != nil {
		return SwapResult{}, &UpstreamError{Provider: "Swap", Message: err.Error()}
	}

	hash, err := executor.Execute(ctx, build.Calls)
	if err != nil {
		return SwapResult{}, err
	}

	return SwapResult{TxHash: hash}, nil
}

// resolveAccount 解析账户句柄。句柄缺失时(如页面刷新丢失内存绑定)
// 最多发起一次neverAsk静默重连; 重连得到的临时句柄仅用于本次交易,
// 不回写全局状态, 也不做第二次尝试。
func (path *WalletPath) resolveAccount(ctx context.Context) (starknet.Account, error) {
	phase := phaseReady
	if path.account == nil {
		phase = phaseNeedsAccount
	}

	for {
		switch phase {
		case phaseReady:
			return path.account, nil
		case phaseNeedsAccount:
			if path.connector == nil || path.address == "" {
				return nil, ErrWalletUnavailable
			}
			logger.Warnf("[WalletPath] 钱包账户句柄缺失, 尝试静默重连, address: %s", path.address)
			phase = phaseReconnecting
		case phaseReconnecting:
			account, err := path.connector.Connect(ctx, starknet.ConnectOptions{ModalMode: starknet.ModalModeNeverAsk})
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrReconnectFailed, err)
			}
			if account == nil || !strings.EqualFold(account.Address(), path.address) {
				return nil, ErrReconnectFailed
			}
			logger.Infof("[WalletPath] 静默重连成功, address: %s", account.Address())
			return account, nil
		}
	}
}
