package swap

import (
	"context"
	"errors"

	"github.com/fachebot/starknet-launchpad/internal/custodial/cavos"
	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/session"
)

// CustodialPath 通过Cavos会话在用户授权下执行交易。
// 后端会重新询价并上链结算, 客户端不做二次询价。
type CustodialPath struct {
	client    *cavos.Client
	sessions  *session.Store
	sessionId string
}

func NewCustodialPath(client *cavos.Client, sessions *session.Store, sessionId string) *CustodialPath {
	return &CustodialPath{
		client:    client,
		sessions:  sessions,
		sessionId: sessionId,
	}
}

func (path *CustodialPath) Name() string {
	return "cavos"
}

func (path *CustodialPath) Execute(ctx context.Context, req ExecuteRequest) (SwapResult, error) {
	sess, ok := path.sessions.Get(path.sessionId)
	if !ok || sess.AccessToken == "" {
		return SwapResult{}, errors.New("missing cavos session")
	}

	formatted, err := ToFixedPoint(req.Amount, 18)
	if err != nil {
		return SwapResult{}, err
	}

	params := SwapParams{
		Address:          sess.WalletAddress,
		Amount:           formatted,
		SellTokenAddress: req.SellTokenAddress,
		BuyTokenAddress:  req.BuyTokenAddress,
	}
	if err = ValidateSwapParams(params); err != nil {
		return SwapResult{}, err
	}

	response, err := path.client.ExecuteSessionSwap(ctx, sess.AccessToken, cavos.SwapRequest{
		Address:          params.Address,
		Amount:           params.Amount,
		SellTokenAddress: params.SellTokenAddress,
		BuyTokenAddress:  params.BuyTokenAddress,
	})
	if err != nil {
		var errRes *cavos.ErrorResponse
		if errors.As(err, &errRes) {
			return SwapResult{}, &UpstreamError{Provider: "Swap", Message: errRes.Message}
		}
		return SwapResult{}, &UpstreamError{Provider: "Swap", Message: err.Error()}
	}

	// 令牌一次一换, 必须先落盘再返回
	if response.AccessToken != "" {
		if !path.sessions.UpdateAccessToken(path.sessionId, response.AccessToken) {
			logger.Warnf("[CustodialPath] 会话已失效, 无法保存轮换令牌, sessionId: %s", path.sessionId)
		}
	}

	return SwapResult{TxHash: response.Result, AccessToken: response.AccessToken}, nil
}
