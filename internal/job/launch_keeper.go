package job

import (
	"context"
	"errors"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/explorer/voyager"
	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/model"
	"github.com/fachebot/starknet-launchpad/internal/svc"

	"github.com/samber/lo"
)

const launchTimeout = time.Minute * 10

// LaunchKeeper 跟踪发射中的代币: 轮询部署交易回执,
// 从事件中提取新合约地址并落盘确认状态。
type LaunchKeeper struct {
	ctx        context.Context
	cancel     context.CancelFunc
	stopChan   chan struct{}
	svcCtx     *svc.ServiceContext
	timeoutTxs map[string]struct{}
}

func NewLaunchKeeper(svcCtx *svc.ServiceContext) *LaunchKeeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &LaunchKeeper{
		ctx:        ctx,
		cancel:     cancel,
		svcCtx:     svcCtx,
		timeoutTxs: map[string]struct{}{},
	}
}

func (keeper *LaunchKeeper) Stop() {
	if keeper.stopChan == nil {
		return
	}

	logger.Infof("[LaunchKeeper] 准备停止服务")

	keeper.cancel()

	<-keeper.stopChan
	close(keeper.stopChan)
	keeper.stopChan = nil

	logger.Infof("[LaunchKeeper] 服务已经停止")
}

func (keeper *LaunchKeeper) Start() {
	if keeper.stopChan != nil {
		return
	}

	keeper.stopChan = make(chan struct{})
	logger.Infof("[LaunchKeeper] 开始运行服务")
	go keeper.run()
}

func (keeper *LaunchKeeper) run() {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			keeper.handlePolling()
			duration := time.Millisecond * 2000
			timer.Reset(duration)
		case <-keeper.ctx.Done():
			keeper.stopChan <- struct{}{}
			return
		}
	}
}

func (keeper *LaunchKeeper) handleConfirmLaunch(token *model.Token, tx *voyager.Transaction) {
	contractAddress := keeper.extractContractAddress(tx)
	if contractAddress == "" {
		logger.Warnf("[LaunchKeeper] 回执中未找到部署事件, token: %s, hash: %s", token.Symbol, token.DeployTxHash)
		return
	}

	err := keeper.svcCtx.TokenModel.SetConfirmedStatus(keeper.ctx, token.ID, contractAddress)
	if err != nil {
		logger.Errorf("[LaunchKeeper] 设置代币 confirmed 状态失败, id: %d, hash: %s, %v", token.ID, token.DeployTxHash, err)
		return
	}
	logger.Infof("[LaunchKeeper] 代币发射确认, symbol: %s, contract: %s, hash: %s",
		token.Symbol, contractAddress, token.DeployTxHash)

	if keeper.svcCtx.Notifier != nil {
		token.ContractAddress = contractAddress
		keeper.svcCtx.Notifier.NotifyTokenConfirmed(token)
	}
}

func (keeper *LaunchKeeper) handleRejectLaunch(token *model.Token, reason string) {
	err := keeper.svcCtx.TokenModel.SetFailedStatus(keeper.ctx, token.ID, reason)
	if err != nil {
		logger.Errorf("[LaunchKeeper] 设置代币 failed 状态失败, id: %d, hash: %s, %v", token.ID, token.DeployTxHash, err)
		return
	}
	logger.Infof("[LaunchKeeper] 设置代币 failed 状态, id: %d, hash: %s, reason: %s", token.ID, token.DeployTxHash, reason)

	if keeper.svcCtx.Notifier != nil {
		keeper.svcCtx.Notifier.NotifyTokenFailed(token, reason)
	}
}

// extractContractAddress 在回执事件中查找部署事件, 取data首元素作为合约地址
func (keeper *LaunchKeeper) extractContractAddress(tx *voyager.Transaction) string {
	eventName := keeper.svcCtx.Config.SwapSettings.DeployEventName
	event, ok := lo.Find(tx.Receipt.Events, func(item voyager.Event) bool {
		return item.Name == eventName && len(item.Data) > 0
	})
	if ok {
		return event.Data[0]
	}

	return tx.ContractAddress
}

func (keeper *LaunchKeeper) handlePolling() {
	tokens, err := keeper.svcCtx.TokenModel.FindPending(keeper.ctx, 100)
	if err != nil {
		logger.Errorf("[LaunchKeeper] 获取待确认代币列表失败, %v", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	now := time.Now()
	for _, item := range tokens {
		// 忽略超时交易
		if _, timeout := keeper.timeoutTxs[item.DeployTxHash]; timeout {
			continue
		}

		tx, err := keeper.svcCtx.VoyagerClient.Transaction(keeper.ctx, item.DeployTxHash)
		if err != nil {
			var statusErr *voyager.StatusError
			if errors.As(err, &statusErr) && statusErr.Code == 404 {
				// 标记超时交易
				if now.Sub(item.CreatedAt) > launchTimeout {
					keeper.timeoutTxs[item.DeployTxHash] = struct{}{}
					logger.Errorf("[LaunchKeeper] 部署交易打包超时, symbol: %s, hash: %s, createTime: %v",
						item.Symbol, item.DeployTxHash, item.CreatedAt)
				}
				continue
			}

			logger.Errorf("[LaunchKeeper] 查询交易详情失败, symbol: %s, hash: %s, %v", item.Symbol, item.DeployTxHash, err)
			return
		}

		if tx.IsRejected() {
			keeper.handleRejectLaunch(item, "execution reverted")
			continue
		}

		keeper.handleConfirmLaunch(item, tx)
	}
}
