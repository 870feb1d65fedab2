package swap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount 金额无法解析或为负数, 不会发起网络请求
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidAccount 钱包账户缺少执行能力
	ErrInvalidAccount = errors.New("invalid account object - missing execute method")
	// ErrNoQuotesAvailable 聚合器无可用报价, 属于合法空态
	ErrNoQuotesAvailable = errors.New("no quotes available for this swap")
	// ErrWalletUnavailable 钱包账户句柄缺失且无法重连
	ErrWalletUnavailable = errors.New("wallet account not available")
	// ErrReconnectFailed 唯一一次静默重连未恢复预期地址
	ErrReconnectFailed = errors.New("wallet reconnection failed")
	// ErrNoExecutionPath 既无直连钱包也无托管会话
	ErrNoExecutionPath = errors.New("please connect a wallet or login to trade")
	// ErrNotReady 状态机不在Ready态, 无法发起交易
	ErrNotReady = errors.New("no quote ready for execution")
)

// ValidationError 本地参数校验失败, 不会发送到网络
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UpstreamError 聚合器或托管后端返回非2xx或响应体异常
type UpstreamError struct {
	Provider string
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s provider error", e.Provider)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}
