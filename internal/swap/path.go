package swap

import "context"

// ExecutionPath 一次交易尝试选定的执行路径, 由优先级规则一次性选出, 互不混用
type ExecutionPath interface {
	Name() string
	Execute(ctx context.Context, req ExecuteRequest) (SwapResult, error)
}
