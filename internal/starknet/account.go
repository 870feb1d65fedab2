package starknet

import "context"

// Call 表示一次Starknet合约调用
type Call struct {
	ContractAddress string   `json:"contractAddress"`
	Entrypoint      string   `json:"entrypoint"`
	Calldata        []string `json:"calldata"`
}

// Account 表示一个已连接的钱包账户
type Account interface {
	Address() string
}

// Executor 表示具备签名提交能力的账户, 执行路径在提交前必须断言该能力
type Executor interface {
	Account
	Execute(ctx context.Context, calls []Call) (string, error)
}

type ModalMode string

const (
	// ModalModeNeverAsk 静默连接, 不弹出钱包选择窗口
	ModalModeNeverAsk  ModalMode = "neverAsk"
	ModalModeAlwaysAsk ModalMode = "alwaysAsk"
)

type ConnectOptions struct {
	ModalMode ModalMode
}

// Connector 负责建立钱包连接
type Connector interface {
	Connect(ctx context.Context, opts ConnectOptions) (Account, error)
}
