package swap

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"
	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/utils/stark"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateIdle      State = "idle"
	StateQuoting   State = "quoting"
	StateReady     State = "ready"
	StateExecuting State = "executing"
	StateSettled   State = "settled"
	StateFailed    State = "failed"
)

// QuoteFetcher 获取报价
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, sellTokenAddress, buyTokenAddress, sellAmount string) ([]avnu.Quote, error)
}

// BalanceProvider 结算后刷新余额
type BalanceProvider interface {
	GetBalanceOf(ctx context.Context, address, tokenAddress string, decimals uint8) (decimal.Decimal, error)
}

// Input 一次报价请求的输入快照, 交易方向由调用方折算为代币对
type Input struct {
	Amount           string
	SellTokenAddress string
	BuyTokenAddress  string
}

// Engine 驱动报价与交易的状态机:
// Idle → Quoting → Ready → Executing → Settled|Failed。
// 报价请求遵循last-input-wins: 迟到的过期结果一律丢弃。
type Engine struct {
	mutex     sync.Mutex
	state     State
	input     Input
	seq       uint64
	timer     *time.Timer
	quoteDone chan struct{}
	debounce  time.Duration

	quote     *avnu.Quote
	quoteErr  error
	lastError error
	txHash    string

	fetcher  QuoteFetcher
	balances BalanceProvider
	strkCA   string

	walletPath       ExecutionPath
	walletAddress    string
	custodialPath    ExecutionPath
	custodialAddress string

	strkBalance  decimal.Decimal
	tokenBalance decimal.Decimal
}

func NewEngine(fetcher QuoteFetcher, balances BalanceProvider, strkCA string, debounce time.Duration) *Engine {
	return &Engine{
		state:    StateIdle,
		fetcher:  fetcher,
		balances: balances,
		strkCA:   strkCA,
		debounce: debounce,
	}
}

// BindWallet 绑定直连钱包路径, path为nil表示断开
func (e *Engine) BindWallet(path ExecutionPath, address string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.walletPath = path
	e.walletAddress = address
}

// BindCustodial 绑定托管会话路径
func (e *Engine) BindCustodial(path ExecutionPath, address string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.custodialPath = path
	e.custodialAddress = address
}

// SetInput 更新金额/方向/代币对。金额为空或非法时清空报价回到Idle,
// 否则进入Quoting并在防抖窗口结束后发起请求。
func (e *Engine) SetInput(input Input) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.input = input
	e.seq++
	seq := e.seq

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.quoteDone != nil {
		close(e.quoteDone)
		e.quoteDone = nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		// 无需报价, 不算错误
		e.quote = nil
		e.quoteErr = nil
		e.state = StateIdle
		return
	}

	e.state = StateQuoting
	e.quoteDone = make(chan struct{})
	e.timer = time.AfterFunc(e.debounce, func() {
		e.requestQuote(seq, input)
	})
}

func (e *Engine) requestQuote(seq uint64, input Input) {
	quotes, err := e.fetcher.FetchQuotes(context.Background(), input.SellTokenAddress, input.BuyTokenAddress, input.Amount)

	e.mutex.Lock()
	defer e.mutex.Unlock()

	if seq != e.seq {
		// 输入已变化, 丢弃过期结果
		logger.Debugf("[SwapEngine] 丢弃过期报价结果, seq: %d, current: %d", seq, e.seq)
		return
	}

	defer func() {
		if e.quoteDone != nil {
			close(e.quoteDone)
			e.quoteDone = nil
		}
	}()

	if err != nil {
		e.quote = nil
		e.quoteErr = err
		e.state = StateIdle
		return
	}

	if len(quotes) == 0 {
		e.quote = nil
		e.quoteErr = ErrNoQuotesAvailable
		e.state = StateIdle
		return
	}

	quote := quotes[0]
	e.quote = &quote
	e.quoteErr = nil
	e.state = StateReady
}

// SelectExecutionPath 按优先级选择执行路径: 直连钱包优先于托管会话
func (e *Engine) SelectExecutionPath() (ExecutionPath, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	path, _, err := e.selectExecutionPathLocked()
	return path, err
}

func (e *Engine) selectExecutionPathLocked() (ExecutionPath, string, error) {
	if e.walletPath != nil {
		return e.walletPath, e.walletAddress, nil
	}
	if e.custodialPath != nil {
		return e.custodialPath, e.custodialAddress, nil
	}
	return nil, "", ErrNoExecutionPath
}

// Execute 用户触发交易。成功后清空金额输入并异步刷新余额;
// 失败后保留错误信息, 需要用户手动重试。
func (e *Engine) Execute(ctx context.Context) (SwapResult, error) {
	e.mutex.Lock()

	if e.state != StateReady || e.quote == nil {
		e.mutex.Unlock()
		return SwapResult{}, ErrNotReady
	}

	path, payer, err := e.selectExecutionPathLocked()
	if err != nil {
		e.lastError = err
		e.state = StateFailed
		e.mutex.Unlock()
		return SwapResult{}, err
	}

	input := e.input
	quote := e.quote
	e.state = StateExecuting
	e.mutex.Unlock()

	result, err := path.Execute(ctx, ExecuteRequest{
		Amount:           input.Amount,
		SellTokenAddress: input.SellTokenAddress,
		BuyTokenAddress:  input.BuyTokenAddress,
		Quote:            quote,
	})

	e.mutex.Lock()
	if err != nil {
		logger.Errorf("[SwapEngine] 交易执行失败, path: %s, sell: %s, buy: %s, %v",
			path.Name(), input.SellTokenAddress, input.BuyTokenAddress, err)
		e.lastError = err
		e.state = StateFailed
		e.mutex.Unlock()
		return SwapResult{}, err
	}

	logger.Infof("[SwapEngine] 交易执行成功, path: %s, hash: %s", path.Name(), result.TxHash)
	e.txHash = result.TxHash
	e.lastError = nil
	e.state = StateSettled
	e.input.Amount = ""
	tradedToken := tradedTokenOf(input, e.strkCA)
	e.mutex.Unlock()

	// 余额刷新尽力而为, 失败不回退Settled状态
	go e.refreshBalances(payer, tradedToken)

	return result, nil
}

func tradedTokenOf(input Input, strkCA string) string {
	if strings.EqualFold(input.SellTokenAddress, strkCA) {
		return input.BuyTokenAddress
	}
	return input.SellTokenAddress
}

func (e *Engine) refreshBalances(address, tokenAddress string) {
	if e.balances == nil || address == "" {
		return
	}

	strkBalance, err := e.balances.GetBalanceOf(context.Background(), address, e.strkCA, 18)
	if err != nil {
		logger.Errorf("[SwapEngine] 刷新STRK余额失败, address: %s, %v", address, err)
	} else {
		e.mutex.Lock()
		e.strkBalance = strkBalance
		e.mutex.Unlock()
	}

	if tokenAddress == "" {
		return
	}

	tokenBalance, err := e.balances.GetBalanceOf(context.Background(), address, tokenAddress, 18)
	if err != nil {
		logger.Errorf("[SwapEngine] 刷新代币余额失败, address: %s, token: %s, %v", address, tokenAddress, err)
		return
	}

	e.mutex.Lock()
	e.tokenBalance = tokenBalance
	e.mutex.Unlock()
}

// WaitQuote 阻塞等待本轮报价结束: Ready返回nil, 报价失败返回对应错误,
// 输入无效返回ErrNotReady。等待期间输入被更新时转而等待新一轮结果。
func (e *Engine) WaitQuote(ctx context.Context) error {
	for {
		e.mutex.Lock()
		state := e.state
		done := e.quoteDone
		quoteErr := e.quoteErr
		e.mutex.Unlock()

		switch state {
		case StateReady:
			return nil
		case StateQuoting:
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		default:
			if quoteErr != nil {
				return quoteErr
			}
			return ErrNotReady
		}
	}
}

// Close 停止尚未触发的防抖定时器并释放等待方
func (e *Engine) Close() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.quoteDone != nil {
		close(e.quoteDone)
		e.quoteDone = nil
	}
	if e.state == StateQuoting {
		e.state = StateIdle
	}
}

func (e *Engine) State() State {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.state
}

func (e *Engine) Quote() *avnu.Quote {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.quote
}

func (e *Engine) QuoteError() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.quoteErr
}

func (e *Engine) LastError() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.lastError
}

func (e *Engine) TxHash() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.txHash
}

func (e *Engine) Input() Input {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.input
}

func (e *Engine) Balances() (decimal.Decimal, decimal.Decimal) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.strkBalance, e.tokenBalance
}

// ExpectedReceive 当前报价折算后的预计到手数量
func (e *Engine) ExpectedReceive(decimals uint8) decimal.Decimal {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.quote == nil {
		return decimal.Zero
	}

	v, ok := stark.ParseBeHex(e.quote.BuyAmount)
	if !ok {
		return decimal.Zero
	}
	return stark.ParseUnits(v, decimals)
}
