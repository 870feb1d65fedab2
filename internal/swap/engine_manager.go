package swap

import (
	"sync"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/custodial/cavos"
	"github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"
	"github.com/fachebot/starknet-launchpad/internal/session"
	"github.com/fachebot/starknet-launchpad/internal/starknet"
)

type EngineManagerConfig struct {
	Fetcher     QuoteFetcher
	Balances    BalanceProvider
	AvnuClient  *avnu.Client
	CavosClient *cavos.Client
	Sessions    *session.Store
	StrkCA      string
	SlippageBps int
	Debounce    time.Duration
}

// EngineManager 按会话维护交易编排引擎: 登录即建, 登出即毁。
// 防抖窗口与滑点参数在此统一下发。
type EngineManager struct {
	mutex   sync.Mutex
	config  EngineManagerConfig
	engines map[string]*Engine
}

func NewEngineManager(config EngineManagerConfig) *EngineManager {
	return &EngineManager{
		config:  config,
		engines: make(map[string]*Engine),
	}
}

// AttachCustodial 获取或创建会话引擎并绑定托管执行路径
func (m *EngineManager) AttachCustodial(sessionId, walletAddress string) *Engine {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	engine, ok := m.engines[sessionId]
	if !ok {
		engine = m.newEngineLocked(sessionId)
	}
	engine.BindCustodial(NewCustodialPath(m.config.CavosClient, m.config.Sessions, sessionId), walletAddress)
	return engine
}

// BindWallet 为会话绑定直连钱包路径, 选路时直连钱包优先于托管会话
func (m *EngineManager) BindWallet(sessionId string, connector starknet.Connector, account starknet.Account, address string) *Engine {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	engine, ok := m.engines[sessionId]
	if !ok {
		engine = m.newEngineLocked(sessionId)
	}
	engine.BindWallet(NewWalletPath(m.config.AvnuClient, connector, account, address, m.config.SlippageBps), address)
	return engine
}

func (m *EngineManager) newEngineLocked(sessionId string) *Engine {
	engine := NewEngine(m.config.Fetcher, m.config.Balances, m.config.StrkCA, m.config.Debounce)
	m.engines[sessionId] = engine
	return engine
}

func (m *EngineManager) Get(sessionId string) (*Engine, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	engine, ok := m.engines[sessionId]
	return engine, ok
}

// Detach 销毁会话引擎
func (m *EngineManager) Detach(sessionId string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	engine, ok := m.engines[sessionId]
	if !ok {
		return
	}
	engine.Close()
	delete(m.engines, sessionId)
}

func (m *EngineManager) Close() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for sessionId, engine := range m.engines {
		engine.Close()
		delete(m.engines, sessionId)
	}
}
