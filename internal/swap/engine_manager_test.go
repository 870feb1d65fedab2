package swap

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/custodial/cavos"
	"github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"
	"github.com/fachebot/starknet-launchpad/internal/session"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, server *httptest.Server) (*EngineManager, *session.Store) {
	t.Helper()

	avnuClient := avnu.NewClient(server.URL, nil)
	cavosClient := cavos.NewClient(server.URL, "org-1", "secret", "mainnet", nil)
	sessions := session.NewStore(time.Minute)

	manager := NewEngineManager(EngineManagerConfig{
		Fetcher:     NewQuoteService(avnuClient),
		Balances:    cavosClient,
		AvnuClient:  avnuClient,
		CavosClient: cavosClient,
		Sessions:    sessions,
		StrkCA:      testStrkCA,
		SlippageBps: 50,
		Debounce:    time.Millisecond,
	})
	t.Cleanup(manager.Close)

	return manager, sessions
}

func TestEngineManagerAttachCustodial(t *testing.T) {
	stub := &avnuStub{quotes: []avnu.Quote{quoteWithId("q-1")}}
	server := newAvnuStubServer(t, stub)
	manager, sessions := newTestManager(t, server)

	sessionId := sessions.Put(session.Session{
		WalletAddress: testWalletAddress,
		AccessToken:   "token-1",
		AuthMethod:    session.AuthMethodCavos,
	})

	engine := manager.AttachCustodial(sessionId, testWalletAddress)
	require.Same(t, engine, manager.AttachCustodial(sessionId, testWalletAddress))

	path, err := engine.SelectExecutionPath()
	require.NoError(t, err)
	require.Equal(t, "cavos", path.Name())

	manager.Detach(sessionId)
	_, ok := manager.Get(sessionId)
	require.False(t, ok)
}

func TestEngineManagerWalletPrecedence(t *testing.T) {
	stub := &avnuStub{quotes: []avnu.Quote{quoteWithId("q-9")}}
	server := newAvnuStubServer(t, stub)
	manager, sessions := newTestManager(t, server)

	sessionId := sessions.Put(session.Session{
		WalletAddress: testWalletAddress,
		AccessToken:   "token-1",
		AuthMethod:    session.AuthMethodCavos,
	})
	manager.AttachCustodial(sessionId, testWalletAddress)

	executor := &fakeExecutor{fakeAccount: fakeAccount{address: testWalletAddress}, txHash: "0xabc"}
	engine := manager.BindWallet(sessionId, nil, executor, testWalletAddress)

	path, err := engine.SelectExecutionPath()
	require.NoError(t, err)
	require.Equal(t, "wallet", path.Name())

	engine.SetInput(Input{Amount: "1", SellTokenAddress: testStrkCA, BuyTokenAddress: testMemeCA})
	require.NoError(t, engine.WaitQuote(context.Background()))

	result, err := engine.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0xabc", result.TxHash)

	// 滑点参数由管理器统一下发
	require.Equal(t, 0.005, stub.lastBuild["slippage"])
}
