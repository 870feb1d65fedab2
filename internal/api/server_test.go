package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/cache"
	"github.com/fachebot/starknet-launchpad/internal/config"
	"github.com/fachebot/starknet-launchpad/internal/custodial/cavos"
	"github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"
	"github.com/fachebot/starknet-launchpad/internal/explorer/voyager"
	"github.com/fachebot/starknet-launchpad/internal/model"
	"github.com/fachebot/starknet-launchpad/internal/session"
	"github.com/fachebot/starknet-launchpad/internal/svc"
	"github.com/fachebot/starknet-launchpad/internal/swap"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testStrkCA = "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"
const testMemeCA = "0x068f5c6a61780768455de69077e07e89787839bf8166decfbf92b645209c0fb8"

type upstreams struct {
	avnu    http.HandlerFunc
	cavos   http.HandlerFunc
	voyager http.HandlerFunc
}

func newTestServer(t *testing.T, up upstreams) (*httptest.Server, *svc.ServiceContext) {
	t.Helper()

	defaultHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	if up.avnu == nil {
		up.avnu = defaultHandler
	}
	if up.cavos == nil {
		up.cavos = defaultHandler
	}
	if up.voyager == nil {
		up.voyager = defaultHandler
	}

	avnuServer := httptest.NewServer(up.avnu)
	t.Cleanup(avnuServer.Close)
	cavosServer := httptest.NewServer(up.cavos)
	t.Cleanup(cavosServer.Close)
	voyagerServer := httptest.NewServer(up.voyager)
	t.Cleanup(voyagerServer.Close)

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Token{}))
	tokenModel := model.NewTokenModel(db)

	avnuClient := avnu.NewClient(avnuServer.URL, nil)
	cavosClient := cavos.NewClient(cavosServer.URL, "org-1", "secret", "mainnet", nil)
	sessions := session.NewStore(time.Minute)
	quoteService := swap.NewQuoteService(avnuClient)
	swapEngines := swap.NewEngineManager(swap.EngineManagerConfig{
		Fetcher:     quoteService,
		Balances:    cavosClient,
		AvnuClient:  avnuClient,
		CavosClient: cavosClient,
		Sessions:    sessions,
		StrkCA:      testStrkCA,
		SlippageBps: 50,
		Debounce:    time.Millisecond,
	})
	t.Cleanup(swapEngines.Close)

	svcCtx := &svc.ServiceContext{
		Config: &config.Config{
			Chain: config.Chain{
				Network:      "mainnet",
				StrkCA:       testStrkCA,
				StrkSymbol:   "STRK",
				StrkDecimals: 18,
				SlippageBps:  50,
			},
			Api: config.Api{Host: "127.0.0.1", Port: 0},
		},
		AvnuClient:     avnuClient,
		CavosClient:    cavosClient,
		VoyagerClient:  voyager.NewClient(voyagerServer.URL, nil),
		QuoteService:   quoteService,
		SwapEngines:    swapEngines,
		Sessions:       sessions,
		TokenMetaCache: cache.NewTokenMetaCache(tokenModel),
		TokenModel:     tokenModel,
	}

	server := NewServer(svcCtx)
	testServer := httptest.NewServer(server.httpServer.Handler)
	t.Cleanup(testServer.Close)

	return testServer, svcCtx
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res.StatusCode, body
}

func postJSON(t *testing.T, url, bearer string, payload any) (int, map[string]any) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res.StatusCode, body
}

func TestQuotesMissingParams(t *testing.T) {
	server, _ := newTestServer(t, upstreams{})

	statusCode, body := getJSON(t, server.URL+"/api/quotes?sellTokenAddress="+testStrkCA)
	require.Equal(t, http.StatusBadRequest, statusCode)
	require.Equal(t, "Missing required parameters: sellTokenAddress, buyTokenAddress, sellAmount", body["error"])
}

func TestQuotesInvalidAmount(t *testing.T) {
	server, _ := newTestServer(t, upstreams{})

	for _, amount := range []string{"0", "-1", "abc"} {
		statusCode, body := getJSON(t,
			server.URL+"/api/quotes?sellTokenAddress="+testStrkCA+"&buyTokenAddress="+testMemeCA+"&sellAmount="+amount)
		require.Equal(t, http.StatusBadRequest, statusCode, amount)
		require.Equal(t, "sellAmount must be a positive number", body["error"], amount)
	}
}

func TestQuotesSuccess(t *testing.T) {
	server, _ := newTestServer(t, upstreams{
		avnu: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]avnu.Quote{{QuoteId: "q-1", BuyAmount: "0x2"}})
		},
	})

	statusCode, body := getJSON(t,
		server.URL+"/api/quotes?sellTokenAddress="+testStrkCA+"&buyTokenAddress="+testMemeCA+"&sellAmount=1.5")
	require.Equal(t, http.StatusOK, statusCode)

	quotes := body["quotes"].([]any)
	require.Len(t, quotes, 1)
	require.Equal(t, "q-1", quotes[0].(map[string]any)["quoteId"])
	require.Empty(t, body["prices"])
}

func TestQuotesUpstreamFailure(t *testing.T) {
	server, _ := newTestServer(t, upstreams{
		avnu: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "aggregator down"})
		},
	})

	statusCode, body := getJSON(t,
		server.URL+"/api/quotes?sellTokenAddress="+testStrkCA+"&buyTokenAddress="+testMemeCA+"&sellAmount=1")
	require.Equal(t, http.StatusBadGateway, statusCode)
	require.Equal(t, "Swap provider error", body["error"])
	require.Contains(t, body["details"], "aggregator down")
}

func TestVoyagerProxy(t *testing.T) {
	server, _ := newTestServer(t, upstreams{
		voyager: func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/txn/0xabc", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"hash": "0xabc", "status": "Accepted on L2"})
		},
	})

	statusCode, body := getJSON(t, server.URL+"/api/voyager/0xabc")
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, "0xabc", body["hash"])
}

func TestVoyagerProxyRelaysStatusCode(t *testing.T) {
	server, _ := newTestServer(t, upstreams{
		voyager: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})

	statusCode, body := getJSON(t, server.URL+"/api/voyager/0xmissing")
	require.Equal(t, http.StatusNotFound, statusCode)
	require.Equal(t, "Failed to fetch transaction", body["error"])
}

func TestSwapRequiresSession(t *testing.T) {
	server, _ := newTestServer(t, upstreams{})

	statusCode, _ := postJSON(t, server.URL+"/api/swap", "", map[string]any{"amount": "1"})
	require.Equal(t, http.StatusUnauthorized, statusCode)

	statusCode, _ = postJSON(t, server.URL+"/api/swap", "missing-session", map[string]any{"amount": "1"})
	require.Equal(t, http.StatusUnauthorized, statusCode)
}

func swapUpstreams() upstreams {
	return upstreams{
		avnu: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]avnu.Quote{{QuoteId: "q-1", BuyAmount: "0x1bc16d674ec80000"}})
		},
		cavos: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/api/v1/external/wallet/balance" {
				_ = json.NewEncoder(w).Encode(map[string]any{"balance": "1"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": "0xfeed", "accessToken": "token-2"})
		},
	}
}

func TestSwapExecutesAndRotatesToken(t *testing.T) {
	var gotAuth string
	up := swapUpstreams()
	up.cavos = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v1/external/wallet/balance" {
			_ = json.NewEncoder(w).Encode(map[string]any{"balance": "1"})
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"result": "0xfeed", "accessToken": "token-2"})
	}
	server, svcCtx := newTestServer(t, up)

	sessionId := svcCtx.Sessions.Put(session.Session{
		WalletAddress: "0x0123456789abcdef",
		AccessToken:   "token-1",
		AuthMethod:    session.AuthMethodCavos,
	})

	statusCode, body := postJSON(t, server.URL+"/api/swap", sessionId, map[string]any{
		"amount":           "1",
		"sellTokenAddress": testStrkCA,
		"buyTokenAddress":  testMemeCA,
	})
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, true, body["success"])
	require.Equal(t, "0xfeed", body["result"])
	require.Equal(t, "Bearer token-1", gotAuth)

	sess, ok := svcCtx.Sessions.Get(sessionId)
	require.True(t, ok)
	require.Equal(t, "token-2", sess.AccessToken)
}

func TestSwapDrivesSessionEngine(t *testing.T) {
	server, svcCtx := newTestServer(t, swapUpstreams())

	sessionId := svcCtx.Sessions.Put(session.Session{
		WalletAddress: "0x0123456789abcdef",
		AccessToken:   "token-1",
		AuthMethod:    session.AuthMethodCavos,
	})

	statusCode, _ := postJSON(t, server.URL+"/api/swap", sessionId, map[string]any{
		"amount":           "1",
		"sellTokenAddress": testStrkCA,
		"buyTokenAddress":  testMemeCA,
	})
	require.Equal(t, http.StatusOK, statusCode)

	// 交易由会话引擎驱动: 结算后引擎进入Settled并清空金额输入
	engine, ok := svcCtx.SwapEngines.Get(sessionId)
	require.True(t, ok)
	require.Equal(t, swap.StateSettled, engine.State())
	require.Empty(t, engine.Input().Amount)
	require.Equal(t, "0xfeed", engine.TxHash())
}

func TestSwapInvalidAmount(t *testing.T) {
	server, svcCtx := newTestServer(t, swapUpstreams())

	sessionId := svcCtx.Sessions.Put(session.Session{
		WalletAddress: "0x0123456789abcdef",
		AccessToken:   "token-1",
		AuthMethod:    session.AuthMethodCavos,
	})

	for _, amount := range []string{"", "0", "-1", "abc"} {
		statusCode, body := postJSON(t, server.URL+"/api/swap", sessionId, map[string]any{
			"amount":           amount,
			"sellTokenAddress": testStrkCA,
			"buyTokenAddress":  testMemeCA,
		})
		require.Equal(t, http.StatusBadRequest, statusCode, amount)
		require.Equal(t, "Amount must be greater than 0", body["error"], amount)
	}
}

func TestSwapQuoteUpstreamFailure(t *testing.T) {
	up := swapUpstreams()
	up.avnu = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "aggregator down"})
	}
	server, svcCtx := newTestServer(t, up)

	sessionId := svcCtx.Sessions.Put(session.Session{
		WalletAddress: "0x0123456789abcdef",
		AccessToken:   "token-1",
		AuthMethod:    session.AuthMethodCavos,
	})

	statusCode, body := postJSON(t, server.URL+"/api/swap", sessionId, map[string]any{
		"amount":           "1",
		"sellTokenAddress": testStrkCA,
		"buyTokenAddress":  testMemeCA,
	})
	require.Equal(t, http.StatusBadGateway, statusCode)
	require.Equal(t, "Swap provider error", body["error"])
}

func TestSwapValidationError(t *testing.T) {
	server, svcCtx := newTestServer(t, swapUpstreams())

	sessionId := svcCtx.Sessions.Put(session.Session{
		WalletAddress: "0x0123456789abcdef",
		AccessToken:   "token-1",
		AuthMethod:    session.AuthMethodCavos,
	})

	statusCode, body := postJSON(t, server.URL+"/api/swap", sessionId, map[string]any{
		"amount":           "1",
		"sellTokenAddress": testStrkCA,
		"buyTokenAddress":  testStrkCA,
	})
	require.Equal(t, http.StatusBadRequest, statusCode)
	require.Equal(t, "Cannot swap the same token", body["error"])
}

func TestSignInCreatesSession(t *testing.T) {
	server, svcCtx := newTestServer(t, upstreams{
		cavos: func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/external/auth/login", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"email":    "user@example.com",
					"authData": map[string]any{"accessToken": "token-1"},
					"wallet":   map[string]any{"address": "0x0123456789abcdef", "network": "mainnet"},
				},
			})
		},
	})

	statusCode, body := postJSON(t, server.URL+"/api/auth/signIn", "", map[string]any{
		"email":    "user@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, true, body["success"])
	require.Equal(t, "0x0123456789abcdef", body["wallet_address"])

	sessionId := body["session_id"].(string)
	sess, ok := svcCtx.Sessions.Get(sessionId)
	require.True(t, ok)
	// 访问令牌只在服务端流转, 响应体中不包含令牌
	require.Equal(t, "token-1", sess.AccessToken)
	require.NotContains(t, body, "access_token")

	// 登录即建引擎, 登出即毁
	_, ok = svcCtx.SwapEngines.Get(sessionId)
	require.True(t, ok)

	statusCode, _ = postJSON(t, server.URL+"/api/auth/signOut", sessionId, nil)
	require.Equal(t, http.StatusOK, statusCode)
	_, ok = svcCtx.Sessions.Get(sessionId)
	require.False(t, ok)
	_, ok = svcCtx.SwapEngines.Get(sessionId)
	require.False(t, ok)
}

func TestSignInUpstreamRejection(t *testing.T) {
	server, _ := newTestServer(t, upstreams{
		cavos: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "invalid credentials"})
		},
	})

	statusCode, body := postJSON(t, server.URL+"/api/auth/signIn", "", map[string]any{
		"email":    "user@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, statusCode)
	require.Equal(t, "invalid credentials", body["error"])
}

func TestTokenLifecycle(t *testing.T) {
	server, _ := newTestServer(t, upstreams{})

	statusCode, body := postJSON(t, server.URL+"/api/tokens", "", map[string]any{
		"name":         "Meme Coin",
		"symbol":       "MEME",
		"deployTxHash": "0xdeploy",
		"creator":      "0x0123456789abcdef",
	})
	require.Equal(t, http.StatusOK, statusCode)
	guid := body["guid"].(string)
	require.NotEmpty(t, guid)

	statusCode, body = getJSON(t, server.URL+"/api/tokens/"+guid)
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, "MEME", body["symbol"])
	require.Equal(t, "pending", body["status"])

	statusCode, body = getJSON(t, server.URL+"/api/tokens?limit=10")
	require.Equal(t, http.StatusOK, statusCode)
	require.Len(t, body["tokens"], 1)

	statusCode, _ = getJSON(t, server.URL+"/api/tokens/missing")
	require.Equal(t, http.StatusNotFound, statusCode)
}

func TestCORSPreflight(t *testing.T) {
	server, _ := newTestServer(t, upstreams{})

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/quotes", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, OPTIONS", res.Header.Get("Access-Control-Allow-Methods"))
}
