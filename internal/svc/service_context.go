package svc

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/cache"
	"github.com/fachebot/starknet-launchpad/internal/config"
	"github.com/fachebot/starknet-launchpad/internal/custodial/cavos"
	"github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"
	"github.com/fachebot/starknet-launchpad/internal/explorer/voyager"
	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/model"
	"github.com/fachebot/starknet-launchpad/internal/notify"
	"github.com/fachebot/starknet-launchpad/internal/session"
	"github.com/fachebot/starknet-launchpad/internal/swap"

	"github.com/glebarez/sqlite"
	"golang.org/x/net/proxy"
	"gorm.io/gorm"
)

type ServiceContext struct {
	Config         *config.Config
	DbClient       *gorm.DB
	TransportProxy *http.Transport
	AvnuClient     *avnu.Client
	CavosClient    *cavos.Client
	VoyagerClient  *voyager.Client
	QuoteService   *swap.QuoteService
	SwapEngines    *swap.EngineManager
	Sessions       *session.Store
	Notifier       *notify.Notifier
	TokenMetaCache *cache.TokenMetaCache
	TokenModel     *model.TokenModel
}

func NewServiceContext(c *config.Config) *ServiceContext {
	// 创建数据库连接
	db, err := gorm.Open(sqlite.Open("file:data/sqlite.db?mode=rwc&_journal_mode=WAL"), &gorm.Config{})
	if err != nil {
		logger.Fatalf("打开数据库失败, %v", err)
	}
	if err = db.AutoMigrate(&model.Token{}); err != nil {
		logger.Fatalf("创建数据库Schema失败, %v", err)
	}

	// 创建SOCKS5代理
	var transportProxy *http.Transport
	if c.Sock5Proxy.Enable {
		socks5Proxy := fmt.Sprintf("%s:%d", c.Sock5Proxy.Host, c.Sock5Proxy.Port)
		dialer, err := proxy.SOCKS5("tcp", socks5Proxy, nil, proxy.Direct)
		if err != nil {
			logger.Fatalf("创建SOCKS5代理失败, %v", err)
		}

		transportProxy = &http.Transport{
			Dial:            dialer.Dial,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	// 创建上游客户端
	avnuClient := avnu.NewClient(c.Avnu.BaseUrl, transportProxy)
	cavosClient := cavos.NewClient(c.Cavos.BaseUrl, c.Cavos.OrgId, c.Cavos.OrgSecret, c.Chain.Network, transportProxy)
	voyagerClient := voyager.NewClient(c.Voyager.BaseUrl, transportProxy)

	// 创建电报通知器
	notifier, err := notify.NewNotifier(c.TelegramBot, c.Chain.Network, transportProxy)
	if err != nil {
		logger.Fatalf("创建电报通知器失败, %v", err)
	}

	tokenModel := model.NewTokenModel(db)
	sessionTTL := time.Duration(c.SwapSettings.SessionTTLMinutes) * time.Minute
	sessions := session.NewStore(sessionTTL)
	quoteService := swap.NewQuoteService(avnuClient)

	// 每个会话一个编排引擎, 防抖窗口与滑点参数取自配置
	swapEngines := swap.NewEngineManager(swap.EngineManagerConfig{
		Fetcher:     quoteService,
		Balances:    cavosClient,
		AvnuClient:  avnuClient,
		CavosClient: cavosClient,
		Sessions:    sessions,
		StrkCA:      c.Chain.StrkCA,
		SlippageBps: c.Chain.SlippageBps,
		Debounce:    time.Duration(c.SwapSettings.QuoteDebounceMs) * time.Millisecond,
	})

	svcCtx := &ServiceContext{
		Config:         c,
		DbClient:       db,
		TransportProxy: transportProxy,
		AvnuClient:     avnuClient,
		CavosClient:    cavosClient,
		VoyagerClient:  voyagerClient,
		QuoteService:   quoteService,
		SwapEngines:    swapEngines,
		Sessions:       sessions,
		Notifier:       notifier,
		TokenMetaCache: cache.NewTokenMetaCache(tokenModel),
		TokenModel:     tokenModel,
	}

	return svcCtx
}

func (svcCtx *ServiceContext) Close() {
	svcCtx.SwapEngines.Close()

	db, err := svcCtx.DbClient.DB()
	if err != nil {
		logger.Errorf("获取数据库连接失败, %v", err)
		return
	}
	if err = db.Close(); err != nil {
		logger.Errorf("关闭数据库失败, %v", err)
	}
}
