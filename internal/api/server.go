package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/svc"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server 对外HTTP服务, 提供报价代理、交易查询代理与托管交易接口
type Server struct {
	svcCtx     *svc.ServiceContext
	httpServer *http.Server
	stopChan   chan struct{}
}

func NewServer(svcCtx *svc.ServiceContext) *Server {
	server := &Server{svcCtx: svcCtx}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware)

	router.Get("/healthz", server.handleHealthz)
	router.Route("/api", func(r chi.Router) {
		r.Get("/quotes", server.handleQuotes)
		r.Get("/voyager/{txHash}", server.handleVoyagerTxn)
		r.Post("/swap", server.handleSwap)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signIn", server.handleSignIn)
			r.Post("/signUp", server.handleSignUp)
			r.Post("/signOut", server.handleSignOut)
		})
		r.Route("/tokens", func(r chi.Router) {
			r.Get("/", server.handleListTokens)
			r.Post("/", server.handleCreateToken)
			r.Get("/{guid}", server.handleGetToken)
		})
	})

	server.httpServer = &http.Server{
		Addr:    svcCtx.Config.Api.ListenAddr(),
		Handler: router,
	}

	return server
}

func (server *Server) Start() {
	if server.stopChan != nil {
		return
	}

	server.stopChan = make(chan struct{})
	logger.Infof("[ApiServer] 开始运行服务, addr: %s", server.httpServer.Addr)

	go func() {
		err := server.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("[ApiServer] 服务异常退出, %v", err)
		}
		server.stopChan <- struct{}{}
	}()
}

func (server *Server) Stop() {
	if server.stopChan == nil {
		return
	}

	logger.Infof("[ApiServer] 准备停止服务")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("[ApiServer] 关闭服务失败, %v", err)
	}

	<-server.stopChan
	close(server.stopChan)
	server.stopChan = nil

	logger.Infof("[ApiServer] 服务已经停止")
}

func (server *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
