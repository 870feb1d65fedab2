package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/session"
	"github.com/fachebot/starknet-launchpad/internal/swap"

	"github.com/shopspring/decimal"
)

type swapRequest struct {
	Amount           string `json:"amount"`
	SellTokenAddress string `json:"sellTokenAddress"`
	BuyTokenAddress  string `json:"buyTokenAddress"`
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func (server *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	sessionId := bearerToken(r)
	if sessionId == "" {
		writeError(w, http.StatusUnauthorized, "Missing session token")
		return
	}

	sess, ok := server.svcCtx.Sessions.Get(sessionId)
	if !ok || sess.AuthMethod != session.AuthMethodCavos {
		writeError(w, http.StatusUnauthorized, "Session expired, please sign in again")
		return
	}

	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 交易经由会话引擎驱动: 先报价进入Ready, 再按路径优先级执行
	engine := server.svcCtx.SwapEngines.AttachCustodial(sessionId, sess.WalletAddress)
	engine.SetInput(swap.Input{
		Amount:           req.Amount,
		SellTokenAddress: req.SellTokenAddress,
		BuyTokenAddress:  req.BuyTokenAddress,
	})

	if err := engine.WaitQuote(r.Context()); err != nil {
		if errors.Is(err, swap.ErrNotReady) || errors.Is(err, swap.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, "Amount must be greater than 0")
			return
		}
		if errors.Is(err, swap.ErrNoQuotesAvailable) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		logger.Errorf("[ApiServer] 获取报价失败, account: %s, sellToken: %s, buyToken: %s, %v",
			sess.WalletAddress, req.SellTokenAddress, req.BuyTokenAddress, err)

		var upstreamErr *swap.UpstreamError
		if errors.As(err, &upstreamErr) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   "Swap provider error",
				"details": upstreamErr.Message,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Swap execution failed")
		return
	}

	result, err := engine.Execute(r.Context())
	if err != nil {
		var validationErr *swap.ValidationError
		if errors.As(err, &validationErr) || errors.Is(err, swap.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		logger.Errorf("[ApiServer] 托管交易执行失败, account: %s, sellToken: %s, buyToken: %s, %v",
			sess.WalletAddress, req.SellTokenAddress, req.BuyTokenAddress, err)

		var upstreamErr *swap.UpstreamError
		if errors.As(err, &upstreamErr) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   "Swap provider error",
				"details": upstreamErr.Message,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Swap execution failed")
		return
	}

	logger.Infof("[ApiServer] 托管交易已提交, account: %s, hash: %s", sess.WalletAddress, result.TxHash)
	go server.notifySwapSettled(sess, req, result.TxHash)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result.TxHash,
	})
}

// notifySwapSettled 推送结算通知, 代币符号从元数据缓存取, 取不到就忽略
func (server *Server) notifySwapSettled(sess session.Session, req swapRequest, txHash string) {
	if server.svcCtx.Notifier == nil {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return
	}

	symbol := server.svcCtx.Config.Chain.StrkSymbol
	if !strings.EqualFold(req.SellTokenAddress, server.svcCtx.Config.Chain.StrkCA) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		meta, err := server.svcCtx.TokenMetaCache.GetTokenMeta(ctx, req.SellTokenAddress)
		if err != nil {
			logger.Debugf("[ApiServer] 获取代币元数据失败, contract: %s, %v", req.SellTokenAddress, err)
			return
		}
		symbol = meta.Symbol
	}

	server.svcCtx.Notifier.NotifySwapSettled(sess.WalletAddress, amount, symbol, txHash)
}
