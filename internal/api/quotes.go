package api

import (
	"errors"
	"net/http"

	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/swap"
)

func (server *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sellTokenAddress := query.Get("sellTokenAddress")
	buyTokenAddress := query.Get("buyTokenAddress")
	sellAmount := query.Get("sellAmount")
	if sellTokenAddress == "" || buyTokenAddress == "" || sellAmount == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters: sellTokenAddress, buyTokenAddress, sellAmount")
		return
	}

	quotes, err := server.svcCtx.QuoteService.FetchQuotes(r.Context(), sellTokenAddress, buyTokenAddress, sellAmount)
	if err != nil {
		if errors.Is(err, swap.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, "sellAmount must be a positive number")
			return
		}

		logger.Errorf("[ApiServer] 获取报价失败, sellToken: %s, buyToken: %s, amount: %s, %v",
			sellTokenAddress, buyTokenAddress, sellAmount, err)

		details := err.Error()
		var upstreamErr *swap.UpstreamError
		if errors.As(err, &upstreamErr) {
			details = upstreamErr.Message
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "Swap provider error",
			"details": details,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"quotes": quotes,
		"prices": []any{},
	})
}
