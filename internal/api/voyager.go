package api

import (
	"errors"
	"net/http"

	"github.com/fachebot/starknet-launchpad/internal/explorer/voyager"
	"github.com/fachebot/starknet-launchpad/internal/logger"

	"github.com/go-chi/chi/v5"
)

func (server *Server) handleVoyagerTxn(w http.ResponseWriter, r *http.Request) {
	txHash := chi.URLParam(r, "txHash")
	if txHash == "" {
		writeError(w, http.StatusBadRequest, "Missing transaction hash")
		return
	}

	raw, err := server.svcCtx.VoyagerClient.RawTransaction(r.Context(), txHash)
	if err != nil {
		// 透传上游状态码
		var statusErr *voyager.StatusError
		if errors.As(err, &statusErr) {
			writeError(w, statusErr.Code, "Failed to fetch transaction")
			return
		}

		logger.Errorf("[ApiServer] 查询交易详情失败, hash: %s, %v", txHash, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transaction")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
