package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createTokenRequest struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Description  string `json:"description"`
	ImageUrl     string `json:"imageUrl"`
	Creator      string `json:"creator"`
	DeployTxHash string `json:"deployTxHash"`
}

// handleCreateToken 登记发射中的代币, 后台任务负责确认上链
func (server *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var req createTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Symbol == "" || req.DeployTxHash == "" {
		writeError(w, http.StatusBadRequest, "name, symbol and deployTxHash are required")
		return
	}

	token, err := server.svcCtx.TokenModel.Save(r.Context(), model.Token{
		GUID:         uuid.NewString(),
		Name:         req.Name,
		Symbol:       req.Symbol,
		Decimals:     18,
		Description:  req.Description,
		ImageUrl:     req.ImageUrl,
		Creator:      req.Creator,
		DeployTxHash: req.DeployTxHash,
		Status:       model.TokenStatusPending,
	})
	if err != nil {
		logger.Errorf("[ApiServer] 保存代币记录失败, symbol: %s, hash: %s, %v", req.Symbol, req.DeployTxHash, err)
		writeError(w, http.StatusInternalServerError, "Failed to save token")
		return
	}

	logger.Infof("[ApiServer] 新代币发射登记, symbol: %s, hash: %s", token.Symbol, token.DeployTxHash)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "guid": token.GUID})
}

func (server *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	tokens, err := server.svcCtx.TokenModel.FindAll(r.Context(), offset, limit)
	if err != nil {
		logger.Errorf("[ApiServer] 获取代币列表失败, %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list tokens")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokenViews(tokens)})
}

func (server *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	guid := chi.URLParam(r, "guid")

	token, err := server.svcCtx.TokenModel.FindByGUID(r.Context(), guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Token not found")
			return
		}
		logger.Errorf("[ApiServer] 获取代币记录失败, guid: %s, %v", guid, err)
		writeError(w, http.StatusInternalServerError, "Failed to get token")
		return
	}

	writeJSON(w, http.StatusOK, tokenView(token))
}

func tokenView(token *model.Token) map[string]any {
	return map[string]any{
		"guid":            token.GUID,
		"name":            token.Name,
		"symbol":          token.Symbol,
		"decimals":        token.Decimals,
		"description":     token.Description,
		"imageUrl":        token.ImageUrl,
		"creator":         token.Creator,
		"contractAddress": token.ContractAddress,
		"deployTxHash":    token.DeployTxHash,
		"status":          token.Status,
		"failReason":      token.FailReason,
		"createdAt":       token.CreatedAt,
	}
}

func tokenViews(tokens []*model.Token) []map[string]any {
	views := make([]map[string]any, 0, len(tokens))
	for _, item := range tokens {
		views = append(views, tokenView(item))
	}
	return views
}
