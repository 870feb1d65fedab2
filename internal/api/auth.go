package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fachebot/starknet-launchpad/internal/custodial/cavos"
	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/session"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (server *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	server.handleAuth(w, r, server.svcCtx.CavosClient.SignIn)
}

func (server *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	server.handleAuth(w, r, server.svcCtx.CavosClient.SignUp)
}

func (server *Server) handleAuth(
	w http.ResponseWriter,
	r *http.Request,
	authFn func(ctx context.Context, email, password string) (*cavos.AuthResponse, error),
) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	response, err := authFn(r.Context(), req.Email, req.Password)
	if err != nil {
		var errRes *cavos.ErrorResponse
		if errors.As(err, &errRes) {
			writeError(w, http.StatusUnauthorized, errRes.Message)
			return
		}

		logger.Errorf("[ApiServer] 托管账户认证失败, email: %s, %v", req.Email, err)
		writeError(w, http.StatusBadGateway, "Authentication service unavailable")
		return
	}

	// 访问令牌只在服务端流转, 客户端拿到的是会话ID
	sessionId := server.svcCtx.Sessions.Put(session.Session{
		Email:         req.Email,
		WalletAddress: response.WalletAddress(),
		AccessToken:   response.AccessToken(),
		AuthMethod:    session.AuthMethodCavos,
	})

	// 登录即为会话建立编排引擎并绑定托管路径
	server.svcCtx.SwapEngines.AttachCustodial(sessionId, response.WalletAddress())

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"session_id":     sessionId,
		"wallet_address": response.WalletAddress(),
	})
}

func (server *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	sessionId := bearerToken(r)
	if sessionId != "" {
		server.svcCtx.SwapEngines.Detach(sessionId)
		server.svcCtx.Sessions.Delete(sessionId)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
