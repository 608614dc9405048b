package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

// LoginHandler verifies a signed nonce challenge and returns a bearer token.
// Every verification failure maps to 401 with a stable message so callers can
// distinguish a stale nonce from a bad signature; an unsupported provider is a
// 400 since retrying cannot help.
//
// POST /v1/auth/login
// Request body: LoginRequest
// Response: { "token", "expiresIn", "user" }
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil || h.tokens == nil {
		writeError(w, http.StatusServiceUnavailable, "auth service not initialized")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.WalletAddress) == "" || strings.TrimSpace(req.Signature) == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "walletAddress, signature and message are required")
		return
	}

	user, err := h.svc.Authenticate(r.Context(), auth.Provider(req.Provider), req.WalletAddress, req.Signature, req.Message)
	if err != nil {
		h.writeAuthError(w, req.WalletAddress, err)
		return
	}

	// drop any cached copy so the rotated nonce and login time are not stale
	if err := h.cache.Invalidate(r.Context(), user.ID); err != nil {
		h.logger.ComponentWarn(logging.ComponentCache, "user cache invalidation failed", zap.Error(err))
	}

	token, expiresIn, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.ComponentError(logging.ComponentAuth, "token issuance failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	resp := UserResponse{
		ID:            user.ID,
		WalletAddress: user.WalletAddress,
		Role:          string(user.Role),
	}
	if user.LastLoginAt != nil {
		resp.LastLoginAt = user.LastLoginAt.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresIn": expiresIn,
		"user":      resp,
	})
}

// writeAuthError maps the verification error taxonomy onto HTTP statuses.
func (h *Handlers) writeAuthError(w http.ResponseWriter, wallet string, err error) {
	switch {
	case errors.Is(err, auth.ErrProviderUnsupported):
		writeError(w, http.StatusBadRequest, "provider not supported")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "user not found")
	case errors.Is(err, auth.ErrNonceMismatch):
		writeError(w, http.StatusUnauthorized, "nonce mismatch")
	case errors.Is(err, auth.ErrMalformedSignature):
		writeError(w, http.StatusUnauthorized, "malformed signature")
	case errors.Is(err, auth.ErrSignatureInvalid):
		writeError(w, http.StatusUnauthorized, "invalid signature")
	default:
		h.logger.ComponentError(logging.ComponentAuth, "login failed",
			zap.String("wallet", wallet), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
	}
}
