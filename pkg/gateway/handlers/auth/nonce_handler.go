package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// NonceHandler issues a fresh nonce challenge for a wallet address. This is
// the first step of the login flow: the client signs the returned message and
// submits the signature to LoginHandler. Unknown wallets are registered here
// with the default role.
//
// POST /v1/auth/nonce
// Request body: NonceRequest
// Response: { "walletAddress", "nonce", "message" }
func (h *Handlers) NonceHandler(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusServiceUnavailable, "auth service not initialized")
		return
	}

	var req NonceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		writeError(w, http.StatusBadRequest, "walletAddress is required")
		return
	}

	nonce, message, err := h.svc.IssueNonce(r.Context(), req.WalletAddress)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue nonce")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"walletAddress": req.WalletAddress,
		"nonce":         nonce,
		"message":       message,
	})
}
