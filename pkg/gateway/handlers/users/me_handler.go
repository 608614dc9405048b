package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/gateway/ctxkeys"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

// profileResponse is the JSON shape for a single user record
type profileResponse struct {
	ID            int64  `json:"id"`
	WalletAddress string `json:"walletAddress"`
	Provider      string `json:"provider"`
	Role          string `json:"role"`
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	LastLoginAt   string `json:"lastLoginAt,omitempty"`
}

func toProfile(u *auth.User) profileResponse {
	p := profileResponse{
		ID:            u.ID,
		WalletAddress: u.WalletAddress,
		Provider:      string(u.Provider),
		Role:          string(u.Role),
		Username:      u.Username,
		Email:         u.Email,
	}
	if !u.CreatedAt.IsZero() {
		p.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	if u.LastLoginAt != nil {
		p.LastLoginAt = u.LastLoginAt.UTC().Format(time.RFC3339)
	}
	return p
}

// MeHandler returns the profile of the authenticated caller. Reads go through
// the cache when one is configured; a cache failure falls back to the store.
//
// GET /v1/users/me
func (h *Handlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := ctxkeys.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx := r.Context()
	if cached, err := h.cache.Get(ctx, ident.UserID); err == nil && cached != nil {
		writeJSON(w, http.StatusOK, toProfile(cached))
		return
	} else if err != nil {
		h.logger.ComponentWarn(logging.ComponentCache, "user cache read failed", zap.Error(err))
	}

	u, err := h.dir.GetByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.ComponentError(logging.ComponentGateway, "user lookup failed",
			zap.Int64("user_id", ident.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "user lookup failed")
		return
	}

	if err := h.cache.Set(ctx, u); err != nil {
		h.logger.ComponentWarn(logging.ComponentCache, "user cache write failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, toProfile(u))
}

// writeJSON writes JSON with status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a standardized JSON error
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
