package auth

import (
	"net/http"
	"strconv"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/gateway/ctxkeys"
)

// WhoamiHandler reports the identity attached to the request, if any. It never
// rejects: anonymous callers get authenticated=false.
//
// GET /v1/auth/whoami
// Response: { "authenticated", "userId", "wallet", "role" }
func (h *Handlers) WhoamiHandler(w http.ResponseWriter, r *http.Request) {
	ident, ok := ctxkeys.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"userId":        strconv.FormatInt(ident.UserID, 10),
		"wallet":        ident.Wallet,
		"role":          string(ident.Role),
	})
}
