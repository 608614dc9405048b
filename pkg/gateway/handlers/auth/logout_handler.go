package auth

import "net/http"

// LogoutHandler acknowledges a logout. Bearer tokens are stateless and expire
// on their own; the client discards its copy and the server has nothing to
// revoke.
//
// POST /v1/auth/logout
// Response: { "ok": true }
func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
