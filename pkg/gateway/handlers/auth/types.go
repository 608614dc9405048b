package auth

import (
	"encoding/json"
	"net/http"
)

// NonceRequest is the request body for nonce issuance
type NonceRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// LoginRequest is the request body for signature login
type LoginRequest struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
	Provider      string `json:"provider"`
}

// UserResponse is the user payload embedded in login responses
type UserResponse struct {
	ID            int64  `json:"id"`
	WalletAddress string `json:"walletAddress"`
	Role          string `json:"role"`
	LastLoginAt   string `json:"lastLoginAt,omitempty"`
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
