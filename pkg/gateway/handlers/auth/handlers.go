// Package auth provides HTTP handlers for wallet-based authentication.
// Clients request a nonce challenge, sign it with their wallet, and exchange
// the signature for a bearer token.
package auth

import (
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/cache"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

// Handlers holds dependencies for authentication HTTP handlers
type Handlers struct {
	logger *logging.ColoredLogger
	svc    *auth.Service
	tokens *auth.TokenIssuer
	cache  *cache.Users
}

// New creates a new authentication handlers instance. userCache may be nil.
func New(logger *logging.ColoredLogger, svc *auth.Service, tokens *auth.TokenIssuer, userCache *cache.Users) *Handlers {
	return &Handlers{
		logger: logger,
		svc:    svc,
		tokens: tokens,
		cache:  userCache,
	}
}
