// Package users provides HTTP handlers for the user directory: the
// authenticated profile endpoint and the admin listing.
package users

import (
	"context"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/cache"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

// Directory is the minimal user lookup interface needed by these handlers
type Directory interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
	List(ctx context.Context, limit, offset int) ([]auth.User, error)
}

// Handlers holds dependencies for user directory HTTP handlers
type Handlers struct {
	logger *logging.ColoredLogger
	dir    Directory
	cache  *cache.Users
}

// New creates a new user handlers instance. cache may be nil.
func New(logger *logging.ColoredLogger, dir Directory, userCache *cache.Users) *Handlers {
	return &Handlers{
		logger: logger,
		dir:    dir,
		cache:  userCache,
	}
}
