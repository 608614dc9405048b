package auth

import (
	"context"
	"strings"
	"time"
)

// Role is the authorization level carried by a user record and its tokens.
type Role string

const (
	RoleUser      Role = "USER"
	RoleDeveloper Role = "DEVELOPER"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDeveloper, RoleAdmin:
		return true
	default:
		return false
	}
}

// rank orders roles for AtLeast checks. Unknown roles rank below USER.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleDeveloper:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants at least the privileges of required.
func (r Role) AtLeast(required Role) bool {
	return r.rank() >= required.rank()
}

// Provider selects the verification strategy for a login request. The choice
// is made once per request; records keep the provider they were created with.
type Provider string

const (
	ProviderWallet Provider = "WALLET"
	ProviderGoogle Provider = "GOOGLE"
)

// User is the persisted identity record. WalletAddress is stored lower-cased
// and is unique when present. Nonce is the current single-use challenge; it is
// empty only before the first nonce request.
type User struct {
	ID            int64
	WalletAddress string
	Nonce         string
	Provider      Provider
	Role          Role
	Username      string
	Email         string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
}

// UserStore is the persistence surface the authentication core needs.
// Implementations must back ConsumeNonce with a storage-level conditional
// update so that two concurrent logins against the same nonce cannot both
// succeed.
type UserStore interface {
	// GetByWallet returns the record bound to the lower-cased address, or
	// ErrUserNotFound.
	GetByWallet(ctx context.Context, wallet string) (*User, error)

	// GetByID returns the record by primary key, or ErrUserNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)

	// CreateWalletUser inserts a new record and assigns u.ID.
	CreateWalletUser(ctx context.Context, u *User) error

	// SetNonce overwrites the stored nonce for an existing record.
	SetNonce(ctx context.Context, wallet, nonce string) error

	// ConsumeNonce atomically replaces oldNonce with newNonce and stamps the
	// login time. It returns ErrNonceMismatch when the stored nonce no longer
	// equals oldNonce.
	ConsumeNonce(ctx context.Context, wallet, oldNonce, newNonce string, loginAt time.Time) error
}

// NormalizeAddress lower-cases and trims a wallet address. All lookups and
// comparisons go through this so that mixed-case submissions bind to one record.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
