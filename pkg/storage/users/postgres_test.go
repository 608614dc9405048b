package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
)

// The repository speaks portable SQL ($n placeholders, RETURNING), so the
// tests run it against in-memory SQLite instead of a live PostgreSQL.
func setupRepo(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE users (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		wallet_address TEXT UNIQUE,
		nonce          TEXT,
		provider       TEXT NOT NULL DEFAULT 'WALLET',
		role           TEXT NOT NULL DEFAULT 'USER',
		username       TEXT,
		email          TEXT,
		created_at     TIMESTAMP NOT NULL,
		last_login_at  TIMESTAMP
	)`)
	require.NoError(t, err)

	return NewRepository(db), db
}

func newWalletUser(wallet, nonce string) *auth.User {
	return &auth.User{
		WalletAddress: wallet,
		Nonce:         nonce,
		Provider:      auth.ProviderWallet,
		Role:          auth.RoleUser,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestCreateAndGetByWallet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	u := newWalletUser("0xaaaa", "n1")
	require.NoError(t, repo.CreateWalletUser(ctx, u))
	assert.NotZero(t, u.ID, "create must assign an id")

	got, err := repo.GetByWallet(ctx, "0xaaaa")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "n1", got.Nonce)
	assert.Equal(t, auth.ProviderWallet, got.Provider)
	assert.Equal(t, auth.RoleUser, got.Role)
	assert.Nil(t, got.LastLoginAt)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "0xaaaa", byID.WalletAddress)

	_, err = repo.GetByWallet(ctx, "0xbbbb")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	_, err = repo.GetByID(ctx, u.ID+100)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestSetNonce(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	u := newWalletUser("0xaaaa", "n1")
	require.NoError(t, repo.CreateWalletUser(ctx, u))

	require.NoError(t, repo.SetNonce(ctx, "0xaaaa", "n2"))
	got, err := repo.GetByWallet(ctx, "0xaaaa")
	require.NoError(t, err)
	assert.Equal(t, "n2", got.Nonce)

	assert.ErrorIs(t, repo.SetNonce(ctx, "0xmissing", "n3"), auth.ErrUserNotFound)
}

func TestConsumeNonce_Conditional(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	u := newWalletUser("0xaaaa", "live")
	require.NoError(t, repo.CreateWalletUser(ctx, u))

	loginAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.ConsumeNonce(ctx, "0xaaaa", "live", "rotated", loginAt))

	got, err := repo.GetByWallet(ctx, "0xaaaa")
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.Nonce)
	require.NotNil(t, got.LastLoginAt)
	assert.False(t, got.LastLoginAt.Before(loginAt), "last_login_at must be stamped")

	// the old nonce is gone, replaying the consumption must fail
	err = repo.ConsumeNonce(ctx, "0xaaaa", "live", "again", time.Now().UTC())
	assert.ErrorIs(t, err, auth.ErrNonceMismatch)

	// and the failed attempt must not touch the row
	after, err := repo.GetByWallet(ctx, "0xaaaa")
	require.NoError(t, err)
	assert.Equal(t, "rotated", after.Nonce)
}

func TestConsumeNonce_UnknownWallet(t *testing.T) {
	repo, _ := setupRepo(t)
	err := repo.ConsumeNonce(context.Background(), "0xghost", "n", "n2", time.Now().UTC())
	assert.ErrorIs(t, err, auth.ErrNonceMismatch)
}

func TestUniqueWalletAddress(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateWalletUser(ctx, newWalletUser("0xaaaa", "n1")))
	err := repo.CreateWalletUser(ctx, newWalletUser("0xaaaa", "n2"))
	assert.Error(t, err, "duplicate wallet address must be rejected by the store")
}

func TestList(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateWalletUser(ctx, newWalletUser(fmt.Sprintf("0x%04d", i), "n")))
	}

	page, err := repo.List(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "0x0000", page[0].WalletAddress)

	rest, err := repo.List(ctx, 10, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "0x0004", rest[1].WalletAddress)
}
