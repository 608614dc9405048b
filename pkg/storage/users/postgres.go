// Package users persists the user/nonce identity records.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/storage"
)

const userColumns = `id, wallet_address, nonce, provider, role, username, email, created_at, last_login_at`

// Repository implements auth.UserStore on a relational database.
type Repository struct {
	db storage.DBTX
}

func NewRepository(db storage.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByWallet(ctx context.Context, wallet string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, wallet))
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) CreateWalletUser(ctx context.Context, u *auth.User) error {
	query := `INSERT INTO users (wallet_address, nonce, provider, role, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		u.WalletAddress, u.Nonce, string(u.Provider), string(u.Role), u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *Repository) SetNonce(ctx context.Context, wallet, nonce string) error {
	query := `UPDATE users SET nonce = $2 WHERE wallet_address = $1`

	res, err := r.db.ExecContext(ctx, query, wallet, nonce)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// ConsumeNonce is the conditional update that makes nonce consumption atomic:
// the row is only touched while it still holds oldNonce, so of two concurrent
// logins against the same challenge exactly one can win.
func (r *Repository) ConsumeNonce(ctx context.Context, wallet, oldNonce, newNonce string, loginAt time.Time) error {
	query := `UPDATE users SET nonce = $3, last_login_at = $4
	          WHERE wallet_address = $1 AND nonce = $2`

	res, err := r.db.ExecContext(ctx, query, wallet, oldNonce, newNonce, loginAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return auth.ErrNonceMismatch
	}
	return nil
}

// List returns user records ordered by id for the admin listing.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []auth.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*auth.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUserRow(row rowScanner) (*auth.User, error) {
	var (
		u        auth.User
		wallet   sql.NullString
		nonce    sql.NullString
		provider string
		role     string
		username sql.NullString
		email    sql.NullString
		lastAt   sql.NullTime
	)
	err := row.Scan(&u.ID, &wallet, &nonce, &provider, &role, &username, &email, &u.CreatedAt, &lastAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.WalletAddress = wallet.String
	u.Nonce = nonce.String
	u.Provider = auth.Provider(provider)
	u.Role = auth.Role(role)
	u.Username = username.String
	u.Email = email.String
	if lastAt.Valid {
		t := lastAt.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}
