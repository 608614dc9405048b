// Package auth implements the wallet authentication core: single-use nonce
// challenges, EIP-191 signature verification by public-key recovery, and
// signed bearer tokens. The HTTP surface lives in pkg/gateway; this package
// has no transport dependencies.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
	"go.uber.org/zap"
)

// Service drives the challenge/login flow against a UserStore.
type Service struct {
	logger *logging.ColoredLogger
	store  UserStore
}

func NewService(logger *logging.ColoredLogger, store UserStore) *Service {
	return &Service{logger: logger, store: store}
}

// IssueNonce binds a fresh challenge to the address and returns it together
// with the message the wallet should sign. A record is created on first
// contact; later calls overwrite the stored nonce, so a previously issued
// value can never verify again once this call returns.
func (s *Service) IssueNonce(ctx context.Context, address string) (string, string, error) {
	wallet := NormalizeAddress(address)
	if wallet == "" {
		return "", "", fmt.Errorf("wallet address is required")
	}

	nonce, err := NewNonce()
	if err != nil {
		return "", "", err
	}

	_, err = s.store.GetByWallet(ctx, wallet)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user := &User{
			WalletAddress: wallet,
			Nonce:         nonce,
			Provider:      ProviderWallet,
			Role:          RoleUser,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.store.CreateWalletUser(ctx, user); err != nil {
			return "", "", fmt.Errorf("failed to create user: %w", err)
		}
		s.logger.ComponentInfo(logging.ComponentAuth, "wallet user created",
			zap.String("wallet", wallet), zap.Int64("user_id", user.ID))
	case err != nil:
		return "", "", fmt.Errorf("failed to load user: %w", err)
	default:
		if err := s.store.SetNonce(ctx, wallet, nonce); err != nil {
			return "", "", fmt.Errorf("failed to store nonce: %w", err)
		}
	}

	return nonce, ChallengeMessage(nonce), nil
}

// Authenticate dispatches a login request to the verification strategy the
// request selected. An empty provider means wallet.
func (s *Service) Authenticate(ctx context.Context, provider Provider, address, signature, message string) (*User, error) {
	switch provider {
	case "", ProviderWallet:
		return s.VerifyLogin(ctx, address, signature, message)
	default:
		return nil, ErrProviderUnsupported
	}
}

// VerifyLogin checks a signed challenge and, on success, consumes the nonce.
//
// The checks run in order: record lookup, nonce embedding, signature
// recovery, then the atomic nonce rotation. A
// failed signature leaves the nonce untouched so the client may retry; a
// successful login replaces it, so replaying the same message and signature
// fails with ErrNonceMismatch.
func (s *Service) VerifyLogin(ctx context.Context, address, signature, message string) (*User, error) {
	wallet := NormalizeAddress(address)

	user, err := s.store.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	if user.Nonce == "" || !strings.Contains(message, user.Nonce) {
		return nil, ErrNonceMismatch
	}

	if err := VerifyPersonalSignature(wallet, message, signature); err != nil {
		s.logger.ComponentWarn(logging.ComponentAuth, "signature rejected",
			zap.String("wallet", wallet), zap.Error(err))
		return nil, err
	}

	next, err := NewNonce()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.store.ConsumeNonce(ctx, wallet, user.Nonce, next, now); err != nil {
		return nil, err
	}

	user.Nonce = next
	user.LastLoginAt = &now
	s.logger.ComponentInfo(logging.ComponentAuth, "wallet login",
		zap.String("wallet", wallet), zap.Int64("user_id", user.ID))
	return user, nil
}
