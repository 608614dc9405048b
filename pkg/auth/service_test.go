package auth

import (
	"context"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

// memStore is an in-memory UserStore with the same conditional-update
// semantics the SQL repository provides.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*User // keyed by wallet address
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*User)}
}

func (m *memStore) GetByWallet(_ context.Context, wallet string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[wallet]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) CreateWalletUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.WalletAddress] = &cp
	return nil
}

func (m *memStore) SetNonce(_ context.Context, wallet, nonce string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[wallet]
	if !ok {
		return ErrUserNotFound
	}
	u.Nonce = nonce
	return nil
}

func (m *memStore) ConsumeNonce(_ context.Context, wallet, oldNonce, newNonce string, loginAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[wallet]
	if !ok || u.Nonce != oldNonce {
		return ErrNonceMismatch
	}
	u.Nonce = newNonce
	u.LastLoginAt = &loginAt
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	logger, err := logging.NewColoredLogger(logging.ComponentAuth, false)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	store := newMemStore()
	return NewService(logger, store), store
}

func TestIssueNonce_Unique(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	addr := "0x1234567890AbCdEf1234567890aBcDeF12345678"

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		nonce, message, err := svc.IssueNonce(ctx, addr)
		if err != nil {
			t.Fatalf("IssueNonce failed on call %d: %v", i, err)
		}
		if seen[nonce] {
			t.Fatalf("nonce %q issued twice", nonce)
		}
		seen[nonce] = true
		if message != ChallengeMessage(nonce) {
			t.Fatalf("message does not embed nonce: %q", message)
		}
	}

	// all calls bind to a single lower-cased record
	if len(store.users) != 1 {
		t.Fatalf("expected 1 user record, got %d", len(store.users))
	}
	if _, ok := store.users[NormalizeAddress(addr)]; !ok {
		t.Fatal("record not keyed by normalized address")
	}
}

func TestVerifyLogin_UnknownAddress(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.VerifyLogin(context.Background(), "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef", "00", "msg")
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(store.users) != 0 {
		t.Fatal("login attempt for unknown address must not create a record")
	}
}

func TestVerifyLogin_FullFlowAndReplay(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	key, addr := newTestKey(t)

	nonce, message, err := svc.IssueNonce(ctx, addr)
	if err != nil {
		t.Fatalf("IssueNonce failed: %v", err)
	}
	sig := hex.EncodeToString(signPersonal(t, key, message))

	user, err := svc.VerifyLogin(ctx, addr, sig, message)
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if user.WalletAddress != addr {
		t.Errorf("expected wallet %s, got %s", addr, user.WalletAddress)
	}
	if user.Role != RoleUser {
		t.Errorf("expected default role USER, got %s", user.Role)
	}
	if user.LastLoginAt == nil {
		t.Error("lastLoginAt not set on login")
	}
	if user.Nonce == nonce {
		t.Error("nonce not rotated after successful login")
	}

	// exact replay must observe the rotated nonce
	if _, err := svc.VerifyLogin(ctx, addr, sig, message); err != ErrNonceMismatch {
		t.Fatalf("replay: expected ErrNonceMismatch, got %v", err)
	}

	stored := store.users[addr]
	if stored.Nonce == nonce {
		t.Error("store still holds the consumed nonce")
	}
}

func TestVerifyLogin_RejectionLeavesNonce(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	key, addr := newTestKey(t)

	nonce, message, err := svc.IssueNonce(ctx, addr)
	if err != nil {
		t.Fatalf("IssueNonce failed: %v", err)
	}

	// message not embedding the live nonce
	wrongMsg := ChallengeMessage("0000000000000000000000000000000000000000000000000000000000000000")
	sigWrong := hex.EncodeToString(signPersonal(t, key, wrongMsg))
	if _, err := svc.VerifyLogin(ctx, addr, sigWrong, wrongMsg); err != ErrNonceMismatch {
		t.Fatalf("expected ErrNonceMismatch, got %v", err)
	}

	// signature by a different key over the correct message
	otherKey, _ := newTestKey(t)
	sigOther := hex.EncodeToString(signPersonal(t, otherKey, message))
	if _, err := svc.VerifyLogin(ctx, addr, sigOther, message); err != ErrSignatureInvalid {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	// truncated signature
	if _, err := svc.VerifyLogin(ctx, addr, "abcd", message); err != ErrMalformedSignature {
		t.Fatalf("expected ErrMalformedSignature, got %v", err)
	}

	// every rejection above leaves the challenge usable
	if store.users[addr].Nonce != nonce {
		t.Fatal("nonce changed by a rejected attempt")
	}
	sig := hex.EncodeToString(signPersonal(t, key, message))
	if _, err := svc.VerifyLogin(ctx, addr, sig, message); err != nil {
		t.Fatalf("retry after rejection failed: %v", err)
	}
}

func TestAuthenticate_ProviderDispatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	key, addr := newTestKey(t)

	_, message, err := svc.IssueNonce(ctx, addr)
	if err != nil {
		t.Fatalf("IssueNonce failed: %v", err)
	}
	sig := hex.EncodeToString(signPersonal(t, key, message))

	if _, err := svc.Authenticate(ctx, ProviderGoogle, addr, sig, message); err != ErrProviderUnsupported {
		t.Fatalf("expected ErrProviderUnsupported, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "", addr, sig, message); err != nil {
		t.Fatalf("empty provider should default to wallet, got %v", err)
	}
}
