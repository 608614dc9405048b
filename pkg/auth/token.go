package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is used when no lifetime is configured.
const DefaultTokenLifetime = 24 * time.Hour

const tokenIssuer = "store-gateway"

// Identity is the decoded claim set attached to authenticated requests.
type Identity struct {
	UserID int64
	Role   Role
	Wallet string
}

// Claims is the JWT payload. Subject carries the numeric user id in decimal.
type Claims struct {
	jwt.RegisteredClaims
	Role   Role   `json:"role"`
	Wallet string `json:"wallet,omitempty"`
}

// TokenIssuer mints and validates HS256 bearer tokens with a server-held
// secret. Tokens are not persisted and cannot be revoked before expiry short
// of rotating the secret.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
}

func NewTokenIssuer(secret []byte, lifetime time.Duration) *TokenIssuer {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenIssuer{secret: secret, lifetime: lifetime}
}

// Issue signs a token for the user and returns it with its lifetime in seconds.
func (t *TokenIssuer) Issue(user *User) (string, int64, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
		},
		Role:   user.Role,
		Wallet: user.WalletAddress,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", 0, err
	}
	return token, int64(t.lifetime.Seconds()), nil
}

// Validate reports whether the token parses, carries a valid MAC, and has not
// expired. It fails closed on every error and never panics.
func (t *TokenIssuer) Validate(token string) bool {
	_, err := t.parse(token)
	return err == nil
}

// Decode extracts the identity claims. Only meaningful when Validate holds;
// it performs the same checks and returns ErrTokenInvalid on any failure.
func (t *TokenIssuer) Decode(token string) (*Identity, error) {
	claims, err := t.parse(token)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return &Identity{UserID: userID, Role: claims.Role, Wallet: claims.Wallet}, nil
}

func (t *TokenIssuer) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(tk *jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
