package auth

import "errors"

// Authentication failure taxonomy. Handlers map these to client-facing
// responses without echoing internal detail.
var (
	// ErrUserNotFound means the wallet address never requested a nonce.
	ErrUserNotFound = errors.New("user not found")

	// ErrNonceMismatch means the stored nonce is absent, not embedded in the
	// submitted message, or was already consumed by a concurrent login.
	ErrNonceMismatch = errors.New("nonce mismatch")

	// ErrMalformedSignature means the signature is not valid hex or does not
	// decode to exactly 65 bytes.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrSignatureInvalid means the signature is well-formed but no recovery
	// candidate produced the claimed address.
	ErrSignatureInvalid = errors.New("invalid signature")

	// ErrTokenInvalid covers every bearer-token failure: parse errors, MAC
	// mismatch, and expiry. Callers treat it as absence of identity.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrProviderUnsupported is returned when a login request selects an auth
	// provider this deployment does not serve.
	ErrProviderUnsupported = errors.New("unsupported auth provider")
)
