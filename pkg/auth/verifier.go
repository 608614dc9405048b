package auth

import (
	"encoding/hex"
	"strconv"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// recoveryCandidates are the recovery ids tried during verification. Signing
// libraries disagree on how they encode v (0/1 vs 27/28), so the byte supplied
// by the wallet is never trusted on its own; every candidate is attempted and
// any match authenticates. EIP-191 signatures from real wallets only ever land
// on 0 or 1, the upper pair is kept for parity with lenient upstreams.
var recoveryCandidates = [...]byte{0, 1, 2, 3}

// HashPersonalMessage computes the canonical EIP-191 personal-message hash:
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message). The
// prefix makes the signed payload unusable as an on-chain transaction.
func HashPersonalMessage(message string) []byte {
	prefix := []byte("\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message)))
	return ethcrypto.Keccak256(prefix, []byte(message))
}

// DecodeSignature parses a hex signature (0x prefix tolerated) into the fixed
// 65-byte r||s||v layout. Anything else is ErrMalformedSignature.
func DecodeSignature(signature string) ([]byte, error) {
	sigHex := strings.TrimSpace(signature)
	if strings.HasPrefix(sigHex, "0x") || strings.HasPrefix(sigHex, "0X") {
		sigHex = sigHex[2:]
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != 65 {
		return nil, ErrMalformedSignature
	}
	return sig, nil
}

// VerifyPersonalSignature checks that signature over the EIP-191 hash of
// message recovers to the claimed address under some recovery id. It returns
// ErrMalformedSignature or ErrSignatureInvalid; nil means authenticated.
func VerifyPersonalSignature(address, message, signature string) error {
	sig, err := DecodeSignature(signature)
	if err != nil {
		return err
	}

	hash := HashPersonalMessage(message)
	want := strings.TrimPrefix(NormalizeAddress(address), "0x")

	candidate := make([]byte, 65)
	copy(candidate, sig[:64])
	for _, v := range recoveryCandidates {
		candidate[64] = v
		pub, err := ethcrypto.SigToPub(hash, candidate)
		if err != nil {
			continue
		}
		got := strings.TrimPrefix(strings.ToLower(ethcrypto.PubkeyToAddress(*pub).Hex()), "0x")
		if got == want {
			return nil
		}
	}
	return ErrSignatureInvalid
}
