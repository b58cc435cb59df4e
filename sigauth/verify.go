package sigauth

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/coveredcall-go/address"
)

// SignatureSize is the length of a compact recoverable signature.
const SignatureSize = 65

// Sign produces a 65-byte compact signature over digest. The recovery
// header encodes a compressed public key.
func Sign(priv *ec.PrivateKey, digest Digest) ([]byte, error) {
	if priv == nil {
		return nil, ErrNilPrivateKey
	}
	sig, err := ec.SignCompact(ec.S256(), priv, digest[:], true)
	if err != nil {
		return nil, fmt.Errorf("sigauth: sign: %w", err)
	}
	return sig, nil
}

// SignStatement is Sign(priv, EntitlementDigest(s)).
func SignStatement(priv *ec.PrivateKey, s Statement) ([]byte, error) {
	return Sign(priv, EntitlementDigest(s))
}

// Recover returns the identity whose key produced sig over digest.
// It never mutates state and is safe to call with untrusted input.
func Recover(digest Digest, sig []byte) (address.Address, error) {
	if len(sig) != SignatureSize {
		return address.Zero, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(sig))
	}
	pub, _, err := ec.RecoverCompact(sig, digest[:])
	if err != nil {
		return address.Zero, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return address.FromPublicKey(pub)
}

// VerifyStatement checks that sig over s recovers to s.BeneficialOwner.
func VerifyStatement(s Statement, sig []byte) error {
	signer, err := Recover(EntitlementDigest(s), sig)
	if err != nil {
		return err
	}
	if signer != s.BeneficialOwner {
		return fmt.Errorf("%w: recovered %s, want %s", ErrSignerMismatch, signer, s.BeneficialOwner)
	}
	return nil
}
