package sigauth

import "errors"

var (
	// ErrNilPrivateKey indicates a nil signing key.
	ErrNilPrivateKey = errors.New("sigauth: private key is nil")

	// ErrInvalidSignature indicates the signature is malformed or does not
	// recover to any public key.
	ErrInvalidSignature = errors.New("sigauth: invalid signature")

	// ErrSignerMismatch indicates the signature recovers to a key other than
	// the expected signer.
	ErrSignerMismatch = errors.New("sigauth: signature does not recover to expected signer")
)
