package address

import "errors"

var (
	// ErrInvalidLength indicates an address is not exactly 20 bytes.
	ErrInvalidLength = errors.New("address: must be 20 bytes")

	// ErrInvalidHex indicates an address string is not valid hex.
	ErrInvalidHex = errors.New("address: invalid hex encoding")

	// ErrNilPublicKey indicates a nil public key was supplied.
	ErrNilPublicKey = errors.New("address: public key is nil")
)
