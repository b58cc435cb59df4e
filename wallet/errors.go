package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrAccountOutOfRange indicates an account index at or above the hardened offset.
	ErrAccountOutOfRange = errors.New("wallet: account index out of range")

	// ErrDecryptionFailed indicates a wrong password or corrupted sealed seed.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates the decrypted seed does not match its checksum.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrNotFound indicates no sealed seed exists in the data directory.
	ErrNotFound = errors.New("wallet: no wallet in data directory")

	// ErrExists indicates a sealed seed already exists in the data directory.
	ErrExists = errors.New("wallet: wallet already exists")
)
