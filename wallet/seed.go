// Package wallet keeps participant signing keys. Identities are derived
// from a BIP39 seed along m/44'/{CoinType}'/{account}'/0/0 and the seed is
// kept on disk sealed with Argon2id and AES-256-GCM.
package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"golang.org/x/crypto/argon2"
)

// Mnemonic entropy sizes.
const (
	Mnemonic12Words = 128
	Mnemonic24Words = 256
)

// Sealed seed layout: salt || nonce || AES-GCM(seed || checksum).
const (
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4
)

// KDF holds the Argon2id cost parameters used to seal a seed. They are
// not stored with the sealed seed, so opening must use the same values.
type KDF struct {
	Time        uint32
	MemoryKiB   uint32
	Parallelism uint8
}

// DefaultKDF is the cost used for wallets on disk.
var DefaultKDF = KDF{Time: 3, MemoryKiB: 64 * 1024, Parallelism: 4}

func (k KDF) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, k.Time, k.MemoryKiB, k.Parallelism, 32)
}

// GenerateMnemonic creates a new BIP39 mnemonic with entropyBits of
// entropy: Mnemonic12Words or Mnemonic24Words.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("wallet: generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("wallet: generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// SeedFromMnemonic derives the 64-byte BIP39 seed. An empty passphrase
// still participates in the derivation.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive seed: %w", err)
	}
	return seed, nil
}

// SealSeed encrypts seed under password.
func SealSeed(seed []byte, password string, kdf KDF) ([]byte, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	out := make([]byte, SaltLen+NonceLen, SaltLen+NonceLen+len(seed)+ChecksumLen+16)
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("wallet: read random: %w", err)
	}
	gcm, err := newGCM(kdf.key(password, out[:SaltLen]))
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(seed)
	plaintext := append(append([]byte(nil), seed...), sum[:ChecksumLen]...)
	return gcm.Seal(out, out[SaltLen:SaltLen+NonceLen], plaintext, nil), nil
}

// OpenSeed decrypts a seed sealed by SealSeed.
func OpenSeed(sealed []byte, password string, kdf KDF) ([]byte, error) {
	if len(sealed) < SaltLen+NonceLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}
	salt, nonce, ciphertext := sealed[:SaltLen], sealed[SaltLen:SaltLen+NonceLen], sealed[SaltLen+NonceLen:]
	gcm, err := newGCM(kdf.key(password, salt))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil || len(plaintext) <= ChecksumLen {
		return nil, ErrDecryptionFailed
	}
	seed, check := plaintext[:len(plaintext)-ChecksumLen], plaintext[len(plaintext)-ChecksumLen:]
	sum := sha256.Sum256(seed)
	if subtle.ConstantTimeCompare(check, sum[:ChecksumLen]) != 1 {
		return nil, ErrChecksumMismatch
	}
	return seed, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("wallet: AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wallet: GCM: %w", err)
	}
	return gcm, nil
}
