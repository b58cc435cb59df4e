// Package address defines the 20-byte identities used for callers,
// beneficial owners and protocol components.
package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// Size is the byte length of an Address.
const Size = 20

// Address identifies a party or a component. The zero value means "none".
type Address [Size]byte

// Zero is the null identity.
var Zero Address

// FromPublicKey returns Hash160(compressed pubkey), the same key hash a
// P2PKH output commits to.
func FromPublicKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return Zero, ErrNilPublicKey
	}
	var a Address
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a, nil
}

// MustFromPublicKey is FromPublicKey for keys known to be non-nil.
func MustFromPublicKey(pub *ec.PublicKey) Address {
	a, err := FromPublicKey(pub)
	if err != nil {
		panic(err)
	}
	return a
}

// Derive returns a deterministic component identity for a label and
// optional discriminators, e.g. Derive("vault", collection[:], id).
func Derive(label string, parts ...[]byte) Address {
	data := []byte(label)
	for _, p := range parts {
		data = append(data, 0x00)
		data = append(data, p...)
	}
	var a Address
	copy(a[:], bsvhash.Hash160(data))
	return a
}

// FromBytes copies a 20-byte slice into an Address.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Size {
		return Zero, fmt.Errorf("%w: got %d", ErrInvalidLength, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// FromHex parses a hex string, with or without a 0x prefix.
func FromHex(s string) (Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return FromBytes(raw)
}

// IsZero reports whether a is the null identity.
func (a Address) IsZero() bool { return a == Zero }

// Hex returns the lowercase hex encoding without prefix.
func (a Address) Hex() string { return hex.EncodeToString(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// MarshalText implements encoding.TextMarshaler so addresses can be used in
// TOML and JSON documents.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
