package state

import (
	"encoding/binary"
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
)

// KeyCodec converts table keys to and from their persisted byte form.
// Encodings are fixed-width big-endian so bbolt cursors iterate in key
// order.
type KeyCodec[K comparable] struct {
	Encode func(K) []byte
	Decode func([]byte) (K, error)
}

// AddrID keys a row by a component address and a numeric id, e.g. a vault
// slot or a collection token.
type AddrID struct {
	Addr address.Address
	ID   uint64
}

// AddrPair keys a row by two addresses, e.g. a fungible balance.
type AddrPair struct {
	A, B address.Address
}

// AddrTriple keys a row by three addresses, e.g. an operator approval
// scoped to a collection.
type AddrTriple struct {
	A, B, C address.Address
}

// StringKey encodes string keys as raw bytes.
var StringKey = KeyCodec[string]{
	Encode: func(k string) []byte { return []byte(k) },
	Decode: func(b []byte) (string, error) { return string(b), nil },
}

// Uint64Key encodes uint64 keys as 8 big-endian bytes.
var Uint64Key = KeyCodec[uint64]{
	Encode: func(k uint64) []byte {
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, k)
		return b
	},
	Decode: func(b []byte) (uint64, error) {
		if len(b) != 8 {
			return 0, fmt.Errorf("%w: uint64 key has %d bytes", ErrInvalidKey, len(b))
		}
		return binary.BigEndian.Uint64(b), nil
	},
}

// AddressKey encodes address keys as their 20 raw bytes.
var AddressKey = KeyCodec[address.Address]{
	Encode: func(k address.Address) []byte { return append([]byte(nil), k[:]...) },
	Decode: func(b []byte) (address.Address, error) {
		a, err := address.FromBytes(b)
		if err != nil {
			return address.Zero, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return a, nil
	},
}

// AddrIDKey encodes AddrID as address || uint64.
var AddrIDKey = KeyCodec[AddrID]{
	Encode: func(k AddrID) []byte {
		b := make([]byte, address.Size+8)
		copy(b, k.Addr[:])
		binary.BigEndian.PutUint64(b[address.Size:], k.ID)
		return b
	},
	Decode: func(b []byte) (AddrID, error) {
		if len(b) != address.Size+8 {
			return AddrID{}, fmt.Errorf("%w: addr/id key has %d bytes", ErrInvalidKey, len(b))
		}
		var k AddrID
		copy(k.Addr[:], b[:address.Size])
		k.ID = binary.BigEndian.Uint64(b[address.Size:])
		return k, nil
	},
}

// AddrPairKey encodes AddrPair as A || B.
var AddrPairKey = KeyCodec[AddrPair]{
	Encode: func(k AddrPair) []byte {
		b := make([]byte, 2*address.Size)
		copy(b, k.A[:])
		copy(b[address.Size:], k.B[:])
		return b
	},
	Decode: func(b []byte) (AddrPair, error) {
		if len(b) != 2*address.Size {
			return AddrPair{}, fmt.Errorf("%w: addr pair key has %d bytes", ErrInvalidKey, len(b))
		}
		var k AddrPair
		copy(k.A[:], b[:address.Size])
		copy(k.B[:], b[address.Size:])
		return k, nil
	},
}

// AddrTripleKey encodes AddrTriple as A || B || C.
var AddrTripleKey = KeyCodec[AddrTriple]{
	Encode: func(k AddrTriple) []byte {
		b := make([]byte, 3*address.Size)
		copy(b, k.A[:])
		copy(b[address.Size:], k.B[:])
		copy(b[2*address.Size:], k.C[:])
		return b
	},
	Decode: func(b []byte) (AddrTriple, error) {
		if len(b) != 3*address.Size {
			return AddrTriple{}, fmt.Errorf("%w: addr triple key has %d bytes", ErrInvalidKey, len(b))
		}
		var k AddrTriple
		copy(k.A[:], b[:address.Size])
		copy(k.B[:], b[address.Size:2*address.Size])
		copy(k.C[:], b[2*address.Size:])
		return k, nil
	},
}
