// Package sigauth builds the canonical digest of an off-line entitlement
// statement and recovers the signer identity from a compact signature.
//
// The digest layout is
//
//	keccak256(0x19 0x01 || domain || keccak256(typeHash || fields))
//
// where fields are fixed-width big-endian encodings, so two distinct
// statements never share a preimage.
package sigauth

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/bitfsorg/coveredcall-go/address"
)

// DigestSize is the length of every digest produced by this package.
const DigestSize = 32

// Digest is a 32-byte structured message hash.
type Digest [DigestSize]byte

// DomainName scopes signatures to this protocol.
const DomainName = "CoveredCall Entitlements"

// DomainVersion is bumped whenever the statement encoding changes.
const DomainVersion = "1"

const entitlementType = "Entitlement(address beneficialOwner,address operator,address vault,uint64 assetId,int64 expiry)"

var (
	entitlementTypeHash = keccak([]byte(entitlementType))
	domainSeparator     = keccak([]byte(DomainName), []byte{0x00}, []byte(DomainVersion))
)

// Statement is the message a beneficial owner signs to let an operator
// impose an entitlement on a vaulted asset.
type Statement struct {
	BeneficialOwner address.Address
	Operator        address.Address
	Vault           address.Address
	AssetID         uint64
	Expiry          int64
}

// EntitlementDigest returns the canonical digest of s.
func EntitlementDigest(s Statement) Digest {
	var fields [address.Size*3 + 16]byte
	off := 0
	off += copy(fields[off:], s.BeneficialOwner[:])
	off += copy(fields[off:], s.Operator[:])
	off += copy(fields[off:], s.Vault[:])
	binary.BigEndian.PutUint64(fields[off:], s.AssetID)
	binary.BigEndian.PutUint64(fields[off+8:], uint64(s.Expiry))

	structHash := keccak(entitlementTypeHash[:], fields[:])
	return keccak([]byte{0x19, 0x01}, domainSeparator[:], structHash[:])
}

func keccak(chunks ...[]byte) Digest {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
