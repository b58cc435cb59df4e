package vault

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/sigauth"
)

// Entitlement is a time-bound grant of operator rights over one vaulted
// asset. It only exists as the current fields of a Slot.
type Entitlement struct {
	BeneficialOwner address.Address
	Operator        address.Address
	Vault           address.Address
	AssetID         uint64
	Expiry          int64
}

// Statement returns the message the beneficial owner signs to authorize e
// off-line.
func (e Entitlement) Statement() sigauth.Statement {
	return sigauth.Statement{
		BeneficialOwner: e.BeneficialOwner,
		Operator:        e.Operator,
		Vault:           e.Vault,
		AssetID:         e.AssetID,
		Expiry:          e.Expiry,
	}
}

// Slot is the custody record for one asset. It is overwritten in place and
// never deleted.
type Slot struct {
	BeneficialOwner  address.Address
	Operator         address.Address
	Expiry           int64
	ApprovedOperator address.Address
}

// ActiveAt reports whether the slot carries an active entitlement at now.
// It is derived from the stored fields on every call.
func (s Slot) ActiveAt(now int64) bool {
	return !s.Operator.IsZero() && s.Expiry > now
}

// DepositPayload travels as the data of a safe transfer into a vault. A
// non-nil Entitlement registers atomically with the deposit.
type DepositPayload struct {
	Entitlement      *Entitlement
	ApprovedOperator address.Address
}

// EncodeDepositPayload serializes p for SafeTransferFrom.
func EncodeDepositPayload(p DepositPayload) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return buf.Bytes(), nil
}

// DecodeDepositPayload parses deposit data. Empty data is a plain deposit.
func DecodeDepositPayload(data []byte) (DepositPayload, error) {
	var p DepositPayload
	if len(data) == 0 {
		return p, nil
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return p, nil
}
