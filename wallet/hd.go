package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/sigauth"
)

// BIP44 path constants.
const (
	PurposeBIP44 = 44
	CoinType     = 236
	Hardened     = 0x80000000
)

// Wallet derives participant identities from one seed.
type Wallet struct {
	master *bip32.ExtendedKey
}

// Identity is a derived signing key and the protocol address it controls.
type Identity struct {
	PrivateKey *ec.PrivateKey
	Address    address.Address
	Path       string
}

// New creates a wallet from a BIP39 seed.
func New(seed []byte) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	master, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Wallet{master: master}, nil
}

// FromMnemonic creates a wallet from a mnemonic and optional passphrase.
func FromMnemonic(mnemonic, passphrase string) (*Wallet, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return New(seed)
}

// Identity derives the identity of account: m/44'/236'/account'/0/0.
func (w *Wallet) Identity(account uint32) (*Identity, error) {
	if account >= Hardened {
		return nil, fmt.Errorf("%w: %d", ErrAccountOutOfRange, account)
	}
	key := w.master
	for _, idx := range []uint32{PurposeBIP44 + Hardened, CoinType + Hardened, account + Hardened, 0, 0} {
		child, err := key.Child(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
		}
		key = child
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	addr, err := address.FromPublicKey(priv.PubKey())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Identity{
		PrivateKey: priv,
		Address:    addr,
		Path:       fmt.Sprintf("m/%d'/%d'/%d'/0/0", PurposeBIP44, CoinType, account),
	}, nil
}

// SignEntitlement signs s so that a vault can impose it. s.BeneficialOwner
// must be this identity.
func (id *Identity) SignEntitlement(s sigauth.Statement) ([]byte, error) {
	if s.BeneficialOwner != id.Address {
		return nil, fmt.Errorf("%w: statement names %s", sigauth.ErrSignerMismatch, s.BeneficialOwner)
	}
	return sigauth.SignStatement(id.PrivateKey, s)
}
