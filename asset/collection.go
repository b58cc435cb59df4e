// Package asset provides the asset contracts the protocol custodies and
// pays with: a non-fungible collection with notifying safe transfers and
// the fungible wrapper of native value.
package asset

import (
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/state"
)

// Receiver is implemented by components that accept assets through
// SafeTransferFrom. Returning an error rejects the transfer.
type Receiver interface {
	OnAssetReceived(c *host.Call, operator, from address.Address, assetID uint64, data []byte) error
}

// Collection is the asset contract interface the vaults and ledger use.
type Collection interface {
	Address() address.Address
	OwnerOf(assetID uint64) (address.Address, error)
	GetApproved(assetID uint64) address.Address
	IsApprovedForAll(owner, operator address.Address) bool
	TransferFrom(c *host.Call, from, to address.Address, assetID uint64) error
	SafeTransferFrom(c *host.Call, from, to address.Address, assetID uint64, data []byte) error
}

// NFT is a journaled non-fungible collection.
type NFT struct {
	env       *host.Env
	addr      address.Address
	name      string
	minter    address.Address
	owners    *state.Table[uint64, address.Address]
	approvals *state.Table[uint64, address.Address]
	operators *state.Table[state.AddrPair, bool]
	balances  *state.Table[address.Address, uint64]
}

// Compile-time interface check.
var _ Collection = (*NFT)(nil)

// NewNFT deploys a collection called name. Only minter may mint.
func NewNFT(env *host.Env, name string, minter address.Address) *NFT {
	addr := address.Derive("nft", []byte(name))
	prefix := "nft." + addr.Hex() + "."
	n := &NFT{
		env:       env,
		addr:      addr,
		name:      name,
		minter:    minter,
		owners:    state.NewTable[uint64, address.Address](env.DB(), prefix+"owners", state.Uint64Key),
		approvals: state.NewTable[uint64, address.Address](env.DB(), prefix+"approvals", state.Uint64Key),
		operators: state.NewTable[state.AddrPair, bool](env.DB(), prefix+"operators", state.AddrPairKey),
		balances:  state.NewTable[address.Address, uint64](env.DB(), prefix+"balances", state.AddressKey),
	}
	env.Register(addr, n)
	return n
}

// Address returns the collection identity.
func (n *NFT) Address() address.Address { return n.addr }

// Name returns the collection name.
func (n *NFT) Name() string { return n.name }

// OwnerOf returns the current owner of assetID.
func (n *NFT) OwnerOf(assetID uint64) (address.Address, error) {
	owner, ok := n.owners.Get(assetID)
	if !ok {
		return address.Zero, fmt.Errorf("%w: %d", ErrNonexistentAsset, assetID)
	}
	return owner, nil
}

// BalanceOf returns how many assets owner holds.
func (n *NFT) BalanceOf(owner address.Address) uint64 { return n.balances.GetOrZero(owner) }

// GetApproved returns the single-asset approval, or the zero address.
func (n *NFT) GetApproved(assetID uint64) address.Address { return n.approvals.GetOrZero(assetID) }

// IsApprovedForAll reports whether operator may manage all of owner's assets.
func (n *NFT) IsApprovedForAll(owner, operator address.Address) bool {
	return n.operators.GetOrZero(state.AddrPair{A: owner, B: operator})
}

// Mint creates assetID owned by to.
func (n *NFT) Mint(c *host.Call, to address.Address, assetID uint64) error {
	if c.Caller() != n.minter {
		return ErrNotMinter
	}
	if to.IsZero() {
		return ErrZeroRecipient
	}
	if n.owners.Has(assetID) {
		return fmt.Errorf("%w: %d", ErrAssetExists, assetID)
	}
	n.owners.Set(assetID, to)
	n.balances.Set(to, n.balances.GetOrZero(to)+1)
	return nil
}

// Approve lets to move assetID. The caller must own it or be an operator
// for the owner.
func (n *NFT) Approve(c *host.Call, to address.Address, assetID uint64) error {
	owner, err := n.OwnerOf(assetID)
	if err != nil {
		return err
	}
	if c.Caller() != owner && !n.IsApprovedForAll(owner, c.Caller()) {
		return ErrNotOwnerOrApproved
	}
	n.approvals.Set(assetID, to)
	return nil
}

// SetApprovalForAll lets operator manage every asset of the caller.
func (n *NFT) SetApprovalForAll(c *host.Call, operator address.Address, approved bool) error {
	n.operators.Set(state.AddrPair{A: c.Caller(), B: operator}, approved)
	return nil
}

// TransferFrom moves assetID without notifying the recipient.
func (n *NFT) TransferFrom(c *host.Call, from, to address.Address, assetID uint64) error {
	owner, err := n.OwnerOf(assetID)
	if err != nil {
		return err
	}
	if owner != from {
		return fmt.Errorf("%w: %d owned by %s", ErrWrongFrom, assetID, owner)
	}
	if to.IsZero() {
		return ErrZeroRecipient
	}
	caller := c.Caller()
	if caller != owner && n.GetApproved(assetID) != caller && !n.IsApprovedForAll(owner, caller) {
		return fmt.Errorf("%w: %s on asset %d", ErrNotOwnerOrApproved, caller, assetID)
	}

	n.approvals.Delete(assetID)
	n.balances.Set(from, n.balances.GetOrZero(from)-1)
	n.balances.Set(to, n.balances.GetOrZero(to)+1)
	n.owners.Set(assetID, to)
	return nil
}

// SafeTransferFrom moves assetID and, when to is a registered component,
// requires it to accept the asset through Receiver.
func (n *NFT) SafeTransferFrom(c *host.Call, from, to address.Address, assetID uint64, data []byte) error {
	if err := n.TransferFrom(c, from, to, assetID); err != nil {
		return err
	}
	component, ok := host.Lookup[any](n.env, to)
	if !ok {
		return nil
	}
	r, ok := component.(Receiver)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotReceiver, to)
	}
	return r.OnAssetReceived(c.As(n.addr), c.Caller(), from, assetID, data)
}
