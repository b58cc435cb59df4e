package option

import (
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/state"
)

// RightsToken is the transferable claim on an option. Token ids equal
// option ids; only the ledger mints and burns.
type RightsToken struct {
	addr      address.Address
	registry  config.Registry
	owners    *state.Table[uint64, address.Address]
	approvals *state.Table[uint64, address.Address]
	operators *state.Table[state.AddrPair, bool]
	balances  *state.Table[address.Address, uint64]
}

func newRightsToken(db *state.DB, ledger address.Address, registry config.Registry) *RightsToken {
	return &RightsToken{
		addr:      address.Derive("rights", ledger[:]),
		registry:  registry,
		owners:    state.NewTable[uint64, address.Address](db, "rights_owners", state.Uint64Key),
		approvals: state.NewTable[uint64, address.Address](db, "rights_approvals", state.Uint64Key),
		operators: state.NewTable[state.AddrPair, bool](db, "rights_operators", state.AddrPairKey),
		balances:  state.NewTable[address.Address, uint64](db, "rights_balances", state.AddressKey),
	}
}

// Address returns the token contract identity.
func (r *RightsToken) Address() address.Address { return r.addr }

// OwnerOf returns the holder of token id.
func (r *RightsToken) OwnerOf(id uint64) (address.Address, error) {
	owner, ok := r.owners.Get(id)
	if !ok {
		return address.Zero, fmt.Errorf("%w: %d", ErrNonexistentToken, id)
	}
	return owner, nil
}

// Exists reports whether token id is live.
func (r *RightsToken) Exists(id uint64) bool { return r.owners.Has(id) }

// BalanceOf returns how many rights tokens owner holds.
func (r *RightsToken) BalanceOf(owner address.Address) uint64 { return r.balances.GetOrZero(owner) }

// GetApproved returns the single-token approval for id.
func (r *RightsToken) GetApproved(id uint64) address.Address { return r.approvals.GetOrZero(id) }

// IsApprovedForAll reports whether operator may move all of owner's tokens.
func (r *RightsToken) IsApprovedForAll(owner, operator address.Address) bool {
	return r.operators.GetOrZero(state.AddrPair{A: owner, B: operator})
}

// Approve lets to move token id.
func (r *RightsToken) Approve(c *host.Call, to address.Address, id uint64) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if c.Caller() != owner && !r.IsApprovedForAll(owner, c.Caller()) {
		return ErrNotOwnerOrApproved
	}
	r.approvals.Set(id, to)
	return nil
}

// SetApprovalForAll lets operator move every token of the caller.
func (r *RightsToken) SetApprovalForAll(c *host.Call, operator address.Address, approved bool) error {
	r.operators.Set(state.AddrPair{A: c.Caller(), B: operator}, approved)
	return nil
}

// TransferFrom moves token id from from to to. An approved party other
// than the holder must also be a transfer agent.
func (r *RightsToken) TransferFrom(c *host.Call, from, to address.Address, id uint64) error {
	if err := r.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return fmt.Errorf("%w: token %d held by %s", ErrNotOwnerOrApproved, id, owner)
	}
	if to.IsZero() {
		return ErrZeroRecipient
	}
	caller := c.Caller()
	if caller != owner {
		if r.GetApproved(id) != caller && !r.IsApprovedForAll(owner, caller) {
			return fmt.Errorf("%w: %s on token %d", ErrNotOwnerOrApproved, caller, id)
		}
		if !r.registry.HasRole(config.RoleTransferAgent, caller) {
			return fmt.Errorf("%w: %s", ErrNotTransferAgent, caller)
		}
	}

	r.approvals.Delete(id)
	r.balances.Set(from, r.balances.GetOrZero(from)-1)
	r.balances.Set(to, r.balances.GetOrZero(to)+1)
	r.owners.Set(id, to)
	return nil
}

func (r *RightsToken) mint(to address.Address, id uint64) {
	r.owners.Set(id, to)
	r.balances.Set(to, r.balances.GetOrZero(to)+1)
}

// burn destroys token id. Burning twice is an error.
func (r *RightsToken) burn(id uint64) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	r.approvals.Delete(id)
	r.owners.Delete(id)
	r.balances.Set(owner, r.balances.GetOrZero(owner)-1)
	return nil
}
