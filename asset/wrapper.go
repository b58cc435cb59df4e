package asset

import (
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/state"
)

// Wrapper is a fungible token backed one-to-one by native value held in
// its own bank account. The option ledger delivers payments as wrapper
// balance when a direct transfer is rejected.
type Wrapper struct {
	env      *host.Env
	addr     address.Address
	balances *state.Table[address.Address, uint64]
	supply   *state.Cell[uint64]
}

// NewWrapper deploys a wrapper called name.
func NewWrapper(env *host.Env, name string) *Wrapper {
	addr := address.Derive("wrapper", []byte(name))
	prefix := "wrapper." + addr.Hex() + "."
	w := &Wrapper{
		env:      env,
		addr:     addr,
		balances: state.NewTable[address.Address, uint64](env.DB(), prefix+"balances", state.AddressKey),
		supply:   state.NewCell[uint64](env.DB(), prefix+"supply"),
	}
	env.Register(addr, w)
	return w
}

// Address returns the wrapper identity.
func (w *Wrapper) Address() address.Address { return w.addr }

// BalanceOf returns the wrapped balance of a.
func (w *Wrapper) BalanceOf(a address.Address) uint64 { return w.balances.GetOrZero(a) }

// TotalSupply returns the amount of value currently wrapped.
func (w *Wrapper) TotalSupply() uint64 { return w.supply.Get() }

// Deposit wraps amount of the caller's native value.
func (w *Wrapper) Deposit(c *host.Call, amount uint64) error {
	if err := w.env.Bank().Transfer(c, w.addr, amount); err != nil {
		return err
	}
	w.balances.Set(c.Caller(), w.balances.GetOrZero(c.Caller())+amount)
	w.supply.Set(w.supply.Get() + amount)
	return nil
}

// Withdraw unwraps amount back to the caller's native balance.
func (w *Wrapper) Withdraw(c *host.Call, amount uint64) error {
	bal := w.balances.GetOrZero(c.Caller())
	if bal < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientWrapped, bal, amount)
	}
	w.balances.Set(c.Caller(), bal-amount)
	w.supply.Set(w.supply.Get() - amount)
	return w.env.Bank().Transfer(c.As(w.addr), c.Caller(), amount)
}

// Transfer moves wrapped balance from the caller to to.
func (w *Wrapper) Transfer(c *host.Call, to address.Address, amount uint64) error {
	from := c.Caller()
	bal := w.balances.GetOrZero(from)
	if bal < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientWrapped, bal, amount)
	}
	if to.IsZero() {
		return ErrZeroRecipient
	}
	if from == to {
		return nil
	}
	w.balances.Set(from, bal-amount)
	w.balances.Set(to, w.balances.GetOrZero(to)+amount)
	return nil
}
