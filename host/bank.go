package host

import (
	"fmt"
	"math"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/state"
)

// Payable is implemented by components that run code when they receive
// native value. The hook gets no Call, so it can observe the payment and
// accept or reject it but cannot re-enter the protocol.
type Payable interface {
	Receive(from address.Address, amount uint64) error
}

// Bank tracks native value balances.
type Bank struct {
	env      *Env
	balances *state.Table[address.Address, uint64]
	supply   *state.Cell[uint64]
}

func newBank(e *Env) *Bank {
	return &Bank{
		env:      e,
		balances: state.NewTable[address.Address, uint64](e.db, "balances", state.AddressKey),
		supply:   state.NewCell[uint64](e.db, "balances_supply"),
	}
}

// BalanceOf returns the balance of a.
func (b *Bank) BalanceOf(a address.Address) uint64 {
	return b.balances.GetOrZero(a)
}

// TotalSupply returns the sum of all credited value.
func (b *Bank) TotalSupply() uint64 { return b.supply.Get() }

// Credit creates amount out of thin air for to. It is the faucet used by
// deployments and tests; protocol components never call it.
func (b *Bank) Credit(_ *Call, to address.Address, amount uint64) error {
	if math.MaxUint64-b.supply.Get() < amount {
		return ErrOverflow
	}
	b.supply.Set(b.supply.Get() + amount)
	b.balances.Set(to, b.balances.GetOrZero(to)+amount)
	return nil
}

// Transfer moves amount from the caller to to and runs to's Payable hook.
// Callers that must survive a rejecting recipient wrap this in c.Atomic.
func (b *Bank) Transfer(c *Call, to address.Address, amount uint64) error {
	from := c.Caller()
	bal := b.balances.GetOrZero(from)
	if bal < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, from, bal, amount)
	}
	if amount > 0 && from != to {
		b.balances.Set(from, bal-amount)
		b.balances.Set(to, b.balances.GetOrZero(to)+amount)
	}
	if p, ok := Lookup[Payable](b.env, to); ok {
		if err := p.Receive(from, amount); err != nil {
			return fmt.Errorf("%w: %w", ErrPaymentRejected, err)
		}
	}
	return nil
}
