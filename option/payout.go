package option

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/asset"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
)

// Payout is one transfer made when an option settles.
type Payout struct {
	To     address.Address
	Amount uint64
}

// Settlement splits the standing bid of an option at settlement. Claim is
// the spread left for a rights holder who did not settle in person.
type Settlement struct {
	Payouts []Payout
	Claim   uint64
}

// SettlementOf computes the payouts for o. The writer receives the strike
// unless they are the high bidder; the spread goes to holder now when
// holderPaid is set and is recorded as a claim otherwise.
func SettlementOf(o Option, holder address.Address, holderPaid bool) Settlement {
	var s Settlement
	if o.HighBidder != o.Writer {
		s.Payouts = append(s.Payouts, Payout{To: o.Writer, Amount: o.Strike})
	}
	spread := o.Bid - o.Strike
	if holderPaid {
		s.Payouts = append(s.Payouts, Payout{To: holder, Amount: spread})
	} else {
		s.Claim = spread
	}
	return s
}

// ValidateConservation checks that s accounts for exactly collected.
func ValidateConservation(collected uint64, s Settlement) error {
	total := s.Claim
	for _, p := range s.Payouts {
		total += p.Amount
	}
	if total != collected {
		return fmt.Errorf("%w: collected=%d paid=%d", ErrConservation, collected, total)
	}
	return nil
}

// pay sends amount from the ledger to to. A recipient that rejects native
// value is paid in wrapper balance instead, so it cannot block payments
// owed to anyone else.
func (l *Ledger) pay(c *host.Call, to address.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	self := l.self(c)
	bank := l.env.Bank()
	err := c.Atomic(func() error { return bank.Transfer(self, to, amount) })
	if err == nil {
		return nil
	}
	if !errors.Is(err, host.ErrPaymentRejected) {
		return err
	}

	w, ok := host.Lookup[*asset.Wrapper](l.env, l.registry.WrapperAsset())
	if !ok {
		return fmt.Errorf("%w: %w", ErrNoWrapper, err)
	}
	c.Logger().Debug().Err(err).Stringer("to", to).Uint64("amount", amount).Msg("paying in wrapper")
	if err := w.Deposit(self, amount); err != nil {
		return err
	}
	if err := w.Transfer(self, to, amount); err != nil {
		return err
	}
	c.Emit(event.PaymentWrapped{To: to, Amount: amount})
	return nil
}
