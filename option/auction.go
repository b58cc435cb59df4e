package option

import (
	"fmt"
	"math"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
)

// Bid places value on option id during its settlement auction. value is
// taken from the caller's balance. A writer bids only the spread: their
// recorded bid is value plus strike. The previous high bidder is refunded
// and the caller becomes the asset's beneficial owner.
func (l *Ledger) Bid(c *host.Call, id, value uint64) error {
	return l.guard.Run(func() error {
		if err := l.whenMarketOpen(); err != nil {
			return err
		}
		o, err := l.Option(id)
		if err != nil {
			return err
		}
		if o.Settled {
			return fmt.Errorf("%w: %d", ErrSettled, id)
		}
		now := c.Now()
		if now >= o.Expiration {
			return fmt.Errorf("%w: option %d expired at %d", ErrAuctionClosed, id, o.Expiration)
		}
		m := l.Market()
		if opens := o.Expiration - m.AuctionWindow; now < opens {
			return fmt.Errorf("%w: opens at %d", ErrAuctionNotOpen, opens)
		}

		bidder := c.Caller()
		candidate := value
		if bidder == o.Writer {
			if math.MaxUint64-value < o.Strike {
				return host.ErrOverflow
			}
			candidate = value + o.Strike
		}
		if candidate <= o.Strike {
			return fmt.Errorf("%w: bid %d, strike %d", ErrBidBelowStrike, candidate, o.Strike)
		}
		if next := MinNextBid(o.Bid, m.MinBidIncrementBips); candidate <= o.Bid || candidate < next {
			return fmt.Errorf("%w: bid %d, need %d", ErrBidTooLow, candidate, next)
		}

		if err := l.env.Bank().Transfer(c, l.addr, value); err != nil {
			return err
		}
		if !o.HighBidder.IsZero() {
			if err := l.pay(c, o.HighBidder, o.contribution()); err != nil {
				return err
			}
		}

		o.Bid = candidate
		o.HighBidder = bidder
		l.options.Set(id, o)

		v, err := l.vaults.Lookup(o.Vault)
		if err != nil {
			return err
		}
		if err := v.SetBeneficialOwner(l.self(c), o.AssetID, bidder); err != nil {
			return err
		}
		c.Emit(event.Bid{OptionID: id, Amount: candidate, Bidder: bidder})
		return nil
	})
}

// MinNextBid returns the lowest bid that raises current by at least bips
// basis points.
func MinNextBid(current, bips uint64) uint64 {
	inc := current/10_000*bips + current%10_000*bips/10_000
	if math.MaxUint64-current < inc {
		return math.MaxUint64
	}
	return current + inc
}

// SettleOption closes option id after expiration in favour of the high
// bidder. The writer is paid the strike unless they won. A caller holding
// the rights token takes the spread and burns the token; otherwise the
// spread waits as a claim. With returnAsset the asset leaves the vault to
// the winner; without it the winner stays the beneficial owner in custody.
func (l *Ledger) SettleOption(c *host.Call, id uint64, returnAsset bool) error {
	return l.guard.Run(func() error {
		if err := l.registry.ThrowWhenPaused(); err != nil {
			return err
		}
		o, err := l.Option(id)
		if err != nil {
			return err
		}
		if o.HighBidder.IsZero() {
			return fmt.Errorf("%w: %d", ErrNoBids, id)
		}
		if c.Now() < o.Expiration {
			return fmt.Errorf("%w: %d expires at %d", ErrNotExpired, id, o.Expiration)
		}
		if o.Settled {
			return fmt.Errorf("%w: %d", ErrSettled, id)
		}
		o.Settled = true
		l.options.Set(id, o)

		if err := l.releaseAsset(c, o, returnAsset, address.Zero); err != nil {
			return err
		}

		holder, err := l.rights.OwnerOf(id)
		if err != nil {
			return err
		}
		holderPaid := c.Caller() == holder
		s := SettlementOf(o, holder, holderPaid)
		if err := ValidateConservation(o.contribution(), s); err != nil {
			return err
		}
		if holderPaid {
			if err := l.rights.burn(id); err != nil {
				return err
			}
		} else {
			l.claims.Set(id, s.Claim)
		}
		for _, p := range s.Payouts {
			if err := l.pay(c, p.To, p.Amount); err != nil {
				return err
			}
		}
		c.Emit(event.Settled{OptionID: id, Claimable: s.Claim})
		return nil
	})
}

// ReclaimAsset lets the writer, still holding the rights token, cancel
// option id before expiration. Any standing bid is refunded and the writer
// becomes the beneficial owner again; with returnAsset the asset is also
// withdrawn to them.
func (l *Ledger) ReclaimAsset(c *host.Call, id uint64, returnAsset bool) error {
	return l.guard.Run(func() error {
		if err := l.registry.ThrowWhenPaused(); err != nil {
			return err
		}
		o, err := l.Option(id)
		if err != nil {
			return err
		}
		if c.Caller() != o.Writer {
			return fmt.Errorf("%w: %s", ErrNotWriter, c.Caller())
		}
		if o.Settled {
			return fmt.Errorf("%w: %d", ErrSettled, id)
		}
		if holder, err := l.rights.OwnerOf(id); err != nil || holder != o.Writer {
			return fmt.Errorf("%w: writer sold option %d", ErrNotTokenHolder, id)
		}
		if c.Now() >= o.Expiration {
			return fmt.Errorf("%w: %d", ErrOptionExpired, id)
		}

		if err := l.rights.burn(id); err != nil {
			return err
		}
		o.Settled = true
		l.options.Set(id, o)

		if !o.HighBidder.IsZero() {
			if err := l.pay(c, o.HighBidder, o.contribution()); err != nil {
				return err
			}
		}
		v, err := l.vaults.Lookup(o.Vault)
		if err != nil {
			return err
		}
		if v.BeneficialOwner(o.AssetID) != o.Writer {
			if err := v.SetBeneficialOwner(l.self(c), o.AssetID, o.Writer); err != nil {
				return err
			}
		}
		if err := l.releaseAsset(c, o, returnAsset, o.Writer); err != nil {
			return err
		}
		c.Emit(event.Reclaimed{OptionID: id})
		return nil
	})
}

// BurnExpiredOption retires an option that expired without bids. Anyone
// may call it.
func (l *Ledger) BurnExpiredOption(c *host.Call, id uint64) error {
	return l.guard.Run(func() error {
		if err := l.registry.ThrowWhenPaused(); err != nil {
			return err
		}
		o, err := l.Option(id)
		if err != nil {
			return err
		}
		if c.Now() <= o.Expiration {
			return fmt.Errorf("%w: %d expires at %d", ErrNotExpired, id, o.Expiration)
		}
		if o.Settled {
			return fmt.Errorf("%w: %d", ErrSettled, id)
		}
		if !o.HighBidder.IsZero() {
			return fmt.Errorf("%w: %d", ErrHasBids, id)
		}
		if err := l.rights.burn(id); err != nil {
			return err
		}
		o.Settled = true
		l.options.Set(id, o)
		c.Emit(event.ExpiredBurned{OptionID: id})
		return nil
	})
}

// ClaimOptionProceeds pays the rights holder the spread recorded when
// option id settled and burns the token. It does nothing while no claim
// is recorded.
func (l *Ledger) ClaimOptionProceeds(c *host.Call, id uint64) error {
	return l.guard.Run(func() error {
		if err := l.registry.ThrowWhenPaused(); err != nil {
			return err
		}
		holder, err := l.rights.OwnerOf(id)
		if err != nil {
			return err
		}
		if c.Caller() != holder {
			return fmt.Errorf("%w: %s", ErrNotTokenHolder, c.Caller())
		}
		amount := l.claims.GetOrZero(id)
		if amount == 0 {
			return nil
		}
		l.claims.Delete(id)
		if err := l.rights.burn(id); err != nil {
			return err
		}
		if err := l.pay(c, holder, amount); err != nil {
			return err
		}
		c.Emit(event.ProceedsClaimed{OptionID: id, Claimant: holder, Amount: amount})
		return nil
	})
}

// releaseAsset gives up the ledger's entitlement on o's asset. With
// deliver the asset leaves custody to receiver, or to the current
// beneficial owner when receiver is zero. It does nothing once the
// entitlement is gone, e.g. after the winner withdrew an expired slot.
func (l *Ledger) releaseAsset(c *host.Call, o Option, deliver bool, receiver address.Address) error {
	v, err := l.vaults.Lookup(o.Vault)
	if err != nil {
		return err
	}
	slot := v.Slot(o.AssetID)
	if slot.Operator != l.addr {
		return nil
	}
	if !deliver {
		return v.ClearEntitlement(l.self(c), o.AssetID)
	}
	if receiver.IsZero() {
		receiver = slot.BeneficialOwner
	}
	return v.ClearEntitlementAndDistribute(l.self(c), o.AssetID, receiver)
}
