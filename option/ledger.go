// Package option is the covered-call ledger. A writer mints an option
// against a vaulted asset, receives a rights token for it, and a
// settlement auction in the last interval before expiration decides who
// buys the asset at or above the strike.
package option

import (
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/state"
	"github.com/bitfsorg/coveredcall-go/vault"
)

// Option is the ledger record of one covered call. It is never deleted;
// Settled flips to true exactly once.
type Option struct {
	Writer     address.Address
	Expiration int64
	AssetID    uint64
	Vault      address.Address
	Strike     uint64
	Bid        uint64
	HighBidder address.Address
	Settled    bool
}

// contribution is the value the ledger holds for the standing bid. A
// writer's recorded bid includes the strike they never paid in.
func (o Option) contribution() uint64 {
	if o.HighBidder.IsZero() {
		return 0
	}
	if o.HighBidder == o.Writer {
		return o.Bid - o.Strike
	}
	return o.Bid
}

// Ledger registers options, runs their settlement auctions and pays out.
type Ledger struct {
	env         *host.Env
	addr        address.Address
	registry    config.Registry
	vaults      *vault.Factory
	rights      *RightsToken
	options     *state.Table[uint64, Option]
	claims      *state.Table[uint64, uint64]
	slotOptions *state.Table[state.AddrID, uint64]
	count       *state.Cell[uint64]
	settings    *state.Table[string, int64]
	paused      *state.Cell[bool]
	defaults    config.MarketConfig
	guard       host.Guard
}

// NewLedger creates the ledger called name. market holds the settings used
// until a market configurator changes them.
func NewLedger(env *host.Env, name string, registry config.Registry, vaults *vault.Factory, market config.MarketConfig) (*Ledger, error) {
	if err := config.ValidateMarket(market); err != nil {
		return nil, fmt.Errorf("option: %w", err)
	}
	db := env.DB()
	addr := address.Derive("ledger", []byte(name))
	return &Ledger{
		env:         env,
		addr:        addr,
		registry:    registry,
		vaults:      vaults,
		rights:      newRightsToken(db, addr, registry),
		options:     state.NewTable[uint64, Option](db, "options", state.Uint64Key),
		claims:      state.NewTable[uint64, uint64](db, "claims", state.Uint64Key),
		slotOptions: state.NewTable[state.AddrID, uint64](db, "slot_options", state.AddrIDKey),
		count:       state.NewCell[uint64](db, "counters"),
		settings:    state.NewTable[string, int64](db, "settings", state.StringKey),
		paused:      state.NewCell[bool](db, "market_paused"),
		defaults:    market,
	}, nil
}

// Address returns the ledger identity. It is the operator named in every
// entitlement the ledger holds.
func (l *Ledger) Address() address.Address { return l.addr }

// Rights returns the rights token contract.
func (l *Ledger) Rights() *RightsToken { return l.rights }

// Option returns the record of option id.
func (l *Ledger) Option(id uint64) (Option, error) {
	o, ok := l.options.Get(id)
	if !ok {
		return Option{}, fmt.Errorf("%w: %d", ErrUnknownOption, id)
	}
	return o, nil
}

// CurrentBid returns the high bid of option id. A writer's bid includes the strike.
func (l *Ledger) CurrentBid(id uint64) (uint64, error) {
	o, err := l.Option(id)
	return o.Bid, err
}

// CurrentBidder returns the high bidder of option id, or the zero address.
func (l *Ledger) CurrentBidder(id uint64) (address.Address, error) {
	o, err := l.Option(id)
	return o.HighBidder, err
}

// ClaimBalance returns the unclaimed spread of option id.
func (l *Ledger) ClaimBalance(id uint64) uint64 { return l.claims.GetOrZero(id) }

// OptionCount returns the number of options minted.
func (l *Ledger) OptionCount() uint64 { return l.count.Get() }

// OpenOption returns the last option minted against (vault, assetID).
func (l *Ledger) OpenOption(vaultAddr address.Address, assetID uint64) (uint64, bool) {
	return l.slotOptions.Get(state.AddrID{Addr: vaultAddr, ID: assetID})
}

func (l *Ledger) self(c *host.Call) *host.Call { return c.As(l.addr) }

// whenMarketOpen rejects minting and bidding while either the protocol
// or the market is paused.
func (l *Ledger) whenMarketOpen() error {
	if err := l.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	if l.paused.Get() {
		return ErrMarketPaused
	}
	return nil
}
