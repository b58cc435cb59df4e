package option

import (
	"fmt"

	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
)

// Setting names as they appear in SettingsChanged events.
const (
	SettingMinOptionDuration = "min_option_duration"
	SettingAuctionWindow     = "settlement_auction_start_offset"
	SettingBidIncrement      = "min_bid_increment_bips"
	SettingMarketPaused      = "market_paused"
)

// Market returns the settings currently in force.
func (l *Ledger) Market() config.MarketConfig {
	m := l.defaults
	if v, ok := l.settings.Get(SettingMinOptionDuration); ok {
		m.MinOptionDuration = v
	}
	if v, ok := l.settings.Get(SettingAuctionWindow); ok {
		m.AuctionWindow = v
	}
	if v, ok := l.settings.Get(SettingBidIncrement); ok {
		m.MinBidIncrementBips = uint64(v)
	}
	return m
}

// MarketPaused reports whether minting and bidding are paused.
func (l *Ledger) MarketPaused() bool { return l.paused.Get() }

// SetMinOptionDuration sets the lead time an expiration must exceed at
// mint. It may not drop below the auction window.
func (l *Ledger) SetMinOptionDuration(c *host.Call, seconds int64) error {
	return l.update(c, SettingMinOptionDuration, seconds, func(m *config.MarketConfig) {
		m.MinOptionDuration = seconds
	})
}

// SetSettlementAuctionStartOffset sets how long before expiration bidding
// opens. It may not exceed the minimum duration.
func (l *Ledger) SetSettlementAuctionStartOffset(c *host.Call, seconds int64) error {
	return l.update(c, SettingAuctionWindow, seconds, func(m *config.MarketConfig) {
		m.AuctionWindow = seconds
	})
}

// SetBidIncrement sets the minimum raise in basis points of the current bid.
func (l *Ledger) SetBidIncrement(c *host.Call, bips uint64) error {
	if bips > config.MaxBidIncrementBips {
		return fmt.Errorf("option: %w: got %d", config.ErrInvalidBidIncrement, bips)
	}
	return l.update(c, SettingBidIncrement, int64(bips), func(m *config.MarketConfig) {
		m.MinBidIncrementBips = bips
	})
}

// SetMarketPaused pauses or resumes minting and bidding.
func (l *Ledger) SetMarketPaused(c *host.Call, paused bool) error {
	if !l.registry.HasRole(config.RoleMarketConf, c.Caller()) {
		return fmt.Errorf("%w: %s", ErrNotMarketConf, c.Caller())
	}
	l.paused.Set(paused)
	var v int64
	if paused {
		v = 1
	}
	c.Emit(event.SettingsChanged{Setting: SettingMarketPaused, Value: v})
	return nil
}

func (l *Ledger) update(c *host.Call, name string, value int64, apply func(*config.MarketConfig)) error {
	if !l.registry.HasRole(config.RoleMarketConf, c.Caller()) {
		return fmt.Errorf("%w: %s", ErrNotMarketConf, c.Caller())
	}
	m := l.Market()
	apply(&m)
	if err := config.ValidateMarket(m); err != nil {
		return fmt.Errorf("option: %w", err)
	}
	l.settings.Set(name, value)
	c.Emit(event.SettingsChanged{Setting: name, Value: value})
	return nil
}
