package protocol

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/vault"
	"github.com/bitfsorg/coveredcall-go/wallet"
)

const (
	start = int64(1_700_000_000)
	day   = int64(24 * 60 * 60)
)

var (
	minter = address.Derive("minter")
	writer = address.Derive("writer")
	bidder = address.Derive("bidder")
	punks  = address.Derive("nft", []byte("punks"))
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(dir, "logs", "protocol.log")
	cfg.Protocol.Collections = map[string]map[string]bool{
		punks.Hex(): {config.KeyOptionsAllowed: true},
	}
	return cfg
}

func TestOpen_PersistsAcrossRestart(t *testing.T) {
	cfg := testConfig(t)
	clock := host.NewManualClock(start)

	p, err := Open(cfg, WithClock(clock), WithCollection("punks", minter))
	require.NoError(t, err)
	nft, ok := p.Collection("punks")
	require.True(t, ok)
	assert.Equal(t, punks, nft.Address())
	assert.Equal(t, p.Wrapper.Address(), p.Registry.WrapperAsset())

	require.NoError(t, p.Execute(minter, func(c *host.Call) error {
		return nft.Mint(c, writer, 7)
	}))
	require.NoError(t, p.Execute(bidder, func(c *host.Call) error {
		return p.Env.Bank().Credit(c, bidder, 10_000)
	}))
	var id uint64
	require.NoError(t, p.Execute(writer, func(c *host.Call) error {
		if err := nft.SetApprovalForAll(c, p.Ledger.Address(), true); err != nil {
			return err
		}
		id, err = p.Ledger.MintWithAsset(c, punks, 7, 1000, start+3*day)
		return err
	}))
	require.NoError(t, p.Close())

	p, err = Open(cfg, WithClock(clock), WithCollection("punks", minter))
	require.NoError(t, err)
	defer p.Close()
	nft, _ = p.Collection("punks")

	o, err := p.Ledger.Option(id)
	require.NoError(t, err)
	assert.Equal(t, writer, o.Writer)
	assert.Equal(t, uint64(1000), o.Strike)
	assert.Equal(t, uint64(10_000), p.Env.Bank().BalanceOf(bidder))

	v, err := p.Vaults.Lookup(vault.MultiVaultAddress(punks))
	require.NoError(t, err)
	assert.True(t, v.HasActiveEntitlement(7, clock.Now()))
	assert.Equal(t, writer, v.BeneficialOwner(7))
	holder, err := p.Ledger.Rights().OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, writer, holder)

	clock.Set(start + 3*day - day/2)
	require.NoError(t, p.Execute(bidder, func(c *host.Call) error {
		return p.Ledger.Bid(c, id, 1001)
	}))
	clock.Set(start + 3*day)
	require.NoError(t, p.Execute(writer, func(c *host.Call) error {
		return p.Ledger.SettleOption(c, id, true)
	}))

	owner, err := nft.OwnerOf(7)
	require.NoError(t, err)
	assert.Equal(t, bidder, owner)
	assert.Equal(t, uint64(1001), p.Env.Bank().BalanceOf(writer))
	assert.Equal(t, uint64(10_000-1001), p.Env.Bank().BalanceOf(bidder))

	expected := `
# HELP coveredcall_auction_bid_volume_total Sum of recorded bid amounts.
# TYPE coveredcall_auction_bid_volume_total counter
coveredcall_auction_bid_volume_total 1001
`
	require.NoError(t, testutil.GatherAndCompare(p.Metrics, strings.NewReader(expected),
		"coveredcall_auction_bid_volume_total"))

	logged, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "protocol opened")
	assert.Contains(t, string(logged), event.KindSettled)
}

func TestOpen_MintWithSignedEntitlement(t *testing.T) {
	cfg := testConfig(t)
	kdf := wallet.KDF{Time: 1, MemoryKiB: 1024, Parallelism: 1}
	seed, err := wallet.SeedFromMnemonic(
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "")
	require.NoError(t, err)
	require.NoError(t, wallet.Create(cfg.DataDir, seed, "pw", kdf))
	w, err := wallet.Open(cfg.DataDir, "pw", kdf)
	require.NoError(t, err)
	signer, err := w.Identity(0)
	require.NoError(t, err)
	owner := signer.Address

	p, err := Open(cfg, WithClock(host.NewManualClock(start)), WithCollection("punks", minter))
	require.NoError(t, err)
	defer p.Close()
	nft, _ := p.Collection("punks")
	vaultAddr := vault.MultiVaultAddress(punks)

	require.NoError(t, p.Execute(minter, func(c *host.Call) error {
		return nft.Mint(c, owner, 3)
	}))
	require.NoError(t, p.Execute(owner, func(c *host.Call) error {
		if _, err := p.Vaults.FindOrCreateMultiVault(c, punks); err != nil {
			return err
		}
		return nft.SafeTransferFrom(c, owner, vaultAddr, 3, nil)
	}))

	expiration := start + 3*day
	e := vault.Entitlement{
		BeneficialOwner: owner,
		Operator:        p.Ledger.Address(),
		Vault:           vaultAddr,
		AssetID:         3,
		Expiry:          expiration,
	}
	sig, err := signer.SignEntitlement(e.Statement())
	require.NoError(t, err)

	var id uint64
	require.NoError(t, p.Execute(owner, func(c *host.Call) error {
		id, err = p.Ledger.MintWithVault(c, vaultAddr, 3, 1000, expiration, sig)
		return err
	}))

	o, err := p.Ledger.Option(id)
	require.NoError(t, err)
	assert.Equal(t, owner, o.Writer)
	v, err := p.Vaults.Lookup(vaultAddr)
	require.NoError(t, err)
	got, ok := v.CurrentEntitlement(3, start)
	require.True(t, ok)
	assert.Equal(t, e, got)
}

func TestOpen_ExtraSink(t *testing.T) {
	rec := &event.Recorder{}
	p, err := Open(testConfig(t), WithClock(host.NewManualClock(start)),
		WithCollection("punks", minter), WithSink(rec))
	require.NoError(t, err)
	defer p.Close()

	nft, _ := p.Collection("punks")
	require.NoError(t, p.Execute(minter, func(c *host.Call) error {
		return nft.Mint(c, writer, 1)
	}))
	require.NoError(t, p.Execute(writer, func(c *host.Call) error {
		_, err := p.Vaults.FindOrCreateMultiVault(c, punks)
		if err != nil {
			return err
		}
		return nft.SafeTransferFrom(c, writer, vault.MultiVaultAddress(punks), 1, nil)
	}))
	assert.Contains(t, rec.Kinds(), event.KindAssetReceived)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.DataDir = ""
		_, err := Open(cfg)
		assert.ErrorIs(t, err, config.ErrEmptyDataDir)
	})

	t.Run("invalid market", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Market.AuctionWindow = cfg.Market.MinOptionDuration + 1
		_, err := Open(cfg)
		assert.ErrorIs(t, err, config.ErrInvalidAuctionWindow)
	})

	t.Run("duplicate collection", func(t *testing.T) {
		_, err := Open(testConfig(t), WithCollection("punks", minter), WithCollection("punks", minter))
		assert.ErrorIs(t, err, ErrDuplicateCollection)
	})
}

func TestClose(t *testing.T) {
	p, err := Open(testConfig(t))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err = p.Execute(writer, func(*host.Call) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}
