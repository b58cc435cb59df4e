package vault

import (
	"encoding/binary"
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/asset"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/state"
)

// record is the persisted description of a deployed vault.
type record struct {
	Collection address.Address
	Solo       bool
	AssetID    uint64
}

// Factory deploys vaults and finds existing ones. There is at most one
// multi vault per collection and one solo vault per (collection, asset).
type Factory struct {
	env      *host.Env
	registry config.Registry
	slots    *state.Table[state.AddrID, Slot]
	vaults   *state.Table[address.Address, record]
	multi    *state.Table[address.Address, address.Address]
	solo     *state.Table[state.AddrID, address.Address]
	live     map[address.Address]*Vault
}

// NewFactory creates the vault factory and its tables on env.
func NewFactory(env *host.Env, registry config.Registry) *Factory {
	db := env.DB()
	return &Factory{
		env:      env,
		registry: registry,
		slots:    state.NewTable[state.AddrID, Slot](db, "slots", state.AddrIDKey),
		vaults:   state.NewTable[address.Address, record](db, "vaults", state.AddressKey),
		multi:    state.NewTable[address.Address, address.Address](db, "vaults_multi", state.AddressKey),
		solo:     state.NewTable[state.AddrID, address.Address](db, "vaults_solo", state.AddrIDKey),
		live:     make(map[address.Address]*Vault),
	}
}

// MultiVaultAddress returns the deterministic address of collection's
// multi vault.
func MultiVaultAddress(collection address.Address) address.Address {
	return address.Derive("vault", collection[:])
}

// SoloVaultAddress returns the deterministic address of the solo vault for
// one asset.
func SoloVaultAddress(collection address.Address, assetID uint64) address.Address {
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], assetID)
	return address.Derive("vault", collection[:], id[:])
}

// FindOrCreateMultiVault returns collection's multi vault, deploying it on
// first use.
func (f *Factory) FindOrCreateMultiVault(c *host.Call, collection address.Address) (*Vault, error) {
	if addr, ok := f.multi.Get(collection); ok {
		return f.Lookup(addr)
	}
	rec := record{Collection: collection}
	v, err := f.deploy(MultiVaultAddress(collection), rec)
	if err != nil {
		return nil, err
	}
	f.vaults.Set(v.addr, rec)
	f.multi.Set(collection, v.addr)
	c.Logger().Debug().Stringer("vault", v.addr).Stringer("collection", collection).Msg("multi vault created")
	return v, nil
}

// FindOrCreateSoloVault returns the solo vault for (collection, assetID),
// deploying it on first use.
func (f *Factory) FindOrCreateSoloVault(c *host.Call, collection address.Address, assetID uint64) (*Vault, error) {
	key := state.AddrID{Addr: collection, ID: assetID}
	if addr, ok := f.solo.Get(key); ok {
		return f.Lookup(addr)
	}
	rec := record{Collection: collection, Solo: true, AssetID: assetID}
	v, err := f.deploy(SoloVaultAddress(collection, assetID), rec)
	if err != nil {
		return nil, err
	}
	f.vaults.Set(v.addr, rec)
	f.solo.Set(key, v.addr)
	c.Logger().Debug().Stringer("vault", v.addr).Stringer("collection", collection).Uint64("asset", assetID).Msg("solo vault created")
	return v, nil
}

// Lookup returns the vault deployed at addr.
func (f *Factory) Lookup(addr address.Address) (*Vault, error) {
	rec, ok := f.vaults.Get(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVault, addr)
	}
	if v, ok := f.live[addr]; ok {
		return v, nil
	}
	return f.deploy(addr, rec)
}

// Restore re-attaches every persisted vault to the environment. Call it
// after state.DB.Load.
func (f *Factory) Restore() error {
	var err error
	f.vaults.Range(func(addr address.Address, rec record) bool {
		_, err = f.deploy(addr, rec)
		return err == nil
	})
	return err
}

// deploy builds the vault object and registers it. Calling it again for
// the same address is harmless, which keeps the directory consistent with
// reverted operations.
func (f *Factory) deploy(addr address.Address, rec record) (*Vault, error) {
	if v, ok := f.live[addr]; ok {
		return v, nil
	}
	coll, ok := host.Lookup[asset.Collection](f.env, rec.Collection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, rec.Collection)
	}
	v := &Vault{
		addr:       addr,
		collection: coll,
		registry:   f.registry,
		slots:      f.slots,
		solo:       rec.Solo,
		soloID:     rec.AssetID,
	}
	f.live[addr] = v
	f.env.Register(addr, v)
	return v, nil
}
