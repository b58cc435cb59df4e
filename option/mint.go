package option

import (
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/asset"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/state"
	"github.com/bitfsorg/coveredcall-go/vault"
)

// MintWithAsset deposits an asset the caller controls into its
// collection's multi vault with an entitlement naming the ledger, and
// mints an option on it. The asset owner is the writer. The ledger must be
// approved to move the asset.
func (l *Ledger) MintWithAsset(c *host.Call, collection address.Address, assetID, strike uint64, expiration int64) (uint64, error) {
	var id uint64
	err := l.guard.Run(func() error {
		if err := l.whenMarketOpen(); err != nil {
			return err
		}
		if err := l.checkCollection(collection); err != nil {
			return err
		}
		coll, ok := host.Lookup[asset.Collection](l.env, collection)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
		}
		owner, err := coll.OwnerOf(assetID)
		if err != nil {
			return err
		}
		caller := c.Caller()
		if caller != owner && coll.GetApproved(assetID) != caller && !coll.IsApprovedForAll(owner, caller) {
			return fmt.Errorf("%w: %s on asset %d", ErrNotAuthorized, caller, assetID)
		}
		if err := l.checkExpiration(c, expiration); err != nil {
			return err
		}

		v, err := l.vaults.FindOrCreateMultiVault(l.self(c), collection)
		if err != nil {
			return err
		}
		if err := l.checkPriorSettled(v.Address(), assetID); err != nil {
			return err
		}
		data, err := vault.EncodeDepositPayload(vault.DepositPayload{
			Entitlement: &vault.Entitlement{
				BeneficialOwner: owner,
				Operator:        l.addr,
				Vault:           v.Address(),
				AssetID:         assetID,
				Expiry:          expiration,
			},
		})
		if err != nil {
			return err
		}
		if err := coll.SafeTransferFrom(l.self(c), owner, v.Address(), assetID, data); err != nil {
			return err
		}
		id = l.register(c, owner, v.Address(), assetID, strike, expiration)
		return nil
	})
	return id, err
}

// MintWithVault mints an option on an asset already in vaultAddr. The
// signature authorizes the ledger's entitlement and must come from the
// beneficial owner, who becomes the writer.
func (l *Ledger) MintWithVault(c *host.Call, vaultAddr address.Address, assetID, strike uint64, expiration int64, sig []byte) (uint64, error) {
	var id uint64
	err := l.guard.Run(func() error {
		if err := l.whenMarketOpen(); err != nil {
			return err
		}
		v, owner, err := l.vaulted(c, vaultAddr, assetID)
		if err != nil {
			return err
		}
		if err := l.checkExpiration(c, expiration); err != nil {
			return err
		}
		if err := l.checkPriorSettled(vaultAddr, assetID); err != nil {
			return err
		}
		if err := v.ImposeEntitlement(l.self(c), l.addr, expiration, assetID, sig); err != nil {
			return err
		}
		id = l.register(c, owner, vaultAddr, assetID, strike, expiration)
		return nil
	})
	return id, err
}

// MintWithEntitledVault mints an option on a vaulted asset whose active
// entitlement already names the ledger and expires at expiration.
func (l *Ledger) MintWithEntitledVault(c *host.Call, vaultAddr address.Address, assetID, strike uint64, expiration int64) (uint64, error) {
	var id uint64
	err := l.guard.Run(func() error {
		if err := l.whenMarketOpen(); err != nil {
			return err
		}
		v, owner, err := l.vaulted(c, vaultAddr, assetID)
		if err != nil {
			return err
		}
		e, ok := v.CurrentEntitlement(assetID, c.Now())
		if !ok {
			return fmt.Errorf("%w: asset %d", ErrNoEntitlement, assetID)
		}
		if e.Operator != l.addr || e.Expiry != expiration {
			return fmt.Errorf("%w: operator %s expiry %d", ErrEntitlementMismatch, e.Operator, e.Expiry)
		}
		if err := l.checkExpiration(c, expiration); err != nil {
			return err
		}
		if err := l.checkPriorSettled(vaultAddr, assetID); err != nil {
			return err
		}
		id = l.register(c, owner, vaultAddr, assetID, strike, expiration)
		return nil
	})
	return id, err
}

// vaulted resolves a vault for the two vault-backed mint paths and checks
// the caller may write on the asset.
func (l *Ledger) vaulted(c *host.Call, vaultAddr address.Address, assetID uint64) (*vault.Vault, address.Address, error) {
	v, err := l.vaults.Lookup(vaultAddr)
	if err != nil {
		return nil, address.Zero, err
	}
	if err := l.checkCollection(v.Collection()); err != nil {
		return nil, address.Zero, err
	}
	if !v.InCustody(assetID) {
		return nil, address.Zero, fmt.Errorf("%w: asset %d in %s", ErrNotInCustody, assetID, vaultAddr)
	}
	owner := v.BeneficialOwner(assetID)
	caller := c.Caller()
	if owner.IsZero() || (caller != owner && caller != v.ApprovedOperator(assetID)) {
		return nil, address.Zero, fmt.Errorf("%w: %s on asset %d", ErrNotAuthorized, caller, assetID)
	}
	return v, owner, nil
}

func (l *Ledger) checkCollection(collection address.Address) error {
	if !l.registry.CollectionConfig(collection, config.KeyOptionsAllowed) {
		return fmt.Errorf("%w: %s", ErrCollectionNotAllowed, collection)
	}
	return nil
}

func (l *Ledger) checkExpiration(c *host.Call, expiration int64) error {
	if lead := l.Market().MinOptionDuration; expiration <= c.Now()+lead {
		return fmt.Errorf("%w: expiration %d, need after %d", ErrExpirationTooSoon, expiration, c.Now()+lead)
	}
	return nil
}

func (l *Ledger) checkPriorSettled(vaultAddr address.Address, assetID uint64) error {
	prior, ok := l.OpenOption(vaultAddr, assetID)
	if !ok {
		return nil
	}
	if o, _ := l.options.Get(prior); !o.Settled {
		return fmt.Errorf("%w: option %d", ErrPriorOptionOpen, prior)
	}
	return nil
}

// register stores a new option and mints its rights token to writer.
func (l *Ledger) register(c *host.Call, writer, vaultAddr address.Address, assetID, strike uint64, expiration int64) uint64 {
	id := l.count.Get() + 1
	l.count.Set(id)
	l.options.Set(id, Option{
		Writer:     writer,
		Expiration: expiration,
		AssetID:    assetID,
		Vault:      vaultAddr,
		Strike:     strike,
	})
	l.slotOptions.Set(state.AddrID{Addr: vaultAddr, ID: assetID}, id)
	l.rights.mint(writer, id)
	c.Emit(event.OptionCreated{
		Writer:     writer,
		Vault:      vaultAddr,
		AssetID:    assetID,
		OptionID:   id,
		Strike:     strike,
		Expiration: expiration,
	})
	return id
}
