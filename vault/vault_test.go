package vault

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/asset"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/state"
	"github.com/bitfsorg/coveredcall-go/wallet"
)

const (
	start        = int64(1_700_000_000)
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

var (
	deployer = address.Derive("deployer")
	alice    = address.Derive("alice")
	bob      = address.Derive("bob")
	operator = address.Derive("operator")
	pauser   = address.Derive("pauser")
)

type fixture struct {
	env      *host.Env
	clock    *host.ManualClock
	rec      *event.Recorder
	registry *config.Static
	nft      *asset.NFT
	factory  *Factory
	vault    *Vault
}

func newFixture(t *testing.T, backend state.Backend) *fixture {
	t.Helper()
	registry, err := config.NewStatic(config.ProtocolConfig{})
	require.NoError(t, err)
	registry.GrantRole(config.RolePauser, pauser)

	f := &fixture{clock: host.NewManualClock(start), rec: &event.Recorder{}, registry: registry}
	f.env = host.NewEnv(state.NewDB(backend), f.clock, host.WithSink(f.rec))
	f.nft = asset.NewNFT(f.env, "punks", deployer)
	f.factory = NewFactory(f.env, registry)

	require.NoError(t, f.env.Execute(deployer, func(c *host.Call) error {
		for id := uint64(1); id <= 3; id++ {
			if err := f.nft.Mint(c, alice, id); err != nil {
				return err
			}
		}
		v, err := f.factory.FindOrCreateMultiVault(c, f.nft.Address())
		f.vault = v
		return err
	}))
	f.rec.Reset()
	return f
}

func (f *fixture) deposit(who address.Address, id uint64, p *DepositPayload) error {
	return f.depositTo(f.vault, who, id, p)
}

func (f *fixture) depositTo(v *Vault, who address.Address, id uint64, p *DepositPayload) error {
	var data []byte
	if p != nil {
		var err error
		if data, err = EncodeDepositPayload(*p); err != nil {
			return err
		}
	}
	return f.env.Execute(who, func(c *host.Call) error {
		return f.nft.SafeTransferFrom(c, who, v.Address(), id, data)
	})
}

func (f *fixture) grant(who address.Address, id uint64, op address.Address, expiry int64) error {
	return f.env.Execute(who, func(c *host.Call) error {
		return f.vault.GrantEntitlement(c, Entitlement{
			BeneficialOwner: f.vault.BeneficialOwner(id),
			Operator:        op,
			Vault:           f.vault.Address(),
			AssetID:         id,
			Expiry:          expiry,
		})
	})
}

func (f *fixture) owner(t *testing.T, id uint64) address.Address {
	t.Helper()
	o, err := f.nft.OwnerOf(id)
	require.NoError(t, err)
	return o
}

func TestDeposit_PlainSetsBeneficialOwner(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.deposit(alice, 1, nil))

	assert.Equal(t, f.vault.Address(), f.owner(t, 1))
	assert.Equal(t, alice, f.vault.BeneficialOwner(1))
	assert.False(t, f.vault.HasActiveEntitlement(1, start))
	assert.Equal(t, []string{event.KindAssetReceived, event.KindBeneficialOwnerSet}, f.rec.Kinds())
}

func TestDeposit_WithEntitlement(t *testing.T) {
	f := newFixture(t, nil)
	e := Entitlement{BeneficialOwner: bob, Operator: operator, Vault: f.vault.Address(), AssetID: 1, Expiry: start + 100}

	require.NoError(t, f.deposit(alice, 1, &DepositPayload{Entitlement: &e}))

	assert.Equal(t, bob, f.vault.BeneficialOwner(1))
	got, ok := f.vault.CurrentEntitlement(1, start)
	require.True(t, ok)
	assert.Equal(t, e, got)
	assert.Equal(t, start+100, f.vault.EntitlementExpiration(1))
	assert.Contains(t, f.rec.Kinds(), event.KindEntitlementImposed)
}

func TestDeposit_RejectedPayloadRevertsTransfer(t *testing.T) {
	cases := []struct {
		name string
		e    func(v *Vault) Entitlement
		want error
	}{
		{"wrong asset", func(v *Vault) Entitlement {
			return Entitlement{BeneficialOwner: alice, Operator: operator, Vault: v.Address(), AssetID: 2, Expiry: start + 10}
		}, ErrEntitlementMismatch},
		{"wrong vault", func(*Vault) Entitlement {
			return Entitlement{BeneficialOwner: alice, Operator: operator, Vault: bob, AssetID: 1, Expiry: start + 10}
		}, ErrEntitlementMismatch},
		{"expiry now", func(v *Vault) Entitlement {
			return Entitlement{BeneficialOwner: alice, Operator: operator, Vault: v.Address(), AssetID: 1, Expiry: start}
		}, ErrExpiryNotFuture},
		{"no operator", func(v *Vault) Entitlement {
			return Entitlement{BeneficialOwner: alice, Vault: v.Address(), AssetID: 1, Expiry: start + 10}
		}, ErrZeroOperator},
		{"no owner", func(v *Vault) Entitlement {
			return Entitlement{Operator: operator, Vault: v.Address(), AssetID: 1, Expiry: start + 10}
		}, ErrZeroOwner},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			e := tc.e(f.vault)

			err := f.deposit(alice, 1, &DepositPayload{Entitlement: &e})
			require.ErrorIs(t, err, tc.want)

			assert.Equal(t, alice, f.owner(t, 1))
			assert.Equal(t, Slot{}, f.vault.Slot(1))
			assert.Empty(t, f.rec.Events())
		})
	}
}

func TestDeposit_GarbagePayload(t *testing.T) {
	f := newFixture(t, nil)
	err := f.env.Execute(alice, func(c *host.Call) error {
		return f.nft.SafeTransferFrom(c, alice, f.vault.Address(), 1, []byte("not gob"))
	})
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, alice, f.owner(t, 1))
}

func TestDeposit_HookCannotOverwriteRecordedSlot(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))
	require.NoError(t, f.grant(alice, 1, operator, start+100))
	before := f.vault.Slot(1)

	err := f.env.Execute(bob, func(c *host.Call) error {
		return f.vault.OnAssetReceived(c.As(f.nft.Address()), bob, bob, 1, nil)
	})
	require.ErrorIs(t, err, ErrAlreadyRecorded)
	assert.Equal(t, before, f.vault.Slot(1))
}

func TestGrantEntitlement_AtMostOneActive(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))

	require.NoError(t, f.grant(alice, 1, operator, start+100))
	err := f.grant(alice, 1, bob, start+200)
	require.ErrorIs(t, err, ErrEntitlementActive)

	got, ok := f.vault.CurrentEntitlement(1, start)
	require.True(t, ok)
	assert.Equal(t, operator, got.Operator)

	f.clock.Set(start + 100)
	assert.False(t, f.vault.HasActiveEntitlement(1, f.clock.Now()))
	require.NoError(t, f.grant(alice, 1, bob, start+200))
	got, ok = f.vault.CurrentEntitlement(1, f.clock.Now())
	require.True(t, ok)
	assert.Equal(t, bob, got.Operator)
}

func TestGrantEntitlement_Authorization(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, &DepositPayload{ApprovedOperator: bob}))
	assert.Equal(t, bob, f.vault.ApprovedOperator(1))

	err := f.grant(operator, 1, operator, start+100)
	require.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, f.grant(bob, 1, operator, start+100))
	assert.True(t, f.vault.HasActiveEntitlement(1, start))
}

func TestGrantEntitlement_OwnerMismatch(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))

	err := f.env.Execute(alice, func(c *host.Call) error {
		return f.vault.GrantEntitlement(c, Entitlement{
			BeneficialOwner: bob, Operator: operator, Vault: f.vault.Address(), AssetID: 1, Expiry: start + 5,
		})
	})
	require.ErrorIs(t, err, ErrOwnerMismatch)
}

func TestApproveOperator(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))

	err := f.env.Execute(bob, func(c *host.Call) error { return f.vault.ApproveOperator(c, bob, 1) })
	require.ErrorIs(t, err, ErrNotBeneficialOwner)

	require.NoError(t, f.env.Execute(alice, func(c *host.Call) error { return f.vault.ApproveOperator(c, bob, 1) }))
	assert.Equal(t, bob, f.vault.ApprovedOperator(1))
}

func TestGrantThenClearRestoresSlot(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))
	before := f.vault.Slot(1)

	require.NoError(t, f.grant(alice, 1, operator, start+100))
	require.NoError(t, f.env.Execute(operator, func(c *host.Call) error {
		return f.vault.ClearEntitlement(c, 1)
	}))

	assert.Equal(t, before, f.vault.Slot(1))
	assert.False(t, f.vault.HasActiveEntitlement(1, start))
}

func TestClearEntitlement(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))

	err := f.env.Execute(operator, func(c *host.Call) error { return f.vault.ClearEntitlement(c, 1) })
	require.ErrorIs(t, err, ErrNoEntitlement)

	require.NoError(t, f.grant(alice, 1, operator, start+100))
	err = f.env.Execute(alice, func(c *host.Call) error { return f.vault.ClearEntitlement(c, 1) })
	require.ErrorIs(t, err, ErrNotOperator)

	// The operator of record may still clear after expiry.
	f.clock.Set(start + 500)
	require.NoError(t, f.env.Execute(operator, func(c *host.Call) error { return f.vault.ClearEntitlement(c, 1) }))
	assert.Equal(t, Slot{BeneficialOwner: alice}, f.vault.Slot(1))
}

func TestClearEntitlementAndDistribute(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))
	require.NoError(t, f.grant(alice, 1, operator, start+100))

	err := f.env.Execute(operator, func(c *host.Call) error {
		return f.vault.ClearEntitlementAndDistribute(c, 1, bob)
	})
	require.ErrorIs(t, err, ErrReceiverNotOwner)
	assert.True(t, f.vault.HasActiveEntitlement(1, start))

	// A rejected receiver leaves the entitlement in place even when the
	// caller carries on with the operation.
	var inner error
	require.NoError(t, f.env.Execute(operator, func(c *host.Call) error {
		inner = f.vault.ClearEntitlementAndDistribute(c, 1, bob)
		return nil
	}))
	require.ErrorIs(t, inner, ErrReceiverNotOwner)
	assert.True(t, f.vault.HasActiveEntitlement(1, start))
	assert.Equal(t, operator, f.vault.Slot(1).Operator)

	require.NoError(t, f.env.Execute(operator, func(c *host.Call) error {
		if err := f.vault.SetBeneficialOwner(c, 1, bob); err != nil {
			return err
		}
		return f.vault.ClearEntitlementAndDistribute(c, 1, bob)
	}))
	assert.Equal(t, bob, f.owner(t, 1))
	assert.Equal(t, Slot{}, f.vault.Slot(1))
}

func TestSetBeneficialOwner(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, &DepositPayload{ApprovedOperator: operator}))

	setOwner := func(who, to address.Address) error {
		return f.env.Execute(who, func(c *host.Call) error { return f.vault.SetBeneficialOwner(c, 1, to) })
	}

	require.ErrorIs(t, setOwner(bob, bob), ErrNotBeneficialOwner)
	require.ErrorIs(t, setOwner(alice, address.Zero), ErrZeroOwner)
	require.NoError(t, setOwner(alice, bob))
	assert.Equal(t, bob, f.vault.BeneficialOwner(1))
	assert.True(t, f.vault.ApprovedOperator(1).IsZero())

	require.NoError(t, f.grant(bob, 1, operator, start+100))
	require.ErrorIs(t, setOwner(bob, alice), ErrNotOperator)
	require.NoError(t, setOwner(operator, alice))
	assert.Equal(t, alice, f.vault.BeneficialOwner(1))
	assert.True(t, f.vault.HasActiveEntitlement(1, start))
}

func TestImposeEntitlement(t *testing.T) {
	f := newFixture(t, nil)
	w, err := wallet.FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	signer, err := w.Identity(0)
	require.NoError(t, err)
	holder := signer.Address

	require.NoError(t, f.env.Execute(alice, func(c *host.Call) error {
		return f.nft.TransferFrom(c, alice, holder, 1)
	}))
	require.NoError(t, f.deposit(holder, 1, nil))

	e := Entitlement{BeneficialOwner: holder, Operator: operator, Vault: f.vault.Address(), AssetID: 1, Expiry: start + 60}
	sig, err := signer.SignEntitlement(e.Statement())
	require.NoError(t, err)

	impose := func(op address.Address, expiry int64) error {
		return f.env.Execute(bob, func(c *host.Call) error {
			return f.vault.ImposeEntitlement(c, op, expiry, 1, sig)
		})
	}

	require.ErrorIs(t, impose(bob, start+60), ErrInvalidSignature)
	require.ErrorIs(t, impose(operator, start+61), ErrInvalidSignature)
	require.NoError(t, impose(operator, start+60))
	assert.True(t, f.vault.HasActiveEntitlement(1, start))
	require.ErrorIs(t, impose(operator, start+60), ErrEntitlementActive)
}

func TestImposeEntitlement_NoOwner(t *testing.T) {
	f := newFixture(t, nil)
	err := f.env.Execute(bob, func(c *host.Call) error {
		return f.vault.ImposeEntitlement(c, operator, start+10, 1, make([]byte, 65))
	})
	require.ErrorIs(t, err, ErrNoBeneficialOwner)
}

func TestWithdrawalAsset(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.deposit(alice, 1, nil))
	require.NoError(t, f.grant(alice, 1, operator, start+100))

	withdraw := func(who address.Address) error {
		return f.env.Execute(who, func(c *host.Call) error { return f.vault.WithdrawalAsset(c, 1) })
	}

	require.ErrorIs(t, withdraw(alice), ErrEntitlementActive)

	f.clock.Set(start + 100)
	require.ErrorIs(t, withdraw(bob), ErrNotBeneficialOwner)
	require.NoError(t, withdraw(alice))

	assert.Equal(t, alice, f.owner(t, 1))
	assert.Equal(t, Slot{}, f.vault.Slot(1))
	assert.Contains(t, f.rec.Kinds(), event.KindAssetWithdrawn)
}

func TestAirdrops(t *testing.T) {
	f := newFixture(t, nil)
	other := asset.NewNFT(f.env, "badges", deployer)
	require.NoError(t, f.env.Execute(deployer, func(c *host.Call) error { return other.Mint(c, alice, 9) }))

	send := func() error {
		return f.env.Execute(alice, func(c *host.Call) error {
			return other.SafeTransferFrom(c, alice, f.vault.Address(), 9, nil)
		})
	}

	require.ErrorIs(t, send(), ErrAirdropsDisabled)

	f.registry.SetCollectionConfig(f.nft.Address(), config.KeyAirdropsAllowed, true)
	require.NoError(t, send())

	owner, err := other.OwnerOf(9)
	require.NoError(t, err)
	assert.Equal(t, f.vault.Address(), owner)
	assert.Equal(t, Slot{}, f.vault.Slot(9))
}

func TestSoloVault(t *testing.T) {
	f := newFixture(t, nil)
	var solo *Vault
	require.NoError(t, f.env.Execute(alice, func(c *host.Call) error {
		var err error
		solo, err = f.factory.FindOrCreateSoloVault(c, f.nft.Address(), 2)
		return err
	}))
	assert.True(t, solo.IsSolo())
	assert.Equal(t, SoloVaultAddress(f.nft.Address(), 2), solo.Address())

	require.ErrorIs(t, f.depositTo(solo, alice, 3, nil), ErrAirdropsDisabled)
	require.NoError(t, f.depositTo(solo, alice, 2, nil))
	assert.Equal(t, alice, solo.BeneficialOwner(2))

	err := f.env.Execute(alice, func(c *host.Call) error {
		return solo.GrantEntitlement(c, Entitlement{BeneficialOwner: alice, Operator: operator, Vault: solo.Address(), AssetID: 3, Expiry: start + 1})
	})
	require.ErrorIs(t, err, ErrWrongAsset)
}

func TestFactory_FindOrCreateIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.env.Execute(alice, func(c *host.Call) error {
		again, err := f.factory.FindOrCreateMultiVault(c, f.nft.Address())
		require.NoError(t, err)
		assert.Same(t, f.vault, again)

		s1, err := f.factory.FindOrCreateSoloVault(c, f.nft.Address(), 1)
		require.NoError(t, err)
		s2, err := f.factory.FindOrCreateSoloVault(c, f.nft.Address(), 1)
		require.NoError(t, err)
		assert.Same(t, s1, s2)
		assert.NotEqual(t, f.vault.Address(), s1.Address())
		return nil
	}))

	_, err := f.factory.Lookup(bob)
	require.ErrorIs(t, err, ErrUnknownVault)

	err = f.env.Execute(alice, func(c *host.Call) error {
		_, err := f.factory.FindOrCreateMultiVault(c, bob)
		return err
	})
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestFactory_RestoreFromBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	backend, err := state.OpenBoltBackend(path)
	require.NoError(t, err)

	f := newFixture(t, backend)
	require.NoError(t, f.deposit(alice, 1, nil))
	require.NoError(t, f.grant(alice, 1, operator, start+100))
	vaultAddr := f.vault.Address()
	require.NoError(t, f.env.DB().Close())

	backend, err = state.OpenBoltBackend(path)
	require.NoError(t, err)
	db := state.NewDB(backend)
	defer db.Close()
	env := host.NewEnv(db, host.NewManualClock(start))
	registry, err := config.NewStatic(config.ProtocolConfig{})
	require.NoError(t, err)
	asset.NewNFT(env, "punks", deployer)
	factory := NewFactory(env, registry)
	require.NoError(t, db.Load())
	require.NoError(t, factory.Restore())

	v, err := factory.Lookup(vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, alice, v.BeneficialOwner(1))
	assert.True(t, v.HasActiveEntitlement(1, start))
	assert.True(t, v.InCustody(1))
}

func TestPause(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.registry.SetPaused(pauser, true))

	require.ErrorIs(t, f.deposit(alice, 1, nil), config.ErrProtocolPaused)
	assert.Equal(t, alice, f.owner(t, 1))

	require.NoError(t, f.registry.SetPaused(pauser, false))
	require.NoError(t, f.deposit(alice, 1, nil))
}

type flashReceiver struct {
	addr    address.Address
	nft     *asset.NFT
	refuse  bool
	keep    bool
	during  func(c *host.Call)
	holding bool
}

func (r *flashReceiver) ExecuteOperation(c *host.Call, _ address.Address, assetID uint64, _, vault address.Address, _ []byte) bool {
	owner, err := r.nft.OwnerOf(assetID)
	r.holding = err == nil && owner == r.addr
	if r.during != nil {
		r.during(c)
	}
	if r.refuse {
		return false
	}
	if r.keep {
		return true
	}
	return r.nft.Approve(c, vault, assetID) == nil
}

func newFlashFixture(t *testing.T) (*fixture, *flashReceiver) {
	t.Helper()
	f := newFixture(t, nil)
	f.registry.SetCollectionConfig(f.nft.Address(), config.KeyFlashLoansEnabled, true)
	require.NoError(t, f.deposit(alice, 1, nil))
	require.NoError(t, f.grant(alice, 1, operator, start+100))
	r := &flashReceiver{addr: address.Derive("borrower"), nft: f.nft}
	f.env.Register(r.addr, r)
	f.rec.Reset()
	return f, r
}

func (f *fixture) flash(who address.Address, r *flashReceiver) error {
	return f.env.Execute(who, func(c *host.Call) error {
		return f.vault.FlashLoan(c, 1, r.addr, []byte("params"))
	})
}

func TestFlashLoan_LeavesSlotUnchanged(t *testing.T) {
	f, r := newFlashFixture(t)
	before := f.vault.Slot(1)

	require.NoError(t, f.flash(alice, r))

	assert.True(t, r.holding)
	assert.Equal(t, before, f.vault.Slot(1))
	assert.Equal(t, f.vault.Address(), f.owner(t, 1))
	assert.Equal(t, []string{event.KindAssetFlashLoaned}, f.rec.Kinds())
}

func TestFlashLoan_Failures(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f, r := newFlashFixture(t)
		f.registry.SetCollectionConfig(f.nft.Address(), config.KeyFlashLoansEnabled, false)
		require.ErrorIs(t, f.flash(alice, r), ErrFlashLoansDisabled)
	})
	t.Run("not owner", func(t *testing.T) {
		f, r := newFlashFixture(t)
		require.ErrorIs(t, f.flash(bob, r), ErrNotBeneficialOwner)
	})
	t.Run("no receiver", func(t *testing.T) {
		f, _ := newFlashFixture(t)
		err := f.env.Execute(alice, func(c *host.Call) error { return f.vault.FlashLoan(c, 1, bob, nil) })
		require.ErrorIs(t, err, ErrNotFlashLoanReceiver)
	})
	t.Run("callback refuses", func(t *testing.T) {
		f, r := newFlashFixture(t)
		r.refuse = true
		require.ErrorIs(t, f.flash(alice, r), ErrFlashLoanFailed)
		assert.Equal(t, f.vault.Address(), f.owner(t, 1))
	})
	t.Run("not returned", func(t *testing.T) {
		f, r := newFlashFixture(t)
		r.keep = true
		require.ErrorIs(t, f.flash(alice, r), ErrFlashLoanNotReturned)
		assert.Equal(t, f.vault.Address(), f.owner(t, 1))
	})
	t.Run("slot changed", func(t *testing.T) {
		f, r := newFlashFixture(t)
		r.during = func(c *host.Call) {
			_ = f.vault.ApproveOperator(c.As(alice), bob, 1)
		}
		require.ErrorIs(t, f.flash(alice, r), ErrFlashLoanStateChanged)
		assert.True(t, f.vault.ApprovedOperator(1).IsZero())
	})
}

func TestFlashLoan_Reentry(t *testing.T) {
	f, r := newFlashFixture(t)
	var inner error
	r.during = func(c *host.Call) {
		inner = f.vault.FlashLoan(c.As(alice), 1, r.addr, nil)
	}

	require.NoError(t, f.flash(alice, r))
	require.ErrorIs(t, inner, host.ErrReentrant)
}

func TestFlashLoan_CallbackCannotTouchOtherAssets(t *testing.T) {
	f, r := newFlashFixture(t)
	require.NoError(t, f.deposit(alice, 2, nil))
	require.NoError(t, f.env.Execute(alice, func(c *host.Call) error {
		return f.vault.SetBeneficialOwner(c, 2, bob)
	}))
	before := f.vault.Slot(2)

	var caller address.Address
	var transferErr, selfTransferErr error
	r.during = func(c *host.Call) {
		caller = c.Caller()
		transferErr = f.nft.TransferFrom(c, f.vault.Address(), r.addr, 2)
		data, err := EncodeDepositPayload(DepositPayload{ApprovedOperator: r.addr})
		require.NoError(t, err)
		selfTransferErr = f.nft.SafeTransferFrom(c, f.vault.Address(), f.vault.Address(), 2, data)
	}

	require.NoError(t, f.flash(alice, r))
	assert.Equal(t, r.addr, caller)
	assert.ErrorIs(t, transferErr, asset.ErrNotOwnerOrApproved)
	assert.ErrorIs(t, selfTransferErr, asset.ErrNotOwnerOrApproved)
	assert.Equal(t, f.vault.Address(), f.owner(t, 2))
	assert.Equal(t, before, f.vault.Slot(2))
	assert.Equal(t, bob, f.vault.BeneficialOwner(2))
}
