package vault

import "errors"

// Authorization failures.
var (
	// ErrNotBeneficialOwner indicates the caller is not the slot's beneficial owner.
	ErrNotBeneficialOwner = errors.New("vault: caller is not the beneficial owner")

	// ErrNotOperator indicates the caller is not the slot's entitlement operator.
	ErrNotOperator = errors.New("vault: caller is not the entitlement operator")

	// ErrNotAuthorized indicates the caller is neither the beneficial owner nor
	// the slot's pre-approved operator.
	ErrNotAuthorized = errors.New("vault: caller is not the beneficial owner or approved operator")
)

// State-precondition failures.
var (
	// ErrNoBeneficialOwner indicates the slot holds no deposited asset.
	ErrNoBeneficialOwner = errors.New("vault: asset has no beneficial owner")

	// ErrEntitlementActive indicates an entitlement is already active on the slot.
	ErrEntitlementActive = errors.New("vault: an entitlement is already active")

	// ErrAlreadyRecorded indicates a deposit hook for an asset whose slot
	// is already recorded.
	ErrAlreadyRecorded = errors.New("vault: asset already recorded in custody")

	// ErrNoEntitlement indicates the slot has no entitlement to clear.
	ErrNoEntitlement = errors.New("vault: no entitlement recorded")

	// ErrUnknownCollection indicates no collection is deployed at the address.
	ErrUnknownCollection = errors.New("vault: unknown collection")

	// ErrUnknownVault indicates no vault is deployed at the address.
	ErrUnknownVault = errors.New("vault: unknown vault")

	// ErrWrongAsset indicates a solo vault was asked about another asset id.
	ErrWrongAsset = errors.New("vault: asset is not held by this solo vault")
)

// Validation failures.
var (
	// ErrExpiryNotFuture indicates an entitlement expiry is not strictly in the future.
	ErrExpiryNotFuture = errors.New("vault: entitlement expiry must be in the future")

	// ErrZeroOperator indicates an entitlement without an operator.
	ErrZeroOperator = errors.New("vault: entitlement operator must be set")

	// ErrZeroOwner indicates an attempt to set the null beneficial owner.
	ErrZeroOwner = errors.New("vault: beneficial owner must be set")

	// ErrEntitlementMismatch indicates an entitlement names another vault or asset.
	ErrEntitlementMismatch = errors.New("vault: entitlement does not match this vault and asset")

	// ErrOwnerMismatch indicates an entitlement names someone other than the
	// current beneficial owner.
	ErrOwnerMismatch = errors.New("vault: entitlement beneficial owner does not match")

	// ErrReceiverNotOwner indicates a distribution to someone other than the
	// beneficial owner.
	ErrReceiverNotOwner = errors.New("vault: receiver is not the beneficial owner")

	// ErrInvalidSignature indicates the entitlement signature does not recover
	// to the beneficial owner.
	ErrInvalidSignature = errors.New("vault: invalid entitlement signature")

	// ErrInvalidPayload indicates deposit data that cannot be decoded.
	ErrInvalidPayload = errors.New("vault: invalid deposit payload")
)

// Invariant and feature failures.
var (
	// ErrNotInCustody indicates the vault does not hold the asset.
	ErrNotInCustody = errors.New("vault: asset is not in custody")

	// ErrAirdropsDisabled indicates an unexpected asset arrived and the
	// collection does not accept airdrops.
	ErrAirdropsDisabled = errors.New("vault: airdrops are not accepted")

	// ErrFlashLoansDisabled indicates flash loans are disabled for the collection.
	ErrFlashLoansDisabled = errors.New("vault: flash loans are disabled")

	// ErrNotFlashLoanReceiver indicates the loan receiver cannot run a callback.
	ErrNotFlashLoanReceiver = errors.New("vault: receiver does not implement the flash loan callback")

	// ErrFlashLoanFailed indicates the flash loan callback reported failure.
	ErrFlashLoanFailed = errors.New("vault: flash loan callback failed")

	// ErrFlashLoanNotReturned indicates the asset could not be pulled back.
	ErrFlashLoanNotReturned = errors.New("vault: flash loaned asset was not returned")

	// ErrFlashLoanStateChanged indicates the custody record changed during a loan.
	ErrFlashLoanStateChanged = errors.New("vault: custody record changed during flash loan")
)
