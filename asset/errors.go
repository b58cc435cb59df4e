package asset

import "errors"

var (
	// ErrNonexistentAsset indicates the asset id was never minted.
	ErrNonexistentAsset = errors.New("asset: nonexistent asset")

	// ErrAssetExists indicates a mint for an id that already has an owner.
	ErrAssetExists = errors.New("asset: asset already minted")

	// ErrNotMinter indicates the caller may not mint in this collection.
	ErrNotMinter = errors.New("asset: caller is not the minter")

	// ErrNotOwnerOrApproved indicates the caller may not move or approve the asset.
	ErrNotOwnerOrApproved = errors.New("asset: caller is not owner nor approved")

	// ErrWrongFrom indicates the from identity does not own the asset.
	ErrWrongFrom = errors.New("asset: transfer from incorrect owner")

	// ErrZeroRecipient indicates a transfer to the null identity.
	ErrZeroRecipient = errors.New("asset: transfer to the zero address")

	// ErrNotReceiver indicates a safe transfer to a component that cannot
	// accept assets.
	ErrNotReceiver = errors.New("asset: recipient does not accept assets")

	// ErrInsufficientWrapped indicates a wrapper balance is too small.
	ErrInsufficientWrapped = errors.New("asset: insufficient wrapped balance")
)
