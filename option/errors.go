package option

import "errors"

// Authorization failures.
var (
	// ErrNotAuthorized indicates the caller neither owns nor is approved for the asset.
	ErrNotAuthorized = errors.New("option: caller is not the owner or an approved operator")

	// ErrNotWriter indicates the caller did not write the option.
	ErrNotWriter = errors.New("option: caller is not the writer")

	// ErrNotTokenHolder indicates the caller does not hold the rights token.
	ErrNotTokenHolder = errors.New("option: caller does not hold the rights token")

	// ErrNotOwnerOrApproved indicates the caller may not move the rights token.
	ErrNotOwnerOrApproved = errors.New("option: caller is not token owner nor approved")

	// ErrNotTransferAgent indicates an approved party lacks the transfer agent role.
	ErrNotTransferAgent = errors.New("option: caller is not a transfer agent")

	// ErrNotMarketConf indicates the caller may not change market settings.
	ErrNotMarketConf = errors.New("option: caller may not configure the market")
)

// State-precondition failures.
var (
	// ErrUnknownOption indicates no option was minted with the id.
	ErrUnknownOption = errors.New("option: unknown option")

	// ErrNonexistentToken indicates the rights token was never minted or is burned.
	ErrNonexistentToken = errors.New("option: nonexistent rights token")

	// ErrUnknownCollection indicates no collection is deployed at the address.
	ErrUnknownCollection = errors.New("option: unknown collection")

	// ErrCollectionNotAllowed indicates the collection is not allowlisted for options.
	ErrCollectionNotAllowed = errors.New("option: collection is not allowlisted")

	// ErrNotInCustody indicates the vault does not hold the asset.
	ErrNotInCustody = errors.New("option: asset is not in custody")

	// ErrPriorOptionOpen indicates the slot carries an option that is not settled.
	ErrPriorOptionOpen = errors.New("option: prior option on this asset is not settled")

	// ErrNoEntitlement indicates the asset carries no active entitlement.
	ErrNoEntitlement = errors.New("option: asset has no active entitlement")

	// ErrSettled indicates the option already reached a terminal state.
	ErrSettled = errors.New("option: option already settled")

	// ErrAuctionNotOpen indicates the settlement auction has not started.
	ErrAuctionNotOpen = errors.New("option: auction not open")

	// ErrAuctionClosed indicates the option is at or past expiration.
	ErrAuctionClosed = errors.New("option: auction closed at expiration")

	// ErrNoBids indicates an option without a high bidder.
	ErrNoBids = errors.New("option: no bids")

	// ErrHasBids indicates an option with a standing bid.
	ErrHasBids = errors.New("option: option has a standing bid")

	// ErrNotExpired indicates the option has not reached expiration.
	ErrNotExpired = errors.New("option: option has not expired")

	// ErrOptionExpired indicates the operation is only valid before expiration.
	ErrOptionExpired = errors.New("option: option has expired")

	// ErrMarketPaused indicates minting and bidding are paused.
	ErrMarketPaused = errors.New("option: market is paused")

	// ErrNoWrapper indicates a payment was rejected and no wrapper asset is configured.
	ErrNoWrapper = errors.New("option: payment rejected and no wrapper asset configured")
)

// Validation failures.
var (
	// ErrExpirationTooSoon indicates the expiration is within the minimum duration.
	ErrExpirationTooSoon = errors.New("option: expiration is too soon")

	// ErrEntitlementMismatch indicates the entitlement does not name this ledger
	// or the requested expiration.
	ErrEntitlementMismatch = errors.New("option: entitlement does not match the option")

	// ErrBidBelowStrike indicates a bid not above the strike.
	ErrBidBelowStrike = errors.New("option: bid must exceed strike")

	// ErrBidTooLow indicates a bid below the minimum increment over the current bid.
	ErrBidTooLow = errors.New("option: bid below minimum increment")

	// ErrZeroRecipient indicates a rights token transfer to the null identity.
	ErrZeroRecipient = errors.New("option: transfer to the zero address")
)

// ErrConservation indicates a settlement would pay out a different amount
// than the ledger holds for the option.
var ErrConservation = errors.New("option: payouts do not conserve funds")
