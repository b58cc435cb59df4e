package host

import "errors"

var (
	// ErrReentrant indicates a guarded operation was re-entered from a
	// callback it triggered.
	ErrReentrant = errors.New("host: reentrant call")

	// ErrInsufficientBalance indicates a value transfer exceeds the sender's
	// balance.
	ErrInsufficientBalance = errors.New("host: insufficient balance")

	// ErrPaymentRejected indicates the recipient's receive hook failed.
	ErrPaymentRejected = errors.New("host: payment rejected by recipient")

	// ErrOverflow indicates a balance would exceed its numeric range.
	ErrOverflow = errors.New("host: balance overflow")

	// ErrCommit indicates the operation succeeded but could not be persisted;
	// its effects were reverted.
	ErrCommit = errors.New("host: commit failed")
)
