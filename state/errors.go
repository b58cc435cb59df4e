package state

import "errors"

var (
	// ErrDuplicateTable indicates two tables were registered under one bucket.
	ErrDuplicateTable = errors.New("state: duplicate table bucket")

	// ErrInvalidKey indicates a persisted key cannot be decoded.
	ErrInvalidKey = errors.New("state: invalid key encoding")

	// ErrDecode indicates a persisted value cannot be decoded.
	ErrDecode = errors.New("state: decode value")

	// ErrEncode indicates a value cannot be encoded for persistence.
	ErrEncode = errors.New("state: encode value")

	// ErrBackendClosed indicates the backend was used after Close.
	ErrBackendClosed = errors.New("state: backend closed")
)
