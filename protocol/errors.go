package protocol

import "errors"

var (
	// ErrDuplicateCollection indicates two collections with the same name.
	ErrDuplicateCollection = errors.New("protocol: duplicate collection name")

	// ErrClosed indicates use of a closed deployment.
	ErrClosed = errors.New("protocol: closed")
)
