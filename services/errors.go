package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the request-handling layer. Rule-evaluation
// "nothing triggered" outcomes are empty results, never errors.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidSettings  = errors.New("invalid notification settings")
	ErrNotFound         = errors.New("record not found")
)

// storeErr wraps a database failure into the single StoreUnavailable kind.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
