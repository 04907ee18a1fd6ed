package vfcprobe

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vfcprobe/codec"
	"github.com/hupe1980/vfcprobe/internal/probekey"
	"github.com/hupe1980/vfcprobe/internal/slots"
)

var (
	// ErrInvalidKeyCharacter is matched by every *ErrInvalidKey.
	ErrInvalidKeyCharacter = errors.New("invalid key character")

	// ErrCollision is matched by every *ErrHashCollision.
	ErrCollision = errors.New("hash collision")

	// ErrIO is matched by every *IOError.
	ErrIO = errors.New("export i/o failure")

	// ErrMalformedToken is returned when an exported value cannot be decoded.
	ErrMalformedToken = codec.ErrMalformedToken

	// ErrClosed is returned by every operation on a closed Store.
	ErrClosed = errors.New("store is closed")

	// ErrInvalidCapacity is returned for a capacity that is not positive.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrNoOutput is returned by DumpDefault when no output path is configured.
	ErrNoOutput = errors.New("no output path configured")
)

// ErrInvalidKey indicates that a test or variable identifier contains ':' or ','.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidKey struct {
	Input string
	Char  rune
	cause error
}

func (e *ErrInvalidKey) Error() string {
	return fmt.Sprintf("invalid key character %q in %q", e.Char, e.Input)
}

func (e *ErrInvalidKey) Is(target error) bool { return target == ErrInvalidKeyCharacter }

func (e *ErrInvalidKey) Unwrap() error { return e.cause }

// ErrHashCollision indicates that two distinct keys map to the same slot.
// The stored key and its values are left untouched.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrHashCollision struct {
	Key      string
	Existing string
	Slot     int
	Capacity int
	cause    error
}

func (e *ErrHashCollision) Error() string {
	return fmt.Sprintf("hash collision between probes %q and %q (slot %d of %d); change the capacity or the probe names",
		e.Key, e.Existing, e.Slot, e.Capacity)
}

func (e *ErrHashCollision) Is(target error) bool { return target == ErrCollision }

func (e *ErrHashCollision) Unwrap() error { return e.cause }

// IOError indicates that an export destination could not be opened, written
// or closed. The destination may hold a partial export.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Is(target error) bool { return target == ErrIO }

func (e *IOError) Unwrap() error { return e.Err }

func translateError(err error, capacity int) error {
	if err == nil {
		return nil
	}

	var ice *probekey.InvalidCharacterError
	if errors.As(err, &ice) {
		return &ErrInvalidKey{Input: ice.Input, Char: ice.Char, cause: err}
	}
	var ce *slots.CollisionError
	if errors.As(err, &ce) {
		return &ErrHashCollision{Key: ce.Key, Existing: ce.Existing, Slot: ce.Slot, Capacity: capacity, cause: err}
	}
	if errors.Is(err, slots.ErrInvalidCapacity) {
		return fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}

	return err
}
