package probekey

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator joins the test and variable identifiers inside a key.
	Separator = ':'
	// FieldSeparator separates the key from the encoded value in exported rows.
	FieldSeparator = ','
)

// reserved lists every character an identifier must not contain.
const reserved = string(Separator) + string(FieldSeparator)

// ErrInvalidCharacter is the sentinel wrapped by every InvalidCharacterError.
var ErrInvalidCharacter = errors.New("identifier contains a reserved character")

// ErrMalformedKey is returned by Split for keys that were not produced by Build.
var ErrMalformedKey = errors.New("malformed probe key")

// InvalidCharacterError reports the first reserved character found in an identifier.
type InvalidCharacterError struct {
	Input string
	Char  rune
	Index int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("identifier %q contains reserved character %q at index %d", e.Input, e.Char, e.Index)
}

func (e *InvalidCharacterError) Unwrap() error { return ErrInvalidCharacter }

// Validate returns an *InvalidCharacterError if s contains ':' or ','.
func Validate(s string) error {
	if i := strings.IndexAny(s, reserved); i >= 0 {
		return &InvalidCharacterError{Input: s, Char: rune(s[i]), Index: i}
	}
	return nil
}

// Build validates both identifiers and joins them into a key.
func Build(test, variable string) (string, error) {
	if err := Validate(test); err != nil {
		return "", err
	}
	if err := Validate(variable); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(test) + 1 + len(variable))
	b.WriteString(test)
	b.WriteByte(Separator)
	b.WriteString(variable)
	return b.String(), nil
}

// Split is the inverse of Build.
func Split(key string) (test, variable string, err error) {
	if strings.IndexByte(key, FieldSeparator) >= 0 {
		return "", "", fmt.Errorf("%w: %q contains %q", ErrMalformedKey, key, FieldSeparator)
	}
	test, variable, ok := strings.Cut(key, string(Separator))
	if !ok || strings.IndexByte(variable, Separator) >= 0 {
		return "", "", fmt.Errorf("%w: %q must contain exactly one %q", ErrMalformedKey, key, Separator)
	}
	return test, variable, nil
}
