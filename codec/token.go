package codec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// TokenLen is the length of every encoded value.
const TokenLen = 12

const (
	valueSize = 8
	padding   = '='
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

var enc = base64.StdEncoding.Strict()

// ErrMalformedToken is wrapped by every MalformedTokenError.
var ErrMalformedToken = errors.New("malformed value token")

// MalformedTokenError describes why a token could not be decoded.
type MalformedTokenError struct {
	Token  string
	Reason string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed value token %q: %s", e.Token, e.Reason)
}

func (e *MalformedTokenError) Unwrap() error { return ErrMalformedToken }

// Encode returns the token for v.
func Encode(v float64) string {
	var buf [TokenLen]byte
	return string(AppendEncode(buf[:0], v))
}

// AppendEncode appends the token for v to dst and returns the extended buffer.
func AppendEncode(dst []byte, v float64) []byte {
	var raw [valueSize]byte
	binary.LittleEndian.PutUint64(raw[:], math.Float64bits(v))
	return enc.AppendEncode(dst, raw[:])
}

// Decode returns the value encoded by token.
func Decode(token string) (float64, error) {
	bits, err := DecodeBits(token)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// DecodeBits returns the raw bit pattern encoded by token.
func DecodeBits(token string) (uint64, error) {
	if len(token) != TokenLen {
		return 0, &MalformedTokenError{Token: token, Reason: fmt.Sprintf("length %d, want %d", len(token), TokenLen)}
	}
	if token[TokenLen-1] != padding {
		return 0, &MalformedTokenError{Token: token, Reason: "missing padding"}
	}
	for i := 0; i < TokenLen-1; i++ {
		if strings.IndexByte(alphabet, token[i]) < 0 {
			return 0, &MalformedTokenError{Token: token, Reason: fmt.Sprintf("invalid symbol %q at index %d", token[i], i)}
		}
	}

	var raw [valueSize + 1]byte
	n, err := enc.Decode(raw[:], []byte(token))
	if err != nil {
		return 0, &MalformedTokenError{Token: token, Reason: err.Error()}
	}
	if n != valueSize {
		return 0, &MalformedTokenError{Token: token, Reason: fmt.Sprintf("decoded %d bytes, want %d", n, valueSize)}
	}
	return binary.LittleEndian.Uint64(raw[:valueSize]), nil
}
