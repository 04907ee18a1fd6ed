// Package codec converts float64 probe values to and from fixed-length text
// tokens.
//
// A token is the standard base64 encoding of the value's raw IEEE-754 bit
// pattern laid out little-endian. Eight bytes always produce eleven symbols
// plus one '=' of padding, so every token is exactly TokenLen characters.
//
// The codec never interprets the bits as a number: NaN payloads, signed zeros,
// subnormals and infinities round-trip bit-for-bit.
//
// Changing the byte order or alphabet is a breaking change for every export
// written so far.
package codec
