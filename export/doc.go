// Package export writes and reads the probe export format.
//
// An export is a sequence of newline-terminated rows
//
//	test:variable,TOKEN
//
// where TOKEN is the 12-character codec token of one recorded value. There is
// no header and no trailer. Rows of one key appear in insertion order; the
// order across keys follows the store's slot order and carries no meaning.
//
// The whole stream may optionally be wrapped in a zstd or LZ4 frame. Reader
// detects either frame by its magic number, so consumers never need to know
// how an export was written.
package export
