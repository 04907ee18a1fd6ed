// Package mmap maps export files into memory for read-only, zero-copy access.
//
// Re-reading large exports is a single sequential scan; mapping the file lets
// the reader hand the whole content to a bytes.Reader without copying it
// through a user-space buffer first.
//
// # Platform Support
//
// Unix systems use mmap(2) through golang.org/x/sys/unix, Windows uses
// CreateFileMapping / MapViewOfFile through golang.org/x/sys/windows.
package mmap
