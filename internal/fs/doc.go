// Package fs abstracts the file operations used to write exports, so tests can
// inject failures.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wrapper that fails opens, writes or closes on demand
//
// Production code uses fs.Default. Tests inject a FaultyFS:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("probes.csv", fs.Fault{FailAfterBytes: 16})
package fs
