// Package testutil provides testing utilities for vfcprobe.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Values
//
//	rng := testutil.NewRNG(seed)
//	bits := rng.Uint64()             // any bit pattern, NaN payloads included
//	xs := rng.Series(100, 1.0, 1e-9) // noisy measurements around 1.0
//
// # Collisions
//
//	a, b, ok := testutil.CollidingVariables(slots.Hash, 97, "test")
package testutil
