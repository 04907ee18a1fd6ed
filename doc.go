// Package vfcprobe records floating-point observations from instrumented
// programs and exports them losslessly for numerical-stability analysis.
//
// Every value is filed under a (test, variable) pair. Values for the same pair
// accumulate in insertion order; the export writes one row per value.
//
// # Quick Start
//
//	store, _ := vfcprobe.New(vfcprobe.WithEnv())
//	defer store.Close()
//
//	_ = store.Insert("dot_product", "acc", 1.0)
//	_ = store.Insert("dot_product", "acc", 1.0000000000000002)
//
//	_ = store.Dump(ctx, "probes.csv")
//
// # Export Format
//
// An export is plain text with one row per recorded value and no header:
//
//	dot_product:acc,AAAAAAAA8D8=
//	dot_product:acc,AQAAAAAA8D8=
//
// The token after the comma is the standard base64 encoding of the value's
// IEEE-754 bits in little-endian order, so NaN payloads, signed zeros and
// subnormals survive unchanged. Rows of one key keep their insertion order;
// keys appear in table order. Exports may be compressed with zstd or LZ4 (see
// WithExportOptions); ReadFile and Load detect the compression by its magic
// bytes.
//
// # Table Semantics
//
// The store is a fixed-capacity table addressed by a positional byte hash of
// the key. Two keys that hash to the same slot cannot coexist: the second
// insert fails. Under the default CollisionAbort policy the collision is
// logged and the process exits with status 1; CollisionError returns the
// error instead. Resize starts over with an empty table.
//
// # Destinations
//
// Dump writes a local file. DumpTo streams into any blobstore.BlobStore
// (local directory, memory, S3, MinIO) and DumpAll fans one rendered export
// out to several destinations. With WithCatalog each successful upload is
// appended to a run catalog such as the DynamoDB-backed s3.RunCatalog.
//
// # Configuration
//
// WithEnv reads VFC_PROBES_OUTPUT (default export path for DumpDefault) and
// VFC_PROBES_CAPACITY (number of slots).
package vfcprobe
