// Package blobstore provides the destinations probe exports are written to.
//
// BlobStore is the interface for writing and reading named export blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads are memory-mapped
//   - MemoryStore: in-process, for tests and pipelines
//   - s3.Store: Amazon S3 with streaming multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Run Catalog
//
// A Catalog remembers which blob every export run produced, so that report
// tooling can find the newest run of a series without listing the bucket.
// MemoryCatalog keeps records in process; s3.RunCatalog keeps them in DynamoDB.
package blobstore
