// Package s3 stores probe exports in Amazon S3 and records export runs in
// DynamoDB.
//
// # Usage
//
//	store, err := s3.NewFromConfig(ctx, "my-bucket", "probes/",
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	err = probes.DumpTo(ctx, store, "nightly/run.csv")
//
// # Features
//
//   - Streaming multipart uploads, aborted when the export fails
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - RunCatalog: append-only run log with conditional writes
package s3
