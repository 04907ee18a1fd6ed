// Package minio stores probe exports on MinIO and other S3-compatible
// servers (Ceph, Garage, SeaweedFS) using the MinIO client.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "ci-results", "probes/")
//	err = probes.DumpTo(ctx, store, "run-42.csv")
//
// Uploads stream through a pipe with unknown size, so large exports never
// have to be buffered in memory.
package minio
