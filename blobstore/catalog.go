package blobstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrConcurrentModification is returned when another writer appended the same
// sequence number first.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// RunRecord describes one export run.
type RunRecord struct {
	Series    string
	Seq       uint64
	Blob      string
	Rows      int
	Entries   int
	CreatedAt time.Time
}

// Catalog is an append-only log of export runs per series.
type Catalog interface {
	// Append stores rec with the next sequence number of rec.Series and
	// returns the stored record.
	Append(ctx context.Context, rec RunRecord) (RunRecord, error)
	// Latest returns the record with the highest sequence number, or
	// ErrNotFound if the series is empty.
	Latest(ctx context.Context, series string) (RunRecord, error)
}

// MemoryCatalog is an in-process Catalog.
type MemoryCatalog struct {
	mu   sync.Mutex
	runs map[string][]RunRecord
}

// NewMemoryCatalog creates an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{runs: make(map[string][]RunRecord)}
}

// Append implements Catalog.
func (c *MemoryCatalog) Append(_ context.Context, rec RunRecord) (RunRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec.Seq = uint64(len(c.runs[rec.Series])) + 1
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	c.runs[rec.Series] = append(c.runs[rec.Series], rec)
	return rec, nil
}

// Latest implements Catalog.
func (c *MemoryCatalog) Latest(_ context.Context, series string) (RunRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	runs := c.runs[series]
	if len(runs) == 0 {
		return RunRecord{}, ErrNotFound
	}
	return runs[len(runs)-1], nil
}
