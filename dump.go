package vfcprobe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/hupe1980/vfcprobe/blobstore"
	"github.com/hupe1980/vfcprobe/export"
	"github.com/hupe1980/vfcprobe/internal/mmap"
	"golang.org/x/sync/errgroup"
)

// maxParallelUploads bounds DumpAll's fan-out.
const maxParallelUploads = 4

// Target names one destination of DumpAll.
type Target struct {
	Store blobstore.BlobStore
	Name  string
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// render writes one row per recorded value, walking entries in slot order.
func (s *Store) render(ctx context.Context, w io.Writer) (rows, entries int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, 0, ErrClosed
	}

	opts := append([]export.Option{export.WithContext(ctx)}, s.opts.exportOptions...)
	ew, err := export.NewWriter(w, opts...)
	if err != nil {
		return 0, 0, err
	}
	for e := range s.table.All() {
		for _, v := range e.Values {
			if err := ew.WriteRow(e.Key, v); err != nil {
				_ = ew.Close()
				return ew.Rows(), entries, err
			}
		}
		entries++
	}
	return ew.Rows(), entries, ew.Close()
}

func ioError(op, path string, err error) error {
	if err == nil || errors.Is(err, ErrClosed) {
		return err
	}
	return &IOError{Op: op, Path: path, Err: err}
}

func (s *Store) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// WriteTo writes the export to w. It implements io.WriterTo.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	start := time.Now()
	cw := &countingWriter{w: w}
	rows, _, err := s.render(context.Background(), cw)
	s.opts.metricsCollector.RecordDump(rows, time.Since(start), err)
	return cw.n, err
}

// Dump writes the export to the file at path, truncating existing content.
//
// On failure the file may hold a partial export; nothing is written to a
// temporary file first.
func (s *Store) Dump(ctx context.Context, path string) error {
	start := time.Now()
	if err := s.checkOpen(); err != nil {
		return err
	}

	rows, err := s.dumpFile(ctx, path)
	s.opts.metricsCollector.RecordDump(rows, time.Since(start), err)
	s.opts.logger.LogDump(ctx, path, rows, err)
	return err
}

func (s *Store) dumpFile(ctx context.Context, path string) (int, error) {
	f, err := s.opts.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, ioError("open", path, err)
	}
	rows, _, err := s.render(ctx, f)
	if err != nil {
		_ = f.Close()
		return rows, ioError("write", path, err)
	}
	return rows, ioError("close", path, f.Close())
}

// DumpDefault writes the export to the path configured with WithOutputPath
// or VFC_PROBES_OUTPUT.
func (s *Store) DumpDefault(ctx context.Context) error {
	if s.opts.outputPath == "" {
		return ErrNoOutput
	}
	return s.Dump(ctx, s.opts.outputPath)
}

// DumpTo streams the export into a blob named name.
func (s *Store) DumpTo(ctx context.Context, bs blobstore.BlobStore, name string) error {
	start := time.Now()
	if err := s.checkOpen(); err != nil {
		return err
	}

	rows, entries, err := s.dumpBlob(ctx, bs, name)
	if err == nil {
		err = s.catalogRun(ctx, name, rows, entries)
	}
	s.opts.metricsCollector.RecordDump(rows, time.Since(start), err)
	s.opts.logger.LogDump(ctx, name, rows, err)
	return err
}

func (s *Store) dumpBlob(ctx context.Context, bs blobstore.BlobStore, name string) (int, int, error) {
	wb, err := bs.Create(ctx, name)
	if err != nil {
		return 0, 0, ioError("create", name, err)
	}
	rows, entries, err := s.render(ctx, wb)
	if err != nil {
		_ = wb.Abort()
		return rows, entries, ioError("write", name, err)
	}
	return rows, entries, ioError("close", name, wb.Close())
}

// DumpAll renders the export once and uploads it to every target
// concurrently. Every upload is attempted even if others fail; the failures
// are returned joined, in target order.
func (s *Store) DumpAll(ctx context.Context, targets ...Target) error {
	start := time.Now()

	var buf bytes.Buffer
	rows, entries, err := s.render(ctx, &buf)
	if err != nil {
		err = ioError("render", "", err)
		s.opts.metricsCollector.RecordDump(rows, time.Since(start), err)
		return err
	}
	data := buf.Bytes()

	errs := make([]error, len(targets))
	var g errgroup.Group
	g.SetLimit(maxParallelUploads)
	for i, t := range targets {
		g.Go(func() error {
			err := upload(ctx, t, data)
			if err == nil {
				err = s.catalogRun(ctx, t.Name, rows, entries)
			}
			s.opts.logger.LogDump(ctx, t.Name, rows, err)
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	err = errors.Join(errs...)
	s.opts.metricsCollector.RecordDump(rows, time.Since(start), err)
	return err
}

func upload(ctx context.Context, t Target, data []byte) error {
	wb, err := t.Store.Create(ctx, t.Name)
	if err != nil {
		return ioError("create", t.Name, err)
	}
	if _, err := wb.Write(data); err != nil {
		_ = wb.Abort()
		return ioError("write", t.Name, err)
	}
	return ioError("close", t.Name, wb.Close())
}

func (s *Store) catalogRun(ctx context.Context, blob string, rows, entries int) error {
	if s.opts.catalog == nil {
		return nil
	}
	_, err := s.opts.catalog.Append(ctx, blobstore.RunRecord{
		Series:  s.opts.catalogSeries,
		Blob:    blob,
		Rows:    rows,
		Entries: entries,
	})
	return err
}

// ReadFile reads an export written by Dump, compressed or not, and groups
// its values by key.
func ReadFile(path string) ([]export.Series, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return export.ReadSeries(bytes.NewReader(m.Bytes()))
}

// Load reads an export from r and groups its values by key.
func Load(r io.Reader) ([]export.Series, error) {
	return export.ReadSeries(r)
}
