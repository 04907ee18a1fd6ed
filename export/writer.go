package export

import (
	"bufio"
	"context"
	"io"

	"github.com/hupe1980/vfcprobe/codec"
	"github.com/hupe1980/vfcprobe/internal/probekey"
)

// Options configures a Writer.
type Options struct {
	// Compression wraps the rows in a frame. Default: CompressionNone.
	Compression Compression

	// BytesPerSec limits the throughput towards the destination, measured
	// after compression. If 0, unlimited.
	BytesPerSec int

	// Context bounds waiting on the throughput limit.
	// Default: context.Background().
	Context context.Context
}

// Option configures a Writer.
type Option func(*Options)

// WithCompression selects the frame wrapped around the rows.
func WithCompression(c Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithRateLimit limits the destination throughput to bytesPerSec.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *Options) {
		o.BytesPerSec = bytesPerSec
	}
}

// WithContext sets the context used while waiting on the rate limit.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

// Writer encodes rows. Call Close to flush; Close never closes the
// destination itself.
type Writer struct {
	buf  *bufio.Writer
	comp io.WriteCloser
	line []byte
	rows int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer, optFns ...Option) (*Writer, error) {
	opts := Options{Context: context.Background()}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	if opts.BytesPerSec > 0 {
		w = newThrottledWriter(opts.Context, w, opts.BytesPerSec)
	}
	comp, err := compressor(w, opts.Compression)
	if err != nil {
		return nil, err
	}

	return &Writer{
		buf:  bufio.NewWriter(comp),
		comp: comp,
		line: make([]byte, 0, 64),
	}, nil
}

// WriteRow writes one "key,token" row.
func (w *Writer) WriteRow(key string, v float64) error {
	if _, _, err := probekey.Split(key); err != nil {
		return err
	}

	w.line = append(w.line[:0], key...)
	w.line = append(w.line, probekey.FieldSeparator)
	w.line = codec.AppendEncode(w.line, v)
	w.line = append(w.line, '\n')
	if _, err := w.buf.Write(w.line); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int { return w.rows }

// Close flushes buffered rows and finishes the compression frame.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.comp.Close()
		return err
	}
	return w.comp.Close()
}
