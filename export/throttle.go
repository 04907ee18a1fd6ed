package export

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// throttledWriter limits the throughput of an underlying writer.
type throttledWriter struct {
	ctx     context.Context
	w       io.Writer
	limiter *rate.Limiter
}

func newThrottledWriter(ctx context.Context, w io.Writer, bytesPerSec int) *throttledWriter {
	return &throttledWriter{
		ctx:     ctx,
		w:       w,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

func (t *throttledWriter) Write(p []byte) (int, error) {
	written := 0
	burst := t.limiter.Burst()
	for len(p) > 0 {
		chunk := min(len(p), burst)
		if err := t.limiter.WaitN(t.ctx, chunk); err != nil {
			return written, err
		}
		n, err := t.w.Write(p[:chunk])
		written += n
		if err != nil {
			return written, err
		}
		p = p[chunk:]
	}
	return written, nil
}
