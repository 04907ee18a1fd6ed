package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/vfcprobe/codec"
	"github.com/hupe1980/vfcprobe/internal/probekey"
)

// Row is one decoded export row.
type Row struct {
	Test     string
	Variable string
	Value    float64
}

// Key returns the composite "test:variable" key.
func (r Row) Key() string { return r.Test + string(probekey.Separator) + r.Variable }

// Series is every value of one key, in file order.
type Series struct {
	Test     string
	Variable string
	Values   []float64
}

// Key returns the composite "test:variable" key.
func (s Series) Key() string { return s.Test + string(probekey.Separator) + s.Variable }

// ParseError reports a row that could not be decoded.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("export line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader decodes rows one at a time.
type Reader struct {
	br          *bufio.Reader
	release     func()
	compression Compression
	line        int
}

// NewReader creates a Reader on r, unwrapping a zstd or LZ4 frame if present.
func NewReader(r io.Reader) (*Reader, error) {
	dr, release, c, err := decompressor(r)
	if err != nil {
		return nil, err
	}
	return &Reader{
		br:          bufio.NewReader(dr),
		release:     release,
		compression: c,
	}, nil
}

// Compression reports the frame detected on the input.
func (r *Reader) Compression() Compression { return r.compression }

// Next returns the next row, or io.EOF after the last one. Lines have no
// length limit; a final line without a newline is still a row.
func (r *Reader) Next() (Row, error) {
	line, err := readLine(r.br)
	if err != nil {
		return Row{}, err
	}
	r.line++

	row, err := parseRow(line)
	if err != nil {
		return Row{}, &ParseError{Line: r.line, Err: err}
	}
	return row, nil
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// ReadLines calls fn with every line of r, numbered from 1.
func ReadLines(r io.Reader, fn func(n int, line string) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := readLine(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
}

// Close releases decoder resources. It does not close the source.
func (r *Reader) Close() error {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	return nil
}

func parseRow(line string) (Row, error) {
	key, token, ok := strings.Cut(line, string(probekey.FieldSeparator))
	if !ok {
		return Row{}, fmt.Errorf("missing %q field separator", probekey.FieldSeparator)
	}
	test, variable, err := probekey.Split(key)
	if err != nil {
		return Row{}, err
	}
	v, err := codec.Decode(token)
	if err != nil {
		return Row{}, err
	}
	return Row{Test: test, Variable: variable, Value: v}, nil
}

// ReadSeries reads a whole export and groups its rows by key. Keys keep the
// order in which they first appear.
func ReadSeries(r io.Reader) ([]Series, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	var out []Series
	index := make(map[string]int)
	for {
		row, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		key := row.Key()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Series{Test: row.Test, Variable: row.Variable})
		}
		out[i].Values = append(out[i].Values, row.Value)
	}
}
