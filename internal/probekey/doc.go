// Package probekey builds and validates the composite keys under which probe
// values are recorded.
//
// A key has the shape "test:variable". Neither part may contain the key
// separator ':' nor the export field separator ',', otherwise the key could
// not be split again and exported rows would gain an extra column.
package probekey
