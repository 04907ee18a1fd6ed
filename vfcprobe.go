package vfcprobe

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/vfcprobe/internal/probekey"
	"github.com/hupe1980/vfcprobe/internal/slots"
)

// Entry is a snapshot of every value recorded under one key.
type Entry struct {
	Test     string
	Variable string
	Values   []float64
}

// Key returns the composite "test:variable" key.
func (e Entry) Key() string { return e.Test + string(probekey.Separator) + e.Variable }

// Stats summarizes the table.
type Stats struct {
	Entries    int
	Values     int
	Capacity   int
	LoadFactor float64
}

// Store records probe values in a fixed-capacity table.
//
// A single mutex guards the whole table, so a Store may be shared between
// goroutines. Operations never block on anything but that mutex, except the
// Dump family which performs synchronous I/O.
type Store struct {
	mu     sync.Mutex
	table  *slots.Table
	closed bool
	opts   options
}

// New creates an empty store.
func New(optFns ...Option) (*Store, error) {
	o := applyOptions(optFns)
	if o.err != nil {
		return nil, o.err
	}
	t, err := slots.New(o.capacity)
	if err != nil {
		return nil, translateError(err, o.capacity)
	}
	return &Store{table: t, opts: o}, nil
}

// Insert appends v to the values recorded under (test, variable).
//
// The first insert for a key creates its entry. If another key already owns
// the slot, Insert fails with *ErrHashCollision; under CollisionAbort (the
// default) the collision is logged and the exit function is called first.
func (s *Store) Insert(test, variable string, v float64) error {
	start := time.Now()
	ctx := context.Background()

	key, err := probekey.Build(test, variable)
	if err != nil {
		err = translateError(err, 0)
		s.opts.metricsCollector.RecordInsert(time.Since(start), err)
		s.opts.logger.LogInsert(ctx, test+string(probekey.Separator)+variable, false, err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	_, created, err := s.table.Insert(key, v)
	capacity := s.table.Capacity()
	s.mu.Unlock()

	err = translateError(err, capacity)
	s.opts.metricsCollector.RecordInsert(time.Since(start), err)

	var hc *ErrHashCollision
	if errors.As(err, &hc) && s.opts.collisionPolicy == CollisionAbort {
		s.opts.logger.LogCollision(ctx, hc)
		s.opts.exit(1)
		return err
	}
	s.opts.logger.LogInsert(ctx, key, created, err)
	return err
}

// Lookup returns a copy of the values recorded under (test, variable) in
// insertion order, or nil if there are none.
func (s *Store) Lookup(test, variable string) ([]float64, error) {
	start := time.Now()

	key, err := probekey.Build(test, variable)
	if err != nil {
		return nil, translateError(err, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	e, ok := s.table.Get(key)
	s.opts.metricsCollector.RecordLookup(time.Since(start), ok)
	if !ok {
		return nil, nil
	}
	return slices.Clone(e.Values), nil
}

// Remove releases the values recorded under (test, variable). Removing an
// absent key is not an error.
func (s *Store) Remove(test, variable string) error {
	start := time.Now()
	ctx := context.Background()

	key, err := probekey.Build(test, variable)
	if err != nil {
		err = translateError(err, 0)
		s.opts.metricsCollector.RecordRemove(time.Since(start), err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	removed := s.table.Delete(key)
	s.mu.Unlock()

	s.opts.metricsCollector.RecordRemove(time.Since(start), nil)
	s.opts.logger.LogRemove(ctx, key, removed, nil)
	return nil
}

// Count returns the number of keys with recorded values.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return s.table.Len()
}

// Capacity returns the number of slots.
func (s *Store) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return s.table.Capacity()
}

// Stats returns a summary of the table.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Stats{}
	}
	st := Stats{
		Entries:  s.table.Len(),
		Values:   s.table.Values(),
		Capacity: s.table.Capacity(),
	}
	st.LoadFactor = float64(st.Entries) / float64(st.Capacity)
	return st
}

// Resize discards every recorded value and starts over with an empty table
// of the given capacity. Nothing is rehashed.
func (s *Store) Resize(capacity int) error {
	ctx := context.Background()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	from, dropped := s.table.Capacity(), s.table.Len()
	err := translateError(s.table.Reset(capacity), capacity)
	s.mu.Unlock()

	s.opts.logger.WithCapacity(from).LogResize(ctx, capacity, dropped, err)
	if err != nil {
		return err
	}
	s.opts.metricsCollector.RecordResize(capacity)
	return nil
}

// Entries yields a snapshot of every entry in slot order. The snapshot is
// taken when iteration starts; the store may be modified while iterating.
func (s *Store) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		snapshot := make([]Entry, 0, s.table.Len())
		for e := range s.table.All() {
			test, variable, _ := probekey.Split(e.Key)
			snapshot = append(snapshot, Entry{Test: test, Variable: variable, Values: slices.Clone(e.Values)})
		}
		s.mu.Unlock()

		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}
