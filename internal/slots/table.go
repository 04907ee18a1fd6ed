package slots

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// DefaultCapacity is the number of slots used when none is configured.
const DefaultCapacity = 10000

var (
	// ErrInvalidCapacity is returned for non-positive or oversized capacities.
	ErrInvalidCapacity = errors.New("capacity must be in [1, 2^32)")

	// ErrCollision is wrapped by every CollisionError.
	ErrCollision = errors.New("hash collision")
)

// CollisionError reports two distinct keys that map to the same slot.
type CollisionError struct {
	Slot     int
	Key      string
	Existing string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("hash collision in slot %d between %q and %q", e.Slot, e.Key, e.Existing)
}

func (e *CollisionError) Unwrap() error { return ErrCollision }

// Entry holds every value recorded under one key, in insertion order.
// An entry is never empty.
type Entry struct {
	Key    string
	Values []float64
}

// Hash returns the slot of key in a table of the given capacity: the sum of
// every byte multiplied by its 1-based position, modulo capacity. The sum
// wraps at 32 bits.
//
// The distribution is far from uniform; short keys that are anagrams of each
// other often collide.
//
// Bytes are summed as unsigned values. C implementations of this hash that
// sum a signed char place keys containing bytes >= 0x80 in different slots,
// so collisions and export row order for such keys can differ from theirs.
// ASCII keys hash identically.
func Hash(key string, capacity int) int {
	var h uint32
	for i := 0; i < len(key); i++ {
		h += uint32(key[i]) * uint32(i+1)
	}
	return int(h % uint32(capacity))
}

// Table is a fixed-capacity array of entries. It is not safe for concurrent use.
type Table struct {
	entries  []*Entry
	occupied *roaring.Bitmap
}

// New creates an empty table.
func New(capacity int) (*Table, error) {
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}
	return &Table{
		entries:  make([]*Entry, capacity),
		occupied: roaring.New(),
	}, nil
}

func validateCapacity(capacity int) error {
	if capacity <= 0 || uint64(capacity) > math.MaxUint32 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return nil
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int { return len(t.entries) }

// Len returns the number of live entries.
func (t *Table) Len() int { return int(t.occupied.GetCardinality()) }

// SlotFor returns the slot key maps to at the current capacity.
func (t *Table) SlotFor(key string) int { return Hash(key, len(t.entries)) }

// Get returns the entry stored under key.
func (t *Table) Get(key string) (*Entry, bool) {
	e := t.entries[t.SlotFor(key)]
	if e == nil || e.Key != key {
		return nil, false
	}
	return e, true
}

// Insert records v under key. A free slot gets a new single-value entry; a
// slot holding the same key grows by one value. A slot holding another key
// yields a *CollisionError and nothing changes.
func (t *Table) Insert(key string, v float64) (slot int, created bool, err error) {
	slot = t.SlotFor(key)
	e := t.entries[slot]
	switch {
	case e == nil:
		t.entries[slot] = &Entry{Key: key, Values: []float64{v}}
		t.occupied.Add(uint32(slot))
		return slot, true, nil
	case e.Key == key:
		e.Values = append(e.Values, v)
		return slot, false, nil
	default:
		return slot, false, &CollisionError{Slot: slot, Key: key, Existing: e.Key}
	}
}

// Delete releases the entry stored under key. It reports whether an entry was
// removed; an empty slot or a slot owned by another key is left alone.
func (t *Table) Delete(key string) bool {
	slot := t.SlotFor(key)
	e := t.entries[slot]
	if e == nil || e.Key != key {
		return false
	}
	t.entries[slot] = nil
	t.occupied.Remove(uint32(slot))
	return true
}

// All yields live entries in slot order. The table must not be modified
// during iteration.
func (t *Table) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		t.occupied.Iterate(func(slot uint32) bool {
			return yield(t.entries[slot])
		})
	}
}

// Values returns the total number of recorded values.
func (t *Table) Values() int {
	n := 0
	for e := range t.All() {
		n += len(e.Values)
	}
	return n
}

// Reset drops every entry and reallocates the table with the given capacity.
// Nothing is rehashed.
func (t *Table) Reset(capacity int) error {
	if err := validateCapacity(capacity); err != nil {
		return err
	}
	t.Release()
	t.entries = make([]*Entry, capacity)
	return nil
}

// Release drops every entry and the slot array.
func (t *Table) Release() {
	t.occupied.Iterate(func(slot uint32) bool {
		t.entries[slot] = nil
		return true
	})
	t.occupied.Clear()
	t.entries = nil
}
