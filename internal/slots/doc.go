// Package slots implements the direct-addressed table behind the probe store.
//
// Each key owns exactly one slot, computed by Hash. There is no probing and no
// chaining: a second key landing on an occupied slot is reported as a
// *CollisionError and the table is left untouched. Callers size the table so
// that their key set does not collide.
//
// Occupied slots are tracked in a roaring bitmap, so walking or counting the
// table costs O(entries) rather than O(capacity).
package slots
