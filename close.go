package vfcprobe

// Close releases every entry and the slot array. Afterwards every operation
// returns ErrClosed (or a zero value). Close is idempotent.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.table.Release()
	s.closed = true
	return nil
}
