// Package dps declares the storage interfaces the trie reader consumes,
// independent of any concrete embedded key-value engine.
package dps

// Store is a read-only, shareable handle onto a column-namespaced
// key-value store. Implementations must be safe for concurrent point
// lookups and independent iterators.
type Store interface {
	// Columns returns the column names discovered at open time, in a
	// stable order.
	Columns() []string

	// Get performs a point lookup in column. It returns (nil, nil) if the
	// key is absent, and (nil, nil) (not an error) if column itself does
	// not exist. It returns a non-nil error only for a genuine I/O fault.
	Get(column string, key []byte) ([]byte, error)

	// ScanFrom returns a forward iterator over column starting at the
	// first key >= prefix. If column does not exist, the iterator yields
	// no items. The caller is responsible for stopping once keys no
	// longer share prefix.
	ScanFrom(column string, prefix []byte) Iterator
}

// Iterator walks a column's key-value pairs in ascending key order.
type Iterator interface {
	// Next advances the iterator and reports whether an item is
	// available. It must be called before the first Key/Value access.
	Next() bool
	// Key returns the current item's key.
	Key() []byte
	// Value returns the current item's value.
	Value() []byte
	// Close releases resources held by the iterator.
	Close()
}
