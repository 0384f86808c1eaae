// Package storage adapts an embedded badger key-value store to the
// models/dps.Store interface the trie reader consumes. Badger has no
// native column-family primitive, so each logical column is emulated as a
// disjoint key-prefix namespace, the same "table" idiom go-ethereum's
// ethdb package uses to layer sub-databases over a flat keyspace. A small
// reserved manifest record lists which column namespaces the store was
// written with, so Open can perform genuine discover-then-validate against
// the required column names instead of assuming they are always present.
package storage

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/bonsaidb/trie-reader/models/dps"
	"github.com/bonsaidb/trie-reader/trie"
)

// manifestKey is the reserved badger key under which the set of column
// names the store was written with is recorded, newline-separated.
var manifestKey = []byte("\x00bonsai-columns")

// columnSeparator delimits a column's prefix from the caller-supplied key
// inside badger's single keyspace.
const columnSeparator = byte('/')

// Store is a read-only handle onto a badger-backed, column-namespaced
// key-value store.
type Store struct {
	log     zerolog.Logger
	db      *badger.DB
	columns []string
}

// OpenReadOnly opens the badger database at path in read-only mode,
// discovers its registered columns from the manifest record, and fails if
// any of the required Bonsai columns are missing.
func OpenReadOnly(log zerolog.Logger, path string) (*Store, error) {
	// Unlike the original RocksDB-backed store, badger's LSM tree does not
	// expose a max_open_files knob: it manages its own table file handles
	// internally. ReadOnly mode is the closest equivalent safety property
	// for an inspector that must never write to the store it opens.
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open store: %w", err)
	}

	columns, err := readManifest(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not read column manifest: %w", err)
	}

	if err := validateColumns(columns); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		log:     log.With().Str("component", "store").Logger(),
		db:      db,
		columns: columns,
	}, nil
}

// readManifest reads the reserved manifest key and splits it into column
// names. A store with no manifest record is treated as carrying zero
// columns, which Open then reports as every required column missing.
func readManifest(db *badger.DB) ([]string, error) {
	var raw []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(manifestKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return splitManifest(raw), nil
}

func splitManifest(raw []byte) []string {
	var names []string
	for _, part := range bytes.Split(raw, []byte{'\n'}) {
		if len(part) == 0 {
			continue
		}
		names = append(names, string(part))
	}
	return names
}

// ErrMissingColumns is returned by OpenReadOnly when the store's manifest
// is missing one or more of the nine required Bonsai columns. Its Error
// text is the aggregated multierror, one line per missing column, so a
// caller logging just err.Error() still sees every column that failed
// rather than a single truncated summary.
type ErrMissingColumns struct {
	Missing []string
	err     *multierror.Error
}

func (e *ErrMissingColumns) Error() string {
	return e.err.Error()
}

func (e *ErrMissingColumns) Unwrap() error {
	return e.err.ErrorOrNil()
}

func validateColumns(have []string) error {
	present := make(map[string]struct{}, len(have))
	for _, name := range have {
		present[name] = struct{}{}
	}

	var missing []string
	var multi *multierror.Error
	for _, required := range trie.RequiredColumns() {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
			multi = multierror.Append(multi, fmt.Errorf("column %q not found", required))
		}
	}
	if multi.ErrorOrNil() != nil {
		return &ErrMissingColumns{Missing: missing, err: multi}
	}
	return nil
}

// Columns returns the column names discovered at open time, in the stable
// order recorded by the manifest.
func (s *Store) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s *Store) hasColumn(name string) bool {
	for _, c := range s.columns {
		if c == name {
			return true
		}
	}
	return false
}

func namespacedKey(column string, key []byte) []byte {
	out := make([]byte, 0, len(column)+1+len(key))
	out = append(out, column...)
	out = append(out, columnSeparator)
	out = append(out, key...)
	return out
}

// Get performs a point lookup in column. It returns (nil, nil) both when
// the key is absent and when column itself was never registered; it
// returns a non-nil error only for a genuine badger I/O fault.
func (s *Store) Get(column string, key []byte) ([]byte, error) {
	if !s.hasColumn(column) {
		return nil, nil
	}

	full := namespacedKey(column, key)
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(full)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("could not look up key in column %q: %w", column, err)
	}
	return value, nil
}

// ScanFrom returns a forward iterator over column starting at the first
// key >= prefix. If column was never registered, the iterator yields no
// items.
func (s *Store) ScanFrom(column string, prefix []byte) dps.Iterator {
	if !s.hasColumn(column) {
		return &emptyIterator{}
	}

	txn := s.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(column + string(columnSeparator))
	it := txn.NewIterator(opts)

	seek := namespacedKey(column, prefix)
	it.Seek(seek)

	return &badgerIterator{
		column: column,
		txn:    txn,
		it:     it,
		first:  true,
	}
}

// Close releases the underlying badger database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ dps.Store = (*Store)(nil)

type badgerIterator struct {
	column string
	txn    *badger.Txn
	it     *badger.Iterator
	first  bool
	key    []byte
	value  []byte
}

func (it *badgerIterator) Next() bool {
	if it.first {
		it.first = false
	} else {
		it.it.Next()
	}
	if !it.it.Valid() {
		return false
	}

	item := it.it.Item()
	full := item.KeyCopy(nil)
	it.key = stripColumnPrefix(it.column, full)

	val, err := item.ValueCopy(nil)
	if err != nil {
		return false
	}
	it.value = val
	return true
}

func stripColumnPrefix(column string, full []byte) []byte {
	prefixLen := len(column) + 1
	if prefixLen > len(full) {
		return nil
	}
	return full[prefixLen:]
}

func (it *badgerIterator) Key() []byte   { return it.key }
func (it *badgerIterator) Value() []byte { return it.value }
func (it *badgerIterator) Close() {
	it.it.Close()
	it.txn.Discard()
}

type emptyIterator struct{}

func (*emptyIterator) Next() bool   { return false }
func (*emptyIterator) Key() []byte  { return nil }
func (*emptyIterator) Value() []byte { return nil }
func (*emptyIterator) Close()        {}
