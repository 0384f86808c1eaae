package trie_test

import (
	"sort"

	"github.com/bonsaidb/trie-reader/models/dps"
)

// memStore is a minimal in-memory implementation of dps.Store used across
// this package's tests, in lieu of spinning up badger for unit tests.
type memStore struct {
	columns map[string]map[string][]byte
}

func newMemStore(columns ...string) *memStore {
	m := &memStore{columns: make(map[string]map[string][]byte)}
	for _, c := range columns {
		m.columns[c] = make(map[string][]byte)
	}
	return m
}

func (m *memStore) Columns() []string {
	names := make([]string, 0, len(m.columns))
	for name := range m.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *memStore) Put(column string, key, value []byte) {
	col, ok := m.columns[column]
	if !ok {
		col = make(map[string][]byte)
		m.columns[column] = col
	}
	col[string(key)] = append([]byte(nil), value...)
}

func (m *memStore) Get(column string, key []byte) ([]byte, error) {
	col, ok := m.columns[column]
	if !ok {
		return nil, nil
	}
	v, ok := col[string(key)]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memStore) ScanFrom(column string, prefix []byte) dps.Iterator {
	col, ok := m.columns[column]
	if !ok {
		return &memIterator{}
	}
	keys := make([]string, 0, len(col))
	for k := range col {
		if k >= string(prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{store: col, keys: keys, pos: -1}
}

type memIterator struct {
	store map[string][]byte
	keys  []string
	pos   int
}

func (it *memIterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}

func (it *memIterator) Key() []byte {
	return []byte(it.keys[it.pos])
}

func (it *memIterator) Value() []byte {
	return it.store[it.keys[it.pos]]
}

func (it *memIterator) Close() {}

var _ dps.Store = (*memStore)(nil)
