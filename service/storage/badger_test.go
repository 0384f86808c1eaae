package storage_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bonsaidb/trie-reader/service/storage"
	"github.com/bonsaidb/trie-reader/trie"
)

// writeManifest opens dir read-write just long enough to seed the
// reserved manifest key and a handful of namespaced entries, then closes
// it, mirroring how an external writer process would populate the store
// before a read-only inspector attaches to it.
func writeManifest(t *testing.T, dir string, columns []string, entries map[string]map[string][]byte) {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)
	defer db.Close()

	err = db.Update(func(txn *badger.Txn) error {
		var manifest []byte
		for _, c := range columns {
			manifest = append(manifest, []byte(c)...)
			manifest = append(manifest, '\n')
		}
		if err := txn.Set([]byte("\x00bonsai-columns"), manifest); err != nil {
			return err
		}
		for column, kv := range entries {
			for k, v := range kv {
				full := append(append([]byte(column), '/'), []byte(k)...)
				if err := txn.Set(full, v); err != nil {
					return err
				}
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestOpenReadOnlyRejectsMissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, []string{"bonsai_contract_trie"}, nil)

	_, err := storage.OpenReadOnly(zerolog.Nop(), dir)
	require.Error(t, err)

	var missing *storage.ErrMissingColumns
	require.ErrorAs(t, err, &missing)
	require.Greater(t, len(missing.Missing), 0)
	require.Len(t, missing.Missing, len(trie.RequiredColumns())-1)
}

func TestOpenReadOnlyAcceptsCompleteManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, trie.RequiredColumns(), nil)

	store, err := storage.OpenReadOnly(zerolog.Nop(), dir)
	require.NoError(t, err)
	defer store.Close()

	require.ElementsMatch(t, trie.RequiredColumns(), store.Columns())
}

func TestGetReturnsNamespacedValue(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, trie.RequiredColumns(), map[string]map[string][]byte{
		"bonsai_contract_trie": {"key-a": []byte("value-a")},
	})

	store, err := storage.OpenReadOnly(zerolog.Nop(), dir)
	require.NoError(t, err)
	defer store.Close()

	v, err := store.Get("bonsai_contract_trie", []byte("key-a"))
	require.NoError(t, err)
	require.Equal(t, []byte("value-a"), v)

	v, err = store.Get("bonsai_contract_trie", []byte("missing"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestGetOnUnregisteredColumnIsNilNotError(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, trie.RequiredColumns(), nil)

	store, err := storage.OpenReadOnly(zerolog.Nop(), dir)
	require.NoError(t, err)
	defer store.Close()

	v, err := store.Get("not_a_real_column", []byte("key"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestScanFromIteratesInOrderAndStaysWithinColumn(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, trie.RequiredColumns(), map[string]map[string][]byte{
		"bonsai_contract_trie": {
			"a": []byte("1"),
			"b": []byte("2"),
			"c": []byte("3"),
		},
		"bonsai_contract_flat": {
			"a": []byte("other-column"),
		},
	})

	store, err := storage.OpenReadOnly(zerolog.Nop(), dir)
	require.NoError(t, err)
	defer store.Close()

	it := store.ScanFrom("bonsai_contract_trie", []byte("b"))
	defer it.Close()

	var keys []string
	var values []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}

	require.Equal(t, []string{"b", "c"}, keys)
	require.Equal(t, []string{"2", "3"}, values)
}

func TestScanFromOnUnregisteredColumnYieldsNothing(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, trie.RequiredColumns(), nil)

	store, err := storage.OpenReadOnly(zerolog.Nop(), dir)
	require.NoError(t, err)
	defer store.Close()

	it := store.ScanFrom("not_a_real_column", nil)
	defer it.Close()
	require.False(t, it.Next())
}
