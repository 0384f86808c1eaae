package trie_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bonsaidb/trie-reader/bitpath"
	"github.com/bonsaidb/trie-reader/trie"
)

func logKey(block uint64, trieKey []byte, keyType, changeType byte) []byte {
	key := make([]byte, 0, 9+len(trieKey)+2)
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], block)
	key = append(key, be[:]...)
	key = append(key, 0x00)
	key = append(key, trieKey...)
	key = append(key, keyType, changeType)
	return key
}

func TestReadBlockLogStopsAtPrefixBoundary(t *testing.T) {
	store := newMemStore("bonsai_contract_log")

	contractKey := append(append([]byte(nil), []byte("0xcontract")...), bitpath.New().ToBytes()...)

	store.Put("bonsai_contract_log", logKey(5, contractKey, 0, 0), []byte("a"))
	store.Put("bonsai_contract_log", logKey(5, contractKey, 1, 0), []byte("b"))
	store.Put("bonsai_contract_log", logKey(6, contractKey, 0, 0), []byte("c"))

	entries := trie.ReadBlockLog(store, "bonsai_contract_log", 5)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, uint64(5), e.Block)
	}
}

func TestReadBlockLogClassifiesByPrefix(t *testing.T) {
	store := newMemStore("bonsai_contract_log")

	contractKey := append(append([]byte(nil), []byte("0xcontract")...), bitpath.New().ToBytes()...)
	classKey := append(append([]byte(nil), []byte("0xclass")...), bitpath.New().ToBytes()...)
	storageIdentifier := make([]byte, 32)
	storageIdentifier[31] = 0x07
	storageKey := append(append([]byte(nil), storageIdentifier...), bitpath.New().ToBytes()...)

	store.Put("bonsai_contract_log", logKey(1, contractKey, 0, 0), []byte("c"))
	store.Put("bonsai_contract_log", logKey(1, classKey, 0, 0), []byte("k"))
	store.Put("bonsai_contract_log", logKey(1, storageKey, 0, 0), []byte("s"))

	entries := trie.ReadBlockLog(store, "bonsai_contract_log", 1)
	require.Len(t, entries, 3)

	byValue := map[string]trie.Kind{}
	for _, e := range entries {
		byValue[string(e.Value)] = e.TrieKind
	}
	require.Equal(t, trie.Contract, byValue["c"])
	require.Equal(t, trie.Class, byValue["k"])
	require.Equal(t, trie.Storage, byValue["s"])
}

func TestReadBlockLogSkipsShortKeys(t *testing.T) {
	store := newMemStore("bonsai_contract_log")

	var be [8]byte
	binary.BigEndian.PutUint64(be[:], 3)
	short := append(append([]byte(nil), be[:]...), 0x00, 0xAB)
	store.Put("bonsai_contract_log", short, []byte("too-short"))

	entries := trie.ReadBlockLog(store, "bonsai_contract_log", 3)
	require.Empty(t, entries)
}

func TestKeyTypeAndChangeTypeStrings(t *testing.T) {
	require.Equal(t, "trie", trie.KeyType(0).String())
	require.Equal(t, "flat", trie.KeyType(1).String())
	require.Equal(t, "unknown", trie.KeyType(9).String())
	require.Equal(t, "new", trie.ChangeType(0).String())
	require.Equal(t, "old", trie.ChangeType(1).String())
	require.Equal(t, "unknown", trie.ChangeType(9).String())
}
