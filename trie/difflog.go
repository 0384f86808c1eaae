package trie

import (
	"bytes"
	"encoding/binary"

	"github.com/bonsaidb/trie-reader/bitpath"
	"github.com/bonsaidb/trie-reader/models/dps"
)

// KeyType distinguishes a trie-column row from a flat-column row inside a
// diff-log entry.
type KeyType uint8

// ChangeType distinguishes a "new" value from an "old" (pre-image) value
// inside a diff-log entry.
type ChangeType uint8

// String renders a KeyType's presentation spelling.
func (t KeyType) String() string {
	switch t {
	case 0:
		return "trie"
	case 1:
		return "flat"
	default:
		return "unknown"
	}
}

// String renders a ChangeType's presentation spelling.
func (c ChangeType) String() string {
	switch c {
	case 0:
		return "new"
	case 1:
		return "old"
	default:
		return "unknown"
	}
}

// LogEntry is one parsed row of a per-block change log.
type LogEntry struct {
	Block      uint64
	TrieKind   Kind
	Identifier []byte
	KeyBits    bitpath.Path
	HasKeyBits bool
	KeyType    KeyType
	ChangeType ChangeType
	Value      []byte
}

// ReadBlockLog forward-scans logColumn from the composite prefix
// be64(block)||0x00, stopping at the first key that doesn't share that
// prefix, and parses each row into a LogEntry.
func ReadBlockLog(store dps.Store, logColumn string, block uint64) []LogEntry {
	prefix := make([]byte, 9)
	binary.BigEndian.PutUint64(prefix, block)
	prefix[8] = 0x00

	var entries []LogEntry
	it := store.ScanFrom(logColumn, prefix)
	defer it.Close()
	for it.Next() {
		key, value := it.Key(), it.Value()
		if !bytes.HasPrefix(key, prefix) {
			break
		}
		if len(key) < len(prefix)+2 {
			continue
		}

		keyType := KeyType(key[len(key)-2])
		changeType := ChangeType(key[len(key)-1])
		trieKeyBytes := key[len(prefix) : len(key)-2]

		kind, identifier, keyBits, hasKeyBits := parseTrieKey(trieKeyBytes)

		entries = append(entries, LogEntry{
			Block:      block,
			TrieKind:   kind,
			Identifier: identifier,
			KeyBits:    keyBits,
			HasKeyBits: hasKeyBits,
			KeyType:    keyType,
			ChangeType: changeType,
			Value:      append([]byte(nil), value...),
		})
	}
	return entries
}

// parseTrieKey splits a composite trie key (identifier++path_encoding)
// into its trie kind, identifier, and decoded key bits, following the
// identifier-prefix dispatch in the kind table. A trie key that matches
// neither the Contract nor the Class prefix and is shorter than 32 bytes
// is malformed; it is reported as Contract with no key bits so the caller
// can still inspect the raw bytes.
func parseTrieKey(b []byte) (Kind, []byte, bitpath.Path, bool) {
	if bytes.HasPrefix(b, contractIdentifierPrefix) {
		rest := b[len(contractIdentifierPrefix):]
		return Contract, contractIdentifierPrefix, bitpath.FromEncoded(rest), true
	}
	if bytes.HasPrefix(b, classIdentifierPrefix) {
		rest := b[len(classIdentifierPrefix):]
		return Class, classIdentifierPrefix, bitpath.FromEncoded(rest), true
	}
	if len(b) >= 32 {
		identifier := append([]byte(nil), b[:32]...)
		rest := b[32:]
		return Storage, identifier, bitpath.FromEncoded(rest), true
	}
	return Contract, append([]byte(nil), b...), bitpath.Path{}, false
}
