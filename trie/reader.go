package trie

import (
	"github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/bonsaidb/trie-reader/bitpath"
	"github.com/bonsaidb/trie-reader/felt"
	"github.com/bonsaidb/trie-reader/models/dps"
)

// cacheSize bounds the reader's per-request node cache. A reader is
// typically constructed once per request and discarded, so this is a soft
// memory cap rather than a tuned working-set size.
const cacheSize = 4096

// Spec names the columns and identifier prefix a Reader resolves lookups
// against for one of the three trie kinds.
type Spec struct {
	Identifier []byte
	TrieColumn string
	FlatColumn string
	LogColumn  string
}

// SpecFor builds the Spec for a Kind. Storage requires a non-nil
// identifier (the 32-byte big-endian serialization of a Felt); Contract
// and Class ignore the identifier argument and use their fixed prefixes.
func SpecFor(kind Kind, identifier []byte) Spec {
	cols := columnsByKind[kind]
	spec := Spec{TrieColumn: cols.trie, FlatColumn: cols.flat, LogColumn: cols.log}
	switch kind {
	case Contract:
		spec.Identifier = contractIdentifierPrefix
	case Class:
		spec.Identifier = classIdentifierPrefix
	case Storage:
		spec.Identifier = identifier
	}
	return spec
}

// Reader loads persisted nodes and flat leaves for one trie, caching
// decoded nodes for its own lifetime. A Reader is not safe to share
// between concurrent requests; construct a fresh one per request.
type Reader struct {
	log   zerolog.Logger
	store dps.Store
	spec  Spec
	cache *lru.Cache
}

// NewReader constructs a Reader over the given store and trie spec.
func NewReader(log zerolog.Logger, store dps.Store, spec Spec) *Reader {
	cache, err := lru.New(cacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which cacheSize
		// never is.
		panic(err)
	}
	return &Reader{
		log:   log.With().Str("component", "trie_reader").Logger(),
		store: store,
		spec:  spec,
		cache: cache,
	}
}

// Spec returns the Reader's trie spec.
func (r *Reader) Spec() Spec {
	return r.spec
}

func (r *Reader) compositeKey(path bitpath.Path) []byte {
	key := make([]byte, 0, len(r.spec.Identifier)+33)
	key = append(key, r.spec.Identifier...)
	key = append(key, path.ToBytes()...)
	return key
}

// LoadRoot loads the node at the empty path.
func (r *Reader) LoadRoot() (Node, bool) {
	return r.LoadByPath(bitpath.New())
}

// LoadByPath composes the composite storage key for path, consults the
// cache, and on a miss reads and decodes the trie column. Decode failures
// and absent keys both report as "not found".
func (r *Reader) LoadByPath(path bitpath.Path) (Node, bool) {
	key := r.compositeKey(path)
	if cached, ok := r.cache.Get(string(key)); ok {
		return cached.(Node), true
	}

	raw, err := r.store.Get(r.spec.TrieColumn, key)
	if err != nil {
		r.log.Warn().Err(err).Msg("trie column lookup failed")
		return Node{}, false
	}
	if raw == nil {
		return Node{}, false
	}

	node, err := DecodeNode(raw)
	if err != nil {
		r.log.Debug().Err(err).Msg("malformed node treated as missing")
		return Node{}, false
	}

	r.cache.Add(string(key), node)
	return node, true
}

// LoadFlat reads the flat column at keyBits and decodes a Felt from the
// stored bytes. Absent keys and undecodable values both report as "not
// found".
func (r *Reader) LoadFlat(keyBits bitpath.Path) (felt.Felt, bool) {
	key := make([]byte, 0, len(r.spec.Identifier)+33)
	key = append(key, r.spec.Identifier...)
	key = append(key, keyBits.ToBytes()...)

	raw, err := r.store.Get(r.spec.FlatColumn, key)
	if err != nil {
		r.log.Warn().Err(err).Msg("flat column lookup failed")
		return felt.Felt{}, false
	}
	if raw == nil {
		return felt.Felt{}, false
	}

	br := &byteReader{data: raw}
	f, err := br.readOptionFelt()
	if err != nil || f == nil {
		return felt.Felt{}, false
	}
	return *f, true
}
