package inspector

import (
	"github.com/rs/zerolog"

	"github.com/bonsaidb/trie-reader/bitpath"
	"github.com/bonsaidb/trie-reader/models/dps"
	"github.com/bonsaidb/trie-reader/service/storage"
	"github.com/bonsaidb/trie-reader/trie"
)

// Inspector is the core's outward face: a thin layer over an open store
// that resolves requests into trie.Reader calls and renders the results
// as the DTOs in views.go. It never returns a Go error from its query
// methods; a failed lookup renders as an empty or zero-value DTO, per the
// "no partial failure through the success channel" error model.
type Inspector struct {
	log   zerolog.Logger
	store dps.Store
}

// Open opens the badger-backed store at path read-only and validates its
// required columns. This is the one place a fatal, user-visible error is
// reported: everything after Open succeeds operates on the success
// channel only.
func Open(log zerolog.Logger, path string) (*Inspector, OpenResponse) {
	store, err := storage.OpenReadOnly(log, path)
	if err != nil {
		msg := err.Error()
		return nil, OpenResponse{OK: false, Error: &msg}
	}
	return &Inspector{log: log.With().Str("component", "inspector").Logger(), store: store}, OpenResponse{OK: true}
}

// Columns lists the columns discovered when the store was opened.
func (i *Inspector) Columns() ColumnsResponse {
	names := i.store.Columns()
	return ColumnsResponse{Total: len(names), Names: names}
}

// buildSpec resolves a trie kind and optional hex identifier into a
// trie.Spec. Storage requires a non-empty identifier; Contract and Class
// ignore it.
func buildSpec(kind trie.Kind, identifier string) (trie.Spec, bool) {
	if kind != trie.Storage {
		return trie.SpecFor(kind, nil), true
	}
	if identifier == "" {
		return trie.Spec{}, false
	}
	f, err := parseFeltHex(identifier)
	if err != nil {
		return trie.Spec{}, false
	}
	b := f.BytesBE()
	return trie.SpecFor(kind, b[:]), true
}

// Root loads the given trie's root node.
func (i *Inspector) Root(kind trie.Kind, identifier string) RootResponse {
	rootPathHex := bytesToHex(bitpath.New().ToBytes())

	spec, ok := buildSpec(kind, identifier)
	if !ok {
		return RootResponse{PathHex: rootPathHex}
	}

	reader := trie.NewReader(i.log, i.store, spec)
	node, ok := reader.LoadRoot()
	if !ok {
		return RootResponse{PathHex: rootPathHex}
	}
	view := nodeToView(node)
	return RootResponse{PathHex: rootPathHex, Node: &view}
}

// Node loads a node by its length-prefixed path-hex encoding.
func (i *Inspector) Node(kind trie.Kind, identifier, pathHex string) NodeResponse {
	spec, ok := buildSpec(kind, identifier)
	if !ok {
		return NodeResponse{PathHex: pathHex}
	}

	pathBytes, err := hexToBytes(pathHex)
	if err != nil {
		return NodeResponse{PathHex: pathHex}
	}
	path := bitpath.FromEncoded(pathBytes)

	reader := trie.NewReader(i.log, i.store, spec)
	node, ok := reader.LoadByPath(path)
	if !ok {
		return NodeResponse{PathHex: pathHex}
	}
	view := nodeToView(node)
	return NodeResponse{PathHex: pathHex, Node: &view}
}

// Leaf loads a flat-column value for a hex Felt key.
func (i *Inspector) Leaf(kind trie.Kind, identifier, keyHex string) LeafResponse {
	spec, ok := buildSpec(kind, identifier)
	if !ok {
		return LeafResponse{Key: keyHex}
	}

	f, err := parseFeltHex(keyHex)
	if err != nil {
		return LeafResponse{Key: keyHex}
	}

	reader := trie.NewReader(i.log, i.store, spec)
	value, ok := reader.LoadFlat(bitpath.FeltToPath(f))
	if !ok {
		return LeafResponse{Key: keyHex}
	}
	v := value.Hex()
	return LeafResponse{Key: keyHex, Value: &v}
}

// Diff decodes a block's change log for the given trie kind. Storage
// diffs are read from the Storage kind's own log column; the identifier
// scoping a particular sub-trie is not required to read the raw log (the
// log itself records which identifier each entry belongs to).
func (i *Inspector) Diff(kind trie.Kind, block uint64) DiffResponse {
	spec := trie.SpecFor(kind, nil)
	rawEntries := trie.ReadBlockLog(i.store, spec.LogColumn, block)

	entries := make([]DiffEntry, 0, len(rawEntries))
	for _, e := range rawEntries {
		entry := DiffEntry{
			Block:      e.Block,
			KeyType:    e.KeyType.String(),
			ChangeType: e.ChangeType.String(),
			Value:      diffValueDisplay(e.Value),
		}
		if e.HasKeyBits {
			n := e.KeyBits.Len()
			entry.KeyLen = &n
		}
		entries = append(entries, entry)
	}
	return DiffResponse{Entries: entries}
}

// diffValueDisplay renders a log entry's raw value as a short Felt hex
// when it decodes as one, falling back to raw byte hex otherwise.
func diffValueDisplay(value []byte) string {
	if f, ok := decodeFeltFromValue(value); ok {
		return formatFeltShort(f)
	}
	return bytesToHex(value)
}

// Proof builds and verifies an inclusion proof for a hex Felt key against
// the given trie's current root.
func (i *Inspector) Proof(kind trie.Kind, identifier, keyHex string) ProofResponse {
	spec, ok := buildSpec(kind, identifier)
	if !ok {
		return ProofResponse{}
	}

	f, err := parseFeltHex(keyHex)
	if err != nil {
		return ProofResponse{}
	}
	key := bitpath.FeltToPath(f)

	reader := trie.NewReader(i.log, i.store, spec)
	root, ok := reader.LoadRoot()
	if !ok {
		return ProofResponse{}
	}
	rootHash := root.Hash
	if rootHash == nil {
		return ProofResponse{}
	}

	proof, ok := trie.BuildProof(reader, key)
	if !ok {
		return ProofResponse{}
	}

	verified := trie.VerifyProof(*rootHash, key, proof, kind)
	return ProofResponse{Verified: verified, Nodes: proofNodesToViews(proof)}
}

func nodeToView(n trie.Node) NodeView {
	view := NodeView{Height: n.Height}
	if n.Hash != nil {
		view.Hash = strPtr(n.Hash.Hex())
	}
	switch n.Variant {
	case trie.VariantBinary:
		view.Kind = "binary"
		if h, ok := n.Left.AsHash(); ok {
			view.Left = strPtr(h.Hex())
		}
		if h, ok := n.Right.AsHash(); ok {
			view.Right = strPtr(h.Hex())
		}
	case trie.VariantEdge:
		view.Kind = "edge"
		if h, ok := n.Child.AsHash(); ok {
			view.Child = strPtr(h.Hex())
		}
		view.PathLen = intPtr(n.Path.Len())
		view.PathHex = strPtr(bytesToHex(n.Path.ToBytes()))
	}
	return view
}

func proofNodesToViews(proof []trie.ProofNode) []ProofNodeView {
	out := make([]ProofNodeView, 0, len(proof))
	for _, node := range proof {
		switch node.Variant {
		case trie.ProofBinary:
			out = append(out, ProofNodeView{
				Kind:  "binary",
				Left:  strPtr(node.Left.Hex()),
				Right: strPtr(node.Right.Hex()),
			})
		case trie.ProofEdge:
			out = append(out, ProofNodeView{
				Kind:    "edge",
				Child:   strPtr(node.Child.Hex()),
				PathLen: intPtr(node.Path.Len()),
			})
		}
	}
	return out
}
