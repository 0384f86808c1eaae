// Package inspector is the core's outward-facing service contract: plain
// value DTOs and the functions that build them from a trie.Reader and a
// service/storage.Store. It performs no transport of its own; an (out of
// scope) HTTP or CLI layer marshals these DTOs directly.
package inspector

// NodeView renders a decoded trie.Node for display. Either (Left, Right)
// or (Child, PathLen, PathHex) is populated, depending on Kind.
type NodeView struct {
	Kind    string  `json:"kind"`
	Height  uint64  `json:"height"`
	Hash    *string `json:"hash,omitempty"`
	Left    *string `json:"left,omitempty"`
	Right   *string `json:"right,omitempty"`
	Child   *string `json:"child,omitempty"`
	PathLen *int    `json:"path_len,omitempty"`
	PathHex *string `json:"path_hex,omitempty"`
}

// OpenResponse is the result of opening a store.
type OpenResponse struct {
	OK    bool    `json:"ok"`
	Error *string `json:"error,omitempty"`
}

// ColumnsResponse lists the columns discovered at open time.
type ColumnsResponse struct {
	Total int      `json:"total"`
	Names []string `json:"names"`
}

// RootResponse is the result of loading a trie's root node.
type RootResponse struct {
	PathHex string    `json:"path_hex"`
	Node    *NodeView `json:"node,omitempty"`
}

// NodeResponse is the result of loading a node by path.
type NodeResponse struct {
	PathHex string    `json:"path_hex"`
	Node    *NodeView `json:"node,omitempty"`
}

// LeafResponse is the result of loading a flat leaf value.
type LeafResponse struct {
	Key   string  `json:"key"`
	Value *string `json:"value,omitempty"`
}

// DiffEntry renders one parsed change-log row.
type DiffEntry struct {
	Block      uint64 `json:"block"`
	KeyType    string `json:"key_type"`
	ChangeType string `json:"change_type"`
	KeyLen     *int   `json:"key_len,omitempty"`
	Value      string `json:"value"`
}

// DiffResponse is the result of decoding a block's change log.
type DiffResponse struct {
	Entries []DiffEntry `json:"entries"`
}

// ProofNodeView renders one step of a proof walk for display.
type ProofNodeView struct {
	Kind    string  `json:"kind"`
	Left    *string `json:"left,omitempty"`
	Right   *string `json:"right,omitempty"`
	Child   *string `json:"child,omitempty"`
	PathLen *int    `json:"path_len,omitempty"`
}

// ProofResponse is the result of building and verifying an inclusion
// proof for a key.
type ProofResponse struct {
	Verified bool            `json:"verified"`
	Nodes    []ProofNodeView `json:"nodes"`
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
