package trie

import (
	"encoding/binary"
	"fmt"

	"github.com/bonsaidb/trie-reader/bitpath"
	"github.com/bonsaidb/trie-reader/felt"
)

// ErrMalformedNode is the single error kind the node codec produces; the
// trie reader treats every decode error as "missing node".
var ErrMalformedNode = fmt.Errorf("trie: malformed node")

// HandleKind distinguishes a materialized child reference from an
// in-memory arena index.
type HandleKind uint8

const (
	// HandleHash is a materialized child reference: a Felt commitment.
	HandleHash HandleKind = 0
	// HandleInMemory is a write-path arena index. A read-only reader
	// decodes it but never dereferences it.
	HandleInMemory HandleKind = 1
)

// NodeHandle is either a materialized Felt hash or an in-memory arena
// index (decoded but unusable for a read-only replay).
type NodeHandle struct {
	Kind  HandleKind
	Hash  felt.Felt
	Arena uint64
}

// AsHash returns the handle's Felt and true if it is a materialized
// reference, or the zero Felt and false otherwise.
func (h NodeHandle) AsHash() (felt.Felt, bool) {
	if h.Kind == HandleHash {
		return h.Hash, true
	}
	return felt.Felt{}, false
}

// NodeVariant distinguishes the two Node shapes.
type NodeVariant uint8

const (
	// VariantBinary is a two-child fan-out node.
	VariantBinary NodeVariant = 0
	// VariantEdge is a path-compressed single-child node.
	VariantEdge NodeVariant = 1
)

// Node is a tagged variant: either a Binary fan-out or an Edge
// path-compressed segment.
type Node struct {
	Variant NodeVariant

	// Common to both variants.
	Hash   *felt.Felt // nil if absent
	Height uint64

	// Binary fields.
	Left  NodeHandle
	Right NodeHandle

	// Edge fields.
	Path  bitpath.Path
	Child NodeHandle
}

// IsBinary reports whether the node is a Binary fan-out.
func (n Node) IsBinary() bool { return n.Variant == VariantBinary }

// IsEdge reports whether the node is an Edge.
func (n Node) IsEdge() bool { return n.Variant == VariantEdge }

func encodeOptionFelt(f *felt.Felt) []byte {
	if f == nil {
		return []byte{0}
	}
	b := f.BytesBE()
	out := make([]byte, 1, 33)
	out[0] = 1
	out = append(out, b[:]...)
	return out
}

func encodeU64(n uint64) []byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], n)
	return out[:]
}

func encodeHandle(h NodeHandle) []byte {
	switch h.Kind {
	case HandleHash:
		b := h.Hash.BytesBE()
		out := make([]byte, 1, 33)
		out[0] = 0
		out = append(out, b[:]...)
		return out
	case HandleInMemory:
		out := make([]byte, 1, 9)
		out[0] = 1
		out = append(out, encodeU64(h.Arena)...)
		return out
	default:
		panic("trie: unknown handle kind")
	}
}

// Encode writes the node's on-disk, little-endian, variant-tagged
// serialization.
func (n Node) Encode() []byte {
	var out []byte
	switch n.Variant {
	case VariantBinary:
		out = append(out, 0)
		out = append(out, encodeOptionFelt(n.Hash)...)
		out = append(out, encodeU64(n.Height)...)
		out = append(out, encodeHandle(n.Left)...)
		out = append(out, encodeHandle(n.Right)...)
	case VariantEdge:
		out = append(out, 1)
		out = append(out, encodeOptionFelt(n.Hash)...)
		out = append(out, encodeU64(n.Height)...)
		out = append(out, n.Path.ToBytes()...)
		out = append(out, encodeHandle(n.Child)...)
	default:
		panic("trie: unknown node variant")
	}
	return out
}

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrMalformedNode
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) readN(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, ErrMalformedNode
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *byteReader) readOptionFelt() (*felt.Felt, error) {
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		b, err := r.readN(32)
		if err != nil {
			return nil, err
		}
		f := felt.FromBytesBE(b)
		return &f, nil
	default:
		return nil, ErrMalformedNode
	}
}

func (r *byteReader) readU64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *byteReader) readHandle() (NodeHandle, error) {
	tag, err := r.readByte()
	if err != nil {
		return NodeHandle{}, err
	}
	switch tag {
	case 0:
		b, err := r.readN(32)
		if err != nil {
			return NodeHandle{}, err
		}
		return NodeHandle{Kind: HandleHash, Hash: felt.FromBytesBE(b)}, nil
	case 1:
		n, err := r.readU64()
		if err != nil {
			return NodeHandle{}, err
		}
		return NodeHandle{Kind: HandleInMemory, Arena: n}, nil
	default:
		return NodeHandle{}, ErrMalformedNode
	}
}

func (r *byteReader) readPath() (bitpath.Path, error) {
	lenByte, err := r.readByte()
	if err != nil {
		return bitpath.Path{}, err
	}
	n := int(lenByte)
	if n > bitpath.MaxLen {
		return bitpath.Path{}, ErrMalformedNode
	}
	contentLen := (n + 7) / 8
	content, err := r.readN(contentLen)
	if err != nil {
		return bitpath.Path{}, err
	}
	encoded := make([]byte, 0, 1+contentLen)
	encoded = append(encoded, lenByte)
	encoded = append(encoded, content...)
	return bitpath.FromEncoded(encoded), nil
}

// DecodeNode decodes the on-disk, variant-tagged node format. Any
// truncation, unknown tag, or over-length Edge path surfaces as
// ErrMalformedNode.
func DecodeNode(data []byte) (Node, error) {
	r := &byteReader{data: data}
	tag, err := r.readByte()
	if err != nil {
		return Node{}, err
	}

	hash, err := r.readOptionFelt()
	if err != nil {
		return Node{}, err
	}
	height, err := r.readU64()
	if err != nil {
		return Node{}, err
	}

	switch tag {
	case 0:
		left, err := r.readHandle()
		if err != nil {
			return Node{}, err
		}
		right, err := r.readHandle()
		if err != nil {
			return Node{}, err
		}
		return Node{Variant: VariantBinary, Hash: hash, Height: height, Left: left, Right: right}, nil
	case 1:
		path, err := r.readPath()
		if err != nil {
			return Node{}, err
		}
		child, err := r.readHandle()
		if err != nil {
			return Node{}, err
		}
		return Node{Variant: VariantEdge, Hash: hash, Height: height, Path: path, Child: child}, nil
	default:
		return Node{}, ErrMalformedNode
	}
}
