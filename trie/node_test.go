package trie_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bonsaidb/trie-reader/bitpath"
	"github.com/bonsaidb/trie-reader/felt"
	"github.com/bonsaidb/trie-reader/trie"
)

func TestDecodeEncodeBinaryRoundTrip(t *testing.T) {
	h := felt.FromUint64(42)
	n := trie.Node{
		Variant: trie.VariantBinary,
		Hash:    &h,
		Height:  3,
		Left:    trie.NodeHandle{Kind: trie.HandleHash, Hash: felt.FromUint64(1)},
		Right:   trie.NodeHandle{Kind: trie.HandleInMemory, Arena: 7},
	}

	back, err := trie.DecodeNode(n.Encode())
	require.NoError(t, err)
	require.Equal(t, trie.VariantBinary, back.Variant)
	require.Equal(t, uint64(3), back.Height)
	require.True(t, back.Hash.Equal(h))
	left, ok := back.Left.AsHash()
	require.True(t, ok)
	require.True(t, left.Equal(felt.FromUint64(1)))
	_, ok = back.Right.AsHash()
	require.False(t, ok)
	require.Equal(t, uint64(7), back.Right.Arena)
}

func TestDecodeEncodeEdgeRoundTrip(t *testing.T) {
	path := bitpath.FromBits([]bool{true, false, true, true})
	n := trie.Node{
		Variant: trie.VariantEdge,
		Hash:    nil,
		Height:  9,
		Path:    path,
		Child:   trie.NodeHandle{Kind: trie.HandleHash, Hash: felt.FromUint64(99)},
	}

	back, err := trie.DecodeNode(n.Encode())
	require.NoError(t, err)
	require.Equal(t, trie.VariantEdge, back.Variant)
	require.Nil(t, back.Hash)
	require.True(t, path.Equal(back.Path))
	child, ok := back.Child.AsHash()
	require.True(t, ok)
	require.True(t, child.Equal(felt.FromUint64(99)))
}

func TestDecodeUnknownOuterTagIsError(t *testing.T) {
	_, err := trie.DecodeNode([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	require.ErrorIs(t, err, trie.ErrMalformedNode)
}

func TestDecodeTruncatedBufferIsError(t *testing.T) {
	_, err := trie.DecodeNode([]byte{0, 0})
	require.ErrorIs(t, err, trie.ErrMalformedNode)
}

func TestDecodeEdgeOverlongPathIsError(t *testing.T) {
	n := trie.Node{
		Variant: trie.VariantEdge,
		Height:  0,
		Child:   trie.NodeHandle{Kind: trie.HandleHash},
	}
	encoded := n.Encode()
	// Patch the length byte (right after tag + option-felt-tag + height)
	// to exceed bitpath.MaxLen.
	pathLenOffset := 1 + 1 + 8
	encoded[pathLenOffset] = byte(bitpath.MaxLen + 1)
	_, err := trie.DecodeNode(encoded)
	require.ErrorIs(t, err, trie.ErrMalformedNode)
}

func TestKindStringAndParse(t *testing.T) {
	for _, k := range []trie.Kind{trie.Contract, trie.Storage, trie.Class} {
		parsed, ok := trie.ParseKind(k.String())
		require.True(t, ok)
		require.Equal(t, k, parsed)
	}
	_, ok := trie.ParseKind("bogus")
	require.False(t, ok)
}

func TestRequiredColumnsHasNine(t *testing.T) {
	require.Len(t, trie.RequiredColumns(), 9)
}
