package felt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bonsaidb/trie-reader/felt"
)

func TestPedersenDeterministic(t *testing.T) {
	a := felt.FromUint64(1)
	b := felt.FromUint64(2)
	require.True(t, felt.Pedersen(a, b).Equal(felt.Pedersen(a, b)))
}

func TestPoseidonDeterministic(t *testing.T) {
	a := felt.FromUint64(1)
	b := felt.FromUint64(2)
	require.True(t, felt.Poseidon(a, b).Equal(felt.Poseidon(a, b)))
}

func TestPedersenAndPoseidonDiffer(t *testing.T) {
	a := felt.FromUint64(7)
	b := felt.FromUint64(9)
	require.False(t, felt.Pedersen(a, b).Equal(felt.Poseidon(a, b)))
}

func TestHashSensitiveToEachInput(t *testing.T) {
	a := felt.FromUint64(3)
	b := felt.FromUint64(4)
	c := felt.FromUint64(5)

	require.False(t, felt.Pedersen(a, b).Equal(felt.Pedersen(c, b)))
	require.False(t, felt.Pedersen(a, b).Equal(felt.Pedersen(a, c)))
	require.False(t, felt.Poseidon(a, b).Equal(felt.Poseidon(c, b)))
	require.False(t, felt.Poseidon(a, b).Equal(felt.Poseidon(a, c)))
}

func TestHashNotCommutative(t *testing.T) {
	a := felt.FromUint64(11)
	b := felt.FromUint64(13)
	require.False(t, felt.Pedersen(a, b).Equal(felt.Pedersen(b, a)))
}
