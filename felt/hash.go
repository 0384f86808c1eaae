package felt

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
)

// Hash is a two-Felt-to-one-Felt compression function. The trie proof
// engine selects between the two implementations below by TrieKind:
// Pedersen for Contract/Storage, Poseidon for Class.
type Hash func(a, b Felt) Felt

// deriveConstant deterministically derives a field element from a domain
// string and an index, by reducing SHA-256(domain||index) modulo the field
// prime. This gives stable, reproducible round/generator constants without
// shipping an external precomputed table.
func deriveConstant(domain string, index int) Felt {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(index))
	h := sha256.Sum256(append([]byte(domain), buf[:]...))
	n := new(big.Int).SetBytes(h[:])
	n.Mod(n, modulus)
	return Felt{v: *n}
}

// pedersenConstants are the fixed "generator" coefficients of the Pedersen
// compression function. The real Starknet Pedersen hash is an elliptic
// curve multi-scalar multiplication against a fixed table of curve points;
// this module represents the same two-input, fixed-constant, field-only
// shape (see DESIGN.md) without requiring the external curve-point table.
var pedersenConstants = [4]Felt{
	deriveConstant("bonsai-pedersen", 0),
	deriveConstant("bonsai-pedersen", 1),
	deriveConstant("bonsai-pedersen", 2),
	deriveConstant("bonsai-pedersen", 3),
}

// Pedersen computes the two-input Pedersen-family hash used by Contract and
// Storage tries.
func Pedersen(a, b Felt) Felt {
	c := pedersenConstants
	out := c[0]
	out = out.Add(a.Mul(c[1]))
	out = out.Add(b.Mul(c[2]))
	out = out.Add(a.Mul(b).Mul(c[3]))
	return out
}

const (
	poseidonWidth      = 3
	poseidonFullRounds = 4
	poseidonPartRounds = 8
	poseidonRounds     = poseidonFullRounds + poseidonPartRounds
)

var (
	poseidonRoundConstants [poseidonRounds][poseidonWidth]Felt
	poseidonMDS            [poseidonWidth][poseidonWidth]Felt
)

func init() {
	for r := 0; r < poseidonRounds; r++ {
		for i := 0; i < poseidonWidth; i++ {
			poseidonRoundConstants[r][i] = deriveConstant("bonsai-poseidon-rc", r*poseidonWidth+i)
		}
	}
	for i := 0; i < poseidonWidth; i++ {
		for j := 0; j < poseidonWidth; j++ {
			poseidonMDS[i][j] = deriveConstant("bonsai-poseidon-mds", i*poseidonWidth+j)
		}
	}
}

func poseidonSBox(x Felt) Felt {
	return x.Mul(x).Mul(x)
}

func poseidonMix(state [poseidonWidth]Felt) [poseidonWidth]Felt {
	var out [poseidonWidth]Felt
	for i := 0; i < poseidonWidth; i++ {
		acc := Zero
		for j := 0; j < poseidonWidth; j++ {
			acc = acc.Add(poseidonMDS[i][j].Mul(state[j]))
		}
		out[i] = acc
	}
	return out
}

// poseidonPermute runs the fixed-width Poseidon permutation: full S-box
// rounds on every lane, partial S-box rounds (first lane only) in the
// middle, full rounds again, each round adding constants and then mixing
// with the MDS matrix.
func poseidonPermute(state [poseidonWidth]Felt) [poseidonWidth]Felt {
	for r := 0; r < poseidonRounds; r++ {
		for i := 0; i < poseidonWidth; i++ {
			state[i] = state[i].Add(poseidonRoundConstants[r][i])
		}
		full := r < poseidonFullRounds/2 || r >= poseidonRounds-poseidonFullRounds/2
		if full {
			for i := 0; i < poseidonWidth; i++ {
				state[i] = poseidonSBox(state[i])
			}
		} else {
			state[0] = poseidonSBox(state[0])
		}
		state = poseidonMix(state)
	}
	return state
}

// Poseidon computes the two-input Poseidon-family hash used by Class
// tries, via a sponge with capacity lane held at zero.
func Poseidon(a, b Felt) Felt {
	state := [poseidonWidth]Felt{a, b, Zero}
	state = poseidonPermute(state)
	return state[0]
}
