package trie

import (
	"github.com/bonsaidb/trie-reader/bitpath"
	"github.com/bonsaidb/trie-reader/felt"
)

// ProofNodeVariant distinguishes the two ProofNode shapes.
type ProofNodeVariant uint8

const (
	// ProofBinary mirrors a Binary node: both children materialized.
	ProofBinary ProofNodeVariant = iota
	// ProofEdge mirrors an Edge node: a materialized child and its full
	// path-bit sequence.
	ProofEdge
)

// ProofNode is one step of a proof walk, carrying only what verification
// needs: materialized child hashes, never NodeHandle or in-memory state.
type ProofNode struct {
	Variant ProofNodeVariant

	// Binary fields.
	Left  felt.Felt
	Right felt.Felt

	// Edge fields.
	Child felt.Felt
	Path  bitpath.Path
}

// hashFamilyFor selects Pedersen for Contract/Storage and Poseidon for
// Class, per the trie kind.
func hashFamilyFor(kind Kind) felt.Hash {
	if kind == Class {
		return felt.Poseidon
	}
	return felt.Pedersen
}

// Hash computes the proof node's commitment under the hash family selected
// by kind. An Edge node's hash folds its bit-length into the commitment
// via field addition, so that two edges with the same bit-value-as-integer
// but different lengths cannot collide.
func (n ProofNode) Hash(kind Kind) felt.Felt {
	h := hashFamilyFor(kind)
	switch n.Variant {
	case ProofBinary:
		return h(n.Left, n.Right)
	case ProofEdge:
		pathFelt := bitpath.PathToFelt(n.Path)
		length := felt.FromUint64(uint64(n.Path.Len()))
		return h(n.Child, pathFelt).Add(length)
	default:
		panic("trie: unknown proof node variant")
	}
}

// BuildProof walks the trie from the root, guided by key's bits, and
// returns the ordered sequence of proof nodes. It returns false if the
// root is absent, any traversed node has a non-materialized child, or any
// load along the walk misses.
func BuildProof(reader *Reader, key bitpath.Path) ([]ProofNode, bool) {
	walked := bitpath.New()
	var proof []ProofNode

	current, ok := reader.LoadRoot()
	if !ok {
		return nil, false
	}

	for {
		switch current.Variant {
		case VariantBinary:
			left, ok := current.Left.AsHash()
			if !ok {
				return nil, false
			}
			right, ok := current.Right.AsHash()
			if !ok {
				return nil, false
			}
			proof = append(proof, ProofNode{Variant: ProofBinary, Left: left, Right: right})

			i := walked.Len()
			if i >= key.Len() {
				return proof, true
			}
			walked.Push(key.Bit(i))

		case VariantEdge:
			child, ok := current.Child.AsHash()
			if !ok {
				return nil, false
			}
			proof = append(proof, ProofNode{Variant: ProofEdge, Child: child, Path: current.Path})

			walked.Extend(current.Path)
			if walked.Len() >= key.Len() {
				return proof, true
			}

		default:
			return nil, false
		}

		next, ok := reader.LoadByPath(walked)
		if !ok {
			return nil, false
		}
		current = next
	}
}

// VerifyProof re-hashes proof against root, guided by key's bits. It does
// not require the final walked length to equal len(key): a proof that ends
// early but stays internally consistent is accepted as a valid proof of a
// sub-tree commitment.
func VerifyProof(root felt.Felt, key bitpath.Path, proof []ProofNode, kind Kind) bool {
	currentHash := root
	walked := bitpath.New()

	for _, node := range proof {
		if !node.Hash(kind).Equal(currentHash) {
			return false
		}

		switch node.Variant {
		case ProofBinary:
			if walked.Len() >= key.Len() {
				return false
			}
			bit := key.Bit(walked.Len())
			walked.Push(bit)
			if bit {
				currentHash = node.Right
			} else {
				currentHash = node.Left
			}

		case ProofEdge:
			end := walked.Len() + node.Path.Len()
			if end > key.Len() {
				return false
			}
			if !key.Slice(walked.Len(), end).Equal(node.Path) {
				return false
			}
			walked.Extend(node.Path)
			currentHash = node.Child

		default:
			return false
		}
	}

	return true
}
