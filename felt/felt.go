// Package felt implements the 252-bit prime-field element used throughout
// the Bonsai trie on-disk format, along with its hash algebra.
package felt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Bits is the bit width of the Stark field modulus.
const Bits = 252

// modulus is the Starknet/Cairo field prime: 2^251 + 17*2^192 + 1.
var modulus = mustParse("800000000000011000000000000000000000000000000000000000000000001")

func mustParse(hexDigits string) *big.Int {
	n, ok := new(big.Int).SetString(hexDigits, 16)
	if !ok {
		panic("felt: failed to parse field modulus")
	}
	return n
}

// Felt is an element of the Stark prime field, always kept reduced modulo
// the field modulus.
type Felt struct {
	v big.Int
}

// Zero is the additive identity.
var Zero = Felt{}

// FromUint64 builds a Felt from a small unsigned integer.
func FromUint64(n uint64) Felt {
	var f Felt
	f.v.SetUint64(n)
	return f
}

// FromBytesBE decodes a Felt from a canonical big-endian byte slice.
// Slices shorter than 32 bytes are treated as left-zero-padded; the result
// is reduced modulo the field prime.
func FromBytesBE(b []byte) Felt {
	var f Felt
	f.v.SetBytes(b)
	f.v.Mod(&f.v, modulus)
	return f
}

// FromHex parses a hex string, with or without a "0x" prefix.
func FromHex(s string) (Felt, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		s = "0"
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return Felt{}, fmt.Errorf("felt: invalid hex digits %q", s)
	}
	if n.Sign() < 0 {
		return Felt{}, errors.New("felt: negative value")
	}
	var f Felt
	f.v.Mod(n, modulus)
	return f, nil
}

// BytesBE returns the canonical 32-byte big-endian serialization.
func (f Felt) BytesBE() [32]byte {
	var out [32]byte
	b := f.v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// Hex formats the Felt as a lower-case, 0x-prefixed hex string with no
// leading zero padding (beyond a single leading digit).
func (f Felt) Hex() string {
	return "0x" + f.v.Text(16)
}

// ShortHex truncates a long hex representation to a middle-elided form,
// mirroring how the original inspector displays oversized raw log values.
func (f Felt) ShortHex() string {
	s := f.Hex()
	if len(s) <= 14 {
		return s
	}
	return s[:10] + "…" + s[len(s)-4:]
}

// Add returns the field sum f+g, reduced modulo the field prime.
func (f Felt) Add(g Felt) Felt {
	var out Felt
	out.v.Add(&f.v, &g.v)
	out.v.Mod(&out.v, modulus)
	return out
}

// Mul returns the field product f*g, reduced modulo the field prime.
func (f Felt) Mul(g Felt) Felt {
	var out Felt
	out.v.Mul(&f.v, &g.v)
	out.v.Mod(&out.v, modulus)
	return out
}

// Equal reports whether f and g represent the same field element.
func (f Felt) Equal(g Felt) bool {
	return f.v.Cmp(&g.v) == 0
}

// IsZero reports whether f is the additive identity.
func (f Felt) IsZero() bool {
	return f.v.Sign() == 0
}

// String implements fmt.Stringer for debugging and test failure output.
func (f Felt) String() string {
	return f.Hex()
}

// bytesToHex is a small helper mirroring the original inspector's
// util::hex::bytes_to_hex, used for raw (non-Felt) byte display.
func bytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// BytesToHex renders an arbitrary byte slice as a lower-case 0x-prefixed
// hex string.
func BytesToHex(b []byte) string {
	return bytesToHex(b)
}
