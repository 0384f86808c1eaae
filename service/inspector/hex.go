package inspector

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bonsaidb/trie-reader/felt"
)

// parseFeltHex parses a hex Felt, with or without a "0x" prefix, empty
// string treated as zero. Carried from the original inspector's
// util::hex::parse_felt_hex.
func parseFeltHex(input string) (felt.Felt, error) {
	return felt.FromHex(input)
}

// formatFeltShort renders a Felt in truncated-middle display form for
// oversized values, carried from util::hex::format_felt_short. It was
// dropped by the distilled wire convention (which only specifies full
// hex) and is reinstated here as a Diff display helper.
func formatFeltShort(f felt.Felt) string {
	return f.ShortHex()
}

// bytesToHex renders raw bytes as lower-case 0x-prefixed hex, carried from
// util::hex::bytes_to_hex.
func bytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// decodeFeltFromValue attempts to decode a flat-column-style
// variant-tagged Option<Felt> value into a Felt, mirroring
// util::hex::decode_felt_scale's role in the Diff display path: a log
// entry's raw value is shown as a Felt when it decodes as one, and as raw
// hex otherwise.
func decodeFeltFromValue(value []byte) (felt.Felt, bool) {
	if len(value) == 0 || value[0] != 1 {
		return felt.Felt{}, false
	}
	if len(value) != 33 {
		return felt.Felt{}, false
	}
	return felt.FromBytesBE(value[1:33]), true
}

// hexToBytes decodes a hex string, with or without a "0x" prefix. An
// odd-length input is rejected.
func hexToBytes(input string) ([]byte, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("inspector: odd-length hex string %q", input)
	}
	return hex.DecodeString(s)
}
